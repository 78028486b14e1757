package domain

import "context"

// CredentialStore mapeia tenant -> credencial.
//
// Deve devolver ErrCredentialNotFound quando o registro não existe ou está
// incompleto; qualquer outro erro é falha de infraestrutura.
type CredentialStore interface {
	Lookup(ctx context.Context, tenant TenantID) (Credential, error)
}
