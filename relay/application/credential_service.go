package application

import (
	"context"
	"errors"
	"fmt"

	"edge-relay/relay/domain"
)

// CredentialService resolve o segredo do tenant. Sempre fail-closed:
// registro ausente, incompleto ou erro do store viram ErrUnknownTenant.
type CredentialService struct {
	Store domain.CredentialStore
}

func (s CredentialService) Resolve(ctx context.Context, tenant domain.TenantID) (domain.Secret, error) {
	if s.Store == nil {
		return domain.Secret{}, domain.ErrUnknownTenant
	}

	cred, err := s.Store.Lookup(ctx, tenant)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return domain.Secret{}, domain.ErrUnknownTenant
		}
		return domain.Secret{}, fmt.Errorf("%w: credential store: %v", domain.ErrUnknownTenant, err)
	}
	if cred.APIKey.IsZero() {
		return domain.Secret{}, domain.ErrUnknownTenant
	}
	return cred.APIKey, nil
}
