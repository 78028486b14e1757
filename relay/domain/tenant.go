package domain

// TenantID é o identificador opaco do cliente (client_api_id).
// Nunca é interpretado, só usado como chave.
type TenantID string

// Credential é o registro de credenciais de um tenant no KV.
type Credential struct {
	Tenant TenantID
	APIKey Secret
}
