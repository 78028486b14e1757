package relay

import (
	"net/http"

	"edge-relay/relay/domain"
)

const (
	DefaultTenantQueryParam = "client"
	DefaultTenantHeader     = "x-client-id"
)

// TenantResolver extrai o tenant: query param primeiro, header como fallback.
// O valor é opaco e segue sem alteração; só a string vazia conta como ausente.
type TenantResolver struct {
	QueryParam string
	Header     string
}

func (t TenantResolver) Resolve(r *http.Request) (domain.TenantID, error) {
	param := t.QueryParam
	if param == "" {
		param = DefaultTenantQueryParam
	}
	header := t.Header
	if header == "" {
		header = DefaultTenantHeader
	}

	if v := r.URL.Query().Get(param); v != "" {
		return domain.TenantID(v), nil
	}
	if v := r.Header.Get(header); v != "" {
		return domain.TenantID(v), nil
	}
	return "", domain.ErrMissingTenant
}
