package domain

import "context"

// ForwardRequest é o que o relay envia ao workflow.
// Body vai byte a byte, sem re-serialização.
type ForwardRequest struct {
	Tenant      TenantID
	Secret      Secret
	Body        []byte
	ContentType string
	RequestID   string
}

// UpstreamResponse é a resposta bruta do workflow, lida por completo.
type UpstreamResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Forwarder faz exatamente uma tentativa de entrega.
// Falha de rede deve ser devolvida como erro que envolve ErrUpstreamUnreachable.
type Forwarder interface {
	Forward(ctx context.Context, req ForwardRequest) (UpstreamResponse, error)
}

// Reply é o contrato estável devolvido ao widget.
type Reply struct {
	Status int    `json:"-"`
	Text   string `json:"reply"`
}
