package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"edge-relay/relay/domain"
)

const (
	DefaultTenantHeader = "x-client-id"
	RequestIDHeader     = "X-Request-Id"
	defaultContentType  = "application/json"
)

// HTTPForwarder entrega o corpo original ao workflow (ex: webhook do n8n).
//
// Uma única tentativa, sem retry e sem circuit breaker. O timeout só existe se
// configurado; por padrão vale o ctx da requisição de entrada.
type HTTPForwarder struct {
	url          string
	client       *http.Client
	tenantHeader string
	maxResponse  int64
}

type ForwarderOption func(*HTTPForwarder)

func WithHTTPClient(c *http.Client) ForwarderOption {
	return func(f *HTTPForwarder) { f.client = c }
}

// WithTimeout aplica um timeout ao cliente HTTP. Zero ou negativo: sem timeout.
func WithTimeout(d time.Duration) ForwarderOption {
	return func(f *HTTPForwarder) {
		if d > 0 {
			c := *f.client
			c.Timeout = d
			f.client = &c
		}
	}
}

func WithTenantHeader(name string) ForwarderOption {
	return func(f *HTTPForwarder) {
		if name != "" {
			f.tenantHeader = name
		}
	}
}

// WithMaxResponseBytes limita quanto da resposta é lido (0 = sem limite).
func WithMaxResponseBytes(n int64) ForwarderOption {
	return func(f *HTTPForwarder) { f.maxResponse = n }
}

func NewHTTPForwarder(endpoint string, opts ...ForwarderOption) *HTTPForwarder {
	f := &HTTPForwarder{
		url:          endpoint,
		client:       &http.Client{},
		tenantHeader: DefaultTenantHeader,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forward implementa domain.Forwarder. Headers enviados:
//
//	Content-Type:   <content-type de entrada ou application/json>
//	Authorization:  Bearer <segredo do tenant>
//	x-client-id:    <tenant>
//	X-Request-Id:   <id da requisição, quando houver>
func (f *HTTPForwarder) Forward(ctx context.Context, req domain.ForwardRequest) (domain.UpstreamResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(req.Body))
	if err != nil {
		return domain.UpstreamResponse{}, fmt.Errorf("%w: create request: %v", domain.ErrUpstreamUnreachable, withoutURL(err))
	}

	ct := req.ContentType
	if ct == "" {
		ct = defaultContentType
	}
	httpReq.Header.Set("Content-Type", ct)
	httpReq.Header.Set("Authorization", "Bearer "+req.Secret.Reveal())
	httpReq.Header.Set(f.tenantHeader, string(req.Tenant))
	if req.RequestID != "" {
		httpReq.Header.Set(RequestIDHeader, req.RequestID)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return domain.UpstreamResponse{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, withoutURL(err))
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if f.maxResponse > 0 {
		body = io.LimitReader(resp.Body, f.maxResponse)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return domain.UpstreamResponse{}, fmt.Errorf("%w: read response: %v", domain.ErrUpstreamUnreachable, err)
	}

	return domain.UpstreamResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        raw,
	}, nil
}

// withoutURL descarta a URL do *url.Error: webhooks costumam levar token na
// query e o erro acaba nos logs.
func withoutURL(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	return fmt.Errorf("%s workflow: %w", strings.ToLower(ue.Op), ue.Err)
}

