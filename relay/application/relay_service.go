package application

import (
	"context"
	"errors"
	"log"
	"time"

	"edge-relay/relay/domain"
)

// RelayRequest é a requisição já validada (origem ok, tenant resolvido).
type RelayRequest struct {
	Tenant      domain.TenantID
	Body        []byte
	ContentType string
	RequestID   string
}

// RelayResult carrega a resposta normalizada e a decisão de rate limit
// (para headers X-RateLimit-* / Retry-After).
type RelayResult struct {
	Reply domain.Reply
	Rate  domain.RateDecision
}

// RelayService orquestra rate limit -> credenciais -> forward -> normalização.
// Cada etapa pode encerrar a requisição; nenhuma re-tenta.
type RelayService struct {
	Rate        RateService
	Credentials CredentialService
	Forwarder   domain.Forwarder
	Normalizer  Normalizer
	Stats       domain.StatsStore
	Metrics     domain.Metrics
}

func (s RelayService) Relay(ctx context.Context, req RelayRequest) (RelayResult, error) {
	if req.Tenant == "" {
		return RelayResult{}, domain.ErrMissingTenant
	}

	dec, err := s.Rate.Check(ctx, req.Tenant)
	if err != nil {
		s.record(ctx, req.Tenant, domain.OutcomeRateLimited)
		return RelayResult{Rate: dec}, err
	}

	secret, err := s.Credentials.Resolve(ctx, req.Tenant)
	if err != nil {
		s.record(ctx, req.Tenant, domain.OutcomeUnknownTenant)
		return RelayResult{Rate: dec}, err
	}

	if s.Forwarder == nil {
		s.record(ctx, req.Tenant, domain.OutcomeUpstreamError)
		return RelayResult{Rate: dec}, domain.ErrUpstreamUnreachable
	}

	started := time.Now()
	resp, err := s.Forwarder.Forward(ctx, domain.ForwardRequest{
		Tenant:      req.Tenant,
		Secret:      secret,
		Body:        req.Body,
		ContentType: req.ContentType,
		RequestID:   req.RequestID,
	})
	if err != nil {
		s.record(ctx, req.Tenant, domain.OutcomeUpstreamError)
		if !errors.Is(err, domain.ErrUpstreamUnreachable) {
			err = errors.Join(domain.ErrUpstreamUnreachable, err)
		}
		return RelayResult{Rate: dec}, err
	}
	s.metrics().ObserveUpstream(resp.Status, time.Since(started))

	s.record(ctx, req.Tenant, domain.OutcomeRelayed)
	return RelayResult{Reply: s.Normalizer.Normalize(resp.Status, resp.Body), Rate: dec}, nil
}

func (s RelayService) record(ctx context.Context, tenant domain.TenantID, outcome domain.Outcome) {
	s.metrics().IncOutcome(string(outcome))
	if s.Stats == nil {
		return
	}
	err := s.Stats.Record(ctx, domain.StatsEvent{Tenant: tenant, Outcome: outcome, At: time.Now()})
	if err != nil {
		log.Printf("relay stats error: %v", err)
	}
}

func (s RelayService) metrics() domain.Metrics {
	if s.Metrics == nil {
		return domain.NoopMetrics{}
	}
	return s.Metrics
}
