package domain

import "time"

// Metrics recebe os eventos observáveis do relay.
// Labels nunca incluem o tenant (cardinalidade).
type Metrics interface {
	IncOutcome(outcome string)
	ObserveUpstream(status int, d time.Duration)
}

// NoopMetrics implementa Metrics sem emitir nada.
type NoopMetrics struct{}

func (NoopMetrics) IncOutcome(string)                  {}
func (NoopMetrics) ObserveUpstream(int, time.Duration) {}
