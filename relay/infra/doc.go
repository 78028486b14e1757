// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - RedisCounterStore / RedisCredentialStore: KV compartilhado (go-redis)
//   - HTTPForwarder: entrega ao workflow (net/http)
//   - BucketStore: token bucket por cliente usando golang.org/x/time/rate
//   - ChanPool: semáforo simples para limite de concorrência
//   - RedisStatsStore / MemoryStatsStore: estatísticas por desfecho
//   - PromMetrics: métricas Prometheus
package infra
