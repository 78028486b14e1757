// Package relay fornece o adapter HTTP (net/http + chi) do relay entre o widget
// de chat e o workflow.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (origem, rate limit, credenciais, normalização) sem net/http
//   - infra: implementações concretas (Redis, cliente HTTP, token bucket, Prometheus)
//   - relay (este pacote): router, middlewares, extração do tenant e tradução para status/headers
//
// Fluxo de uma requisição:
//
//   1) Valida a origem (403 sem CORS se negada; OPTIONS responde 204)
//   2) Edge guard por IP e limite de concorrência (opcionais)
//   3) Extrai o tenant (query "client", depois header "x-client-id")
//   4) Chama RelayService: rate limit -> credencial -> workflow -> normalização
//   5) Responde sempre JSON: {"reply": "..."} ou {"error": "..."}
package relay
