// Package domain define contratos e tipos de domínio do relay (origem, tenant,
// rate limit, credenciais, upstream e estatísticas).
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar regras de negócio
// de detalhes de infraestrutura (Redis, cliente HTTP, Prometheus).
package domain
