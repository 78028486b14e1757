// Package application contém os casos de uso do relay: política de origem,
// rate limit por tenant, lookup de credenciais, normalização da resposta e a
// orquestração (RelayService).
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: RelayService.Relay(ctx, req) devolve um domain.Reply ou um erro de domínio.
package application
