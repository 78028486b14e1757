package application

import (
	"net/netip"
	"time"

	"edge-relay/relay/domain"
)

// DefaultIPv6Prefix agrupa clientes IPv6 por /64: um único host costuma ter
// a sub-rede inteira e trocaria de endereço a cada requisição.
const DefaultIPv6Prefix = 64

// GuardService decide o edge guard por cliente, antes do tenant existir.
// Não sabe nada de HTTP: recebe a chave do cliente e devolve uma decisão.
type GuardService struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
	// IPv6Prefix em bits; <= 0 usa DefaultIPv6Prefix, >= 128 desliga o agrupamento.
	IPv6Prefix int
}

func (s GuardService) Decide(client domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = time.Second
	}

	lim := s.Store.Get(s.ClientKey(client))
	if lim == nil || lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}

// ClientKey normaliza o endereço do cliente: IPv4 mapeado em IPv6 vira IPv4 e
// IPv6 é reduzido ao prefixo. Chaves que não são IP passam como estão.
func (s GuardService) ClientKey(client domain.Key) domain.Key {
	addr, err := netip.ParseAddr(string(client))
	if err != nil {
		return client
	}
	addr = addr.Unmap().WithZone("")
	if addr.Is4() {
		return domain.Key(addr.String())
	}

	bits := s.IPv6Prefix
	if bits <= 0 {
		bits = DefaultIPv6Prefix
	}
	if bits >= 128 {
		return domain.Key(addr.String())
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return domain.Key(addr.String())
	}
	return domain.Key(prefix.String())
}
