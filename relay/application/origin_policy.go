package application

import (
	"net/url"
	"strings"
)

// OriginPolicy decide se uma origem de browser pode receber resposta.
type OriginPolicy struct {
	origins map[string]struct{}
	parents []string
}

// NewOriginPolicy monta a política a partir da lista exata de origens e da lista
// de domínios-pai confiáveis (ex: "systeme.io" libera "systeme.io" e "*.systeme.io").
func NewOriginPolicy(origins, parentDomains []string) OriginPolicy {
	p := OriginPolicy{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			p.origins[o] = struct{}{}
		}
	}
	for _, d := range parentDomains {
		d = strings.ToLower(strings.Trim(strings.TrimSpace(d), "."))
		if d != "" {
			p.parents = append(p.parents, d)
		}
	}
	return p
}

// Allow: origem vazia é same-origin (ou cliente não-browser) e sempre passa.
func (p OriginPolicy) Allow(origin string) bool {
	if origin == "" {
		return true
	}
	if _, ok := p.origins[origin]; ok {
		return true
	}
	if len(p.parents) == 0 || origin == "null" {
		return false
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range p.parents {
		// sufixo com ponto: "evilsystemeio.com" não passa por "systeme.io"
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
