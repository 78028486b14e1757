package domain

import "errors"

// Erros terminais do relay. Nenhum deles é re-tentado.
// A camada HTTP traduz cada um para status + mensagem pública fixa.
var (
	ErrOriginNotAllowed    = errors.New("origin not allowed")
	ErrMissingTenant       = errors.New("missing tenant")
	ErrRateLimited         = errors.New("rate limited")
	ErrUnknownTenant       = errors.New("unknown tenant")
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrOverloaded          = errors.New("overloaded")

	// ErrCredentialNotFound é devolvido pelo CredentialStore quando o registro
	// não existe ou não tem o campo de segredo.
	ErrCredentialNotFound = errors.New("credential not found")
)
