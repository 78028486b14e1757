package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"edge-relay/relay/domain"

	"github.com/redis/go-redis/v9"
)

// credentialRecord é o valor JSON guardado por tenant: {"api_key": "..."}.
// Campos extras são ignorados.
type credentialRecord struct {
	APIKey *string `json:"api_key"`
}

// RedisCredentialStore lê credenciais de tenants provisionados externamente.
// Somente leitura.
type RedisCredentialStore struct {
	rdb    redis.Cmdable
	prefix string
}

type CredentialOption func(*RedisCredentialStore)

// WithCredentialPrefix namespace opcional das chaves (padrão: o próprio tenant id).
func WithCredentialPrefix(prefix string) CredentialOption {
	return func(s *RedisCredentialStore) { s.prefix = prefix }
}

func NewRedisCredentialStore(rdb redis.Cmdable, opts ...CredentialOption) *RedisCredentialStore {
	s := &RedisCredentialStore{rdb: rdb}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisCredentialStore) Lookup(ctx context.Context, tenant domain.TenantID) (domain.Credential, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+string(tenant)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Credential{}, domain.ErrCredentialNotFound
	}
	if err != nil {
		return domain.Credential{}, fmt.Errorf("get credential: %w", err)
	}

	// JSON inválido, api_key ausente, não-string ou vazio: tenant desconhecido.
	// O conteúdo do registro nunca entra na mensagem de erro.
	var rec credentialRecord
	if err := json.Unmarshal(raw, &rec); err != nil || rec.APIKey == nil || *rec.APIKey == "" {
		return domain.Credential{}, domain.ErrCredentialNotFound
	}
	return domain.Credential{Tenant: tenant, APIKey: domain.NewSecret(*rec.APIKey)}, nil
}
