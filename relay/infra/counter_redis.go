package infra

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"edge-relay/relay/domain"

	"github.com/redis/go-redis/v9"
)

// incrementBelowScript: lê, compara e incrementa numa única operação.
// Bloqueio não incrementa; a expiração é definida só na criação (janela fixa),
// ou quando a chave aparece sem TTL (escrita por fora), para nunca travar o tenant.
// Retorna {allowed, count, pttl_ms}.
var incrementBelowScript = redis.NewScript(`
local current = nil
local raw = redis.call('GET', KEYS[1])
if raw then
  current = tonumber(raw)
end
if current == nil then
  redis.call('SET', KEYS[1], 1, 'PX', ARGV[2])
  return {1, 1, tonumber(ARGV[2])}
end
if current >= tonumber(ARGV[1]) then
  local ttl = redis.call('PTTL', KEYS[1])
  if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[2])
    ttl = tonumber(ARGV[2])
  end
  return {0, current, ttl}
end
local n = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  ttl = tonumber(ARGV[2])
end
return {1, n, ttl}
`)

// RedisCounterStore implementa domain.CounterStore e domain.AtomicCounterStore.
type RedisCounterStore struct {
	rdb redis.Cmdable
}

func NewRedisCounterStore(rdb redis.Cmdable) *RedisCounterStore {
	return &RedisCounterStore{rdb: rdb}
}

// Get: chave ausente ou valor não numérico contam como 0.
func (s *RedisCounterStore) Get(ctx context.Context, key string) (int64, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get counter: %w", err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (s *RedisCounterStore) Put(ctx context.Context, key string, value int64, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("put counter: %w", err)
	}
	return nil
}

func (s *RedisCounterStore) IncrementBelow(ctx context.Context, key string, max int64, ttl time.Duration) (domain.CounterResult, error) {
	ttlMs := ttl.Milliseconds()
	if ttlMs <= 0 {
		ttlMs = 1
	}

	res, err := incrementBelowScript.Run(ctx, s.rdb, []string{key}, max, ttlMs).Int64Slice()
	if err != nil {
		return domain.CounterResult{}, fmt.Errorf("increment counter: %w", err)
	}
	if len(res) != 3 {
		return domain.CounterResult{}, fmt.Errorf("increment counter: unexpected reply %v", res)
	}

	out := domain.CounterResult{Allowed: res[0] == 1, Count: res[1]}
	if res[2] > 0 {
		out.TTL = time.Duration(res[2]) * time.Millisecond
	}
	return out, nil
}
