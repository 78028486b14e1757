package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edge-relay/relay/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore conta desfechos do relay em hashes do Redis.
//
//	<prefix>:total                   campo = outcome, cumulativo
//	<prefix>:minute:<yyyymmddhhmm>   campo = outcome, expira em ttl
//	<prefix>:tenant:<tenant>         campo = outcome, só com trackTenants
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl aplica apenas em chaves de série temporal / por tenant.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackTenants bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackTenants(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackTenants = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "relay:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Outcome)
	if field == "" {
		return nil
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if s.trackTenants {
		if t := strings.TrimSpace(string(ev.Tenant)); t != "" {
			tenantKey := s.prefix + ":tenant:" + t
			pipe.HIncrBy(ctx, tenantKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, tenantKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
