package application

import (
	"testing"
	"time"

	"edge-relay/relay/domain"
)

type fakeLimiter struct {
	allow bool
}

func (f fakeLimiter) Allow() bool { return f.allow }

type fakeLimiterStore struct {
	lim  domain.Limiter
	keys []domain.Key
}

func (s *fakeLimiterStore) Get(k domain.Key) domain.Limiter {
	s.keys = append(s.keys, k)
	return s.lim
}

func TestGuardService_AllowsWhenNoStore(t *testing.T) {
	dec := GuardService{}.Decide("1.2.3.4")
	if !dec.Allowed || dec.RetryAfter != 0 {
		t.Fatalf("expected allowed without retry-after, got %+v", dec)
	}
}

func TestGuardService_AllowsWhenLimiterAllows(t *testing.T) {
	store := &fakeLimiterStore{lim: fakeLimiter{allow: true}}
	dec := GuardService{Store: store}.Decide("1.2.3.4")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if len(store.keys) != 1 || store.keys[0] != "1.2.3.4" {
		t.Fatalf("expected lookup by client key, got %v", store.keys)
	}
}

func TestGuardService_BlocksWithDefaultRetryAfter(t *testing.T) {
	dec := GuardService{Store: &fakeLimiterStore{lim: fakeLimiter{allow: false}}}.Decide("k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != time.Second {
		t.Fatalf("expected default RetryAfter=1s, got %s", dec.RetryAfter)
	}
}

func TestGuardService_BlocksWithConfiguredRetryAfter(t *testing.T) {
	svc := GuardService{Store: &fakeLimiterStore{lim: fakeLimiter{allow: false}}, RetryAfter: 2500 * time.Millisecond}
	dec := svc.Decide("k")
	if dec.Allowed || dec.RetryAfter != 2500*time.Millisecond {
		t.Fatalf("expected blocked with 2.5s, got %+v", dec)
	}
}

func TestGuardService_ClientKeyGroupsIPv6ByPrefix(t *testing.T) {
	svc := GuardService{}

	a := svc.ClientKey("2001:db8:1:2:aaaa::1")
	b := svc.ClientKey("2001:db8:1:2:bbbb::9")
	if a != b || a != "2001:db8:1:2::/64" {
		t.Fatalf("expected same /64 key, got %q and %q", a, b)
	}
	if c := svc.ClientKey("2001:db8:1:3::1"); c == a {
		t.Fatalf("expected another /64 to get its own key, got %q", c)
	}
}

func TestGuardService_ClientKeyNormalizesIPv4(t *testing.T) {
	svc := GuardService{}

	if got := svc.ClientKey("::ffff:10.0.0.7"); got != "10.0.0.7" {
		t.Fatalf("expected unmapped ipv4, got %q", got)
	}
	if got := svc.ClientKey("10.0.0.7"); got != "10.0.0.7" {
		t.Fatalf("expected ipv4 unchanged, got %q", got)
	}
	if got := svc.ClientKey("unknown"); got != "unknown" {
		t.Fatalf("expected non-ip key unchanged, got %q", got)
	}
}

func TestGuardService_ClientKeyCustomPrefix(t *testing.T) {
	if got := (GuardService{IPv6Prefix: 48}).ClientKey("2001:db8:1:2::1"); got != "2001:db8:1::/48" {
		t.Fatalf("expected /48 key, got %q", got)
	}
	if got := (GuardService{IPv6Prefix: 128}).ClientKey("2001:db8::1"); got != "2001:db8::1" {
		t.Fatalf("expected full address with /128, got %q", got)
	}
}

func TestGuardService_DecideUsesNormalizedKey(t *testing.T) {
	store := &fakeLimiterStore{lim: fakeLimiter{allow: true}}
	GuardService{Store: store}.Decide("2001:db8:0:1::42")

	if len(store.keys) != 1 || store.keys[0] != "2001:db8:0:1::/64" {
		t.Fatalf("expected lookup by /64 prefix, got %v", store.keys)
	}
}
