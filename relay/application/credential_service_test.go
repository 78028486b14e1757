package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"edge-relay/relay/domain"
)

type fakeCredentials struct {
	creds map[domain.TenantID]domain.Credential
	err   error
	calls int
}

func (f *fakeCredentials) Lookup(_ context.Context, tenant domain.TenantID) (domain.Credential, error) {
	f.calls++
	if f.err != nil {
		return domain.Credential{}, f.err
	}
	c, ok := f.creds[tenant]
	if !ok {
		return domain.Credential{}, domain.ErrCredentialNotFound
	}
	return c, nil
}

func TestCredentialService_ResolvesSecret(t *testing.T) {
	store := &fakeCredentials{creds: map[domain.TenantID]domain.Credential{
		"t1": {Tenant: "t1", APIKey: domain.NewSecret("sk-1")},
	}}
	svc := CredentialService{Store: store}

	sec, err := svc.Resolve(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sec.Reveal() != "sk-1" {
		t.Fatalf("expected sk-1")
	}
}

func TestCredentialService_UnknownTenant(t *testing.T) {
	svc := CredentialService{Store: &fakeCredentials{}}

	_, err := svc.Resolve(context.Background(), "nope")
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Fatalf("expected ErrUnknownTenant, got %v", err)
	}
}

func TestCredentialService_EmptySecretIsUnknown(t *testing.T) {
	store := &fakeCredentials{creds: map[domain.TenantID]domain.Credential{
		"t1": {Tenant: "t1"},
	}}
	svc := CredentialService{Store: store}

	_, err := svc.Resolve(context.Background(), "t1")
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Fatalf("expected ErrUnknownTenant, got %v", err)
	}
}

func TestCredentialService_StoreErrorFailsClosed(t *testing.T) {
	svc := CredentialService{Store: &fakeCredentials{err: errors.New("dial tcp: refused")}}

	_, err := svc.Resolve(context.Background(), "t1")
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Fatalf("expected ErrUnknownTenant, got %v", err)
	}
	if !strings.Contains(err.Error(), "credential store") {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
