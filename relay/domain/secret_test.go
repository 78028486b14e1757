package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecret_NeverPrintsValue(t *testing.T) {
	s := NewSecret("sk-live-123")

	outs := []string{
		s.String(),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%+v", s),
		fmt.Sprintf("%#v", s),
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%q", s),
		fmt.Sprint(Credential{Tenant: "t1", APIKey: s}),
		fmt.Sprintf("%+v", ForwardRequest{Tenant: "t1", Secret: s}),
	}
	for _, out := range outs {
		if strings.Contains(out, "sk-live-123") {
			t.Fatalf("secret leaked in %q", out)
		}
	}
}

func TestSecret_JSONIsRedacted(t *testing.T) {
	b, err := json.Marshal(Credential{Tenant: "t1", APIKey: NewSecret("sk-live-123")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "sk-live-123") {
		t.Fatalf("secret leaked in json: %s", b)
	}
	if !strings.Contains(string(b), redacted) {
		t.Fatalf("expected redacted marker, got %s", b)
	}
}

func TestSecret_RevealReturnsValue(t *testing.T) {
	s := NewSecret("abc")
	if s.Reveal() != "abc" {
		t.Fatalf("expected reveal to return raw value")
	}
	if s.IsZero() {
		t.Fatalf("expected non-zero secret")
	}
	if !(Secret{}).IsZero() {
		t.Fatalf("expected zero secret")
	}
}
