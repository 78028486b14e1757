package application

import (
	"net/http"
	"testing"
)

func TestNormalizer_Shapes(t *testing.T) {
	n := Normalizer{}

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"object output", `{"output":"hello"}`, "hello"},
		{"array message", `[{"message":"hi"}]`, "hi"},
		{"empty body", ``, DefaultReply},
		{"whitespace body", "  \n ", DefaultReply},
		{"field order", `{"text":"t","answer":"a","reply":"r"}`, "r"},
		{"skips non-string scalars", `{"reply":42,"output":"o"}`, "o"},
		{"skips empty string", `{"reply":"","answer":"a"}`, "a"},
		{"plain text", "  just text \n", "just text"},
		{"json mislabeled as text", `{"answer":"42 is the answer"}`, "42 is the answer"},
		{"nested output text", `{"output":{"text":"deep"}}`, "deep"},
		{"nested output in array", `[{"output":{"message":"deep"}}]`, "deep"},
		{"nested object without text is serialized", `{"output":{"a": 1, "b": [1, 2]}}`, `{"a":1,"b":[1,2]}`},
		{"second level object is serialized", `{"output":{"reply":{"x":1}}}`, `{"x":1}`},
		{"wrapper data", `{"data":{"reply":"wrapped"}}`, "wrapped"},
		{"wrapper result array", `{"result":[{"text":"r0"},{"text":"r1"}]}`, "r0"},
		{"object without candidates falls back to raw", `{"foo":"bar"}`, `{"foo":"bar"}`},
		{"empty array falls back to raw", `[]`, `[]`},
		{"json string", `"quoted reply"`, "quoted reply"},
		{"broken json", `{"reply": "unterminated`, `{"reply": "unterminated`},
		{"null", `null`, `null`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(http.StatusOK, []byte(tc.raw))
			if got.Text != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got.Text)
			}
			if got.Status != http.StatusOK {
				t.Fatalf("expected status 200, got %d", got.Status)
			}
		})
	}
}

func TestNormalizer_CustomDefault(t *testing.T) {
	n := Normalizer{Default: "Received."}
	if got := n.Normalize(http.StatusOK, nil); got.Text != "Received." {
		t.Fatalf("expected custom default, got %q", got.Text)
	}
}

func TestNormalizer_PassesStatusThrough(t *testing.T) {
	n := Normalizer{}

	if got := n.Normalize(http.StatusInternalServerError, []byte(`{"message":"boom"}`)); got.Status != http.StatusInternalServerError || got.Text != "boom" {
		t.Fatalf("unexpected reply: %+v", got)
	}
	if got := n.Normalize(http.StatusNotFound, nil); got.Status != http.StatusNotFound || got.Text != DefaultReply {
		t.Fatalf("unexpected reply: %+v", got)
	}
}

func TestNormalizer_BodylessStatusBecomesOK(t *testing.T) {
	n := Normalizer{}

	for _, status := range []int{http.StatusNoContent, http.StatusNotModified, http.StatusContinue, 0} {
		if got := n.Normalize(status, nil); got.Status != http.StatusOK {
			t.Fatalf("status %d: expected 200, got %d", status, got.Status)
		}
	}
}
