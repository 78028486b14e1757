package domain

import "fmt"

const redacted = "[REDACTED]"

// Secret guarda a credencial bearer de um tenant.
//
// Todas as formas de serialização (fmt, JSON, texto) produzem "[REDACTED]".
// O valor real só sai por Reveal, usado apenas pelo forwarder ao montar o
// header Authorization.
type Secret struct {
	value string
}

func NewSecret(v string) Secret { return Secret{value: v} }

func (s Secret) Reveal() string { return s.value }

func (s Secret) IsZero() bool { return s.value == "" }

func (s Secret) String() string   { return redacted }
func (s Secret) GoString() string { return redacted }

// Format cobre %v, %+v, %#v, %s, %q etc.
func (s Secret) Format(f fmt.State, verb rune) {
	if verb == 'q' {
		_, _ = fmt.Fprintf(f, "%q", redacted)
		return
	}
	_, _ = f.Write([]byte(redacted))
}

func (s Secret) MarshalJSON() ([]byte, error) { return []byte(`"` + redacted + `"`), nil }

func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }
