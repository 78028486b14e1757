package application

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"edge-relay/relay/domain"
)

// DefaultReply é a confirmação usada quando o workflow não devolve nada legível.
const DefaultReply = "Okay, got it."

var (
	// ordem importa: o primeiro campo com texto vence
	replyFields   = []string{"reply", "output", "answer", "message", "text"}
	wrapperFields = []string{"data", "result", "body"}
)

// só um nível de desembrulho dentro de output/data/result/body
const maxUnwrapDepth = 1

// Normalizer transforma a resposta do workflow (objeto, array ou texto) em um
// único domain.Reply. Nunca falha e nunca devolve texto vazio.
type Normalizer struct {
	Default string
}

func (n Normalizer) Normalize(status int, raw []byte) domain.Reply {
	return domain.Reply{Status: replyStatus(status), Text: n.text(raw)}
}

func (n Normalizer) text(raw []byte) string {
	v := parseJSON(raw)
	if v.kind == kindArray {
		// o workflow às vezes embrulha o resultado em [ {...} ]
		v = v.first()
	}

	switch v.kind {
	case kindObject:
		if s, ok := fromObject(v.obj, 0); ok {
			return s
		}
	case kindString:
		if strings.TrimSpace(v.str) != "" {
			return strings.TrimSpace(v.str)
		}
	}

	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	if n.Default != "" {
		return n.Default
	}
	return DefaultReply
}

func fromObject(obj map[string]json.RawMessage, depth int) (string, bool) {
	for _, field := range replyFields {
		raw, ok := obj[field]
		if !ok {
			continue
		}
		v := parseJSON(raw)
		switch v.kind {
		case kindString:
			if strings.TrimSpace(v.str) != "" {
				return v.str, true
			}
		case kindObject, kindArray:
			if depth < maxUnwrapDepth {
				if s, ok := fromNested(v, depth+1); ok {
					return s, true
				}
			}
			// não descarta: devolve o JSON do valor aninhado
			return compact(v.raw), true
		}
	}

	if depth < maxUnwrapDepth {
		for _, field := range wrapperFields {
			v := parseJSON(obj[field])
			if v.kind != kindObject && v.kind != kindArray {
				continue
			}
			if s, ok := fromNested(v, depth+1); ok {
				return s, true
			}
		}
	}
	return "", false
}

func fromNested(v jsonValue, depth int) (string, bool) {
	if v.kind == kindArray {
		v = v.first()
	}
	switch v.kind {
	case kindObject:
		return fromObject(v.obj, depth)
	case kindString:
		if strings.TrimSpace(v.str) != "" {
			return v.str, true
		}
	}
	return "", false
}

// replyStatus repassa o status do workflow, exceto os que proíbem corpo.
func replyStatus(status int) int {
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified {
		return http.StatusOK
	}
	return status
}

type jsonKind int

const (
	kindInvalid jsonKind = iota
	kindObject
	kindArray
	kindString
	kindScalar // número, bool, null
)

// jsonValue é a união dos formatos que o workflow pode devolver.
type jsonValue struct {
	kind jsonKind
	raw  []byte
	obj  map[string]json.RawMessage
	arr  []json.RawMessage
	str  string
}

func parseJSON(b []byte) jsonValue {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || !json.Valid(b) {
		return jsonValue{}
	}

	switch b[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(b, &obj); err != nil {
			return jsonValue{}
		}
		return jsonValue{kind: kindObject, raw: b, obj: obj}
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(b, &arr); err != nil {
			return jsonValue{}
		}
		return jsonValue{kind: kindArray, raw: b, arr: arr}
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return jsonValue{}
		}
		return jsonValue{kind: kindString, raw: b, str: s}
	default:
		return jsonValue{kind: kindScalar, raw: b}
	}
}

// first devolve o primeiro elemento do array (ou inválido se vazio).
func (v jsonValue) first() jsonValue {
	if len(v.arr) == 0 {
		return jsonValue{}
	}
	return parseJSON(v.arr[0])
}

func compact(b []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return string(b)
	}
	return buf.String()
}
