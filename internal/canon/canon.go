// Package canon implements the deterministic canonical byte encoding
// signed payloads are verified against: object keys sorted
// lexicographically, decimals as canonical strings, literals spelled
// out, no insignificant whitespace. The same payload yields the same
// bytes on every reasonable implementation, which is the entire point —
// it is what a detached Ed25519 or secp256k1 signature is computed over.
package canon

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ugorji/go/codec"
)

// ErrUnknownField is returned when decoding a signed payload that
// contains a key outside an expected, closed field set.
var ErrUnknownField = errors.New("canon: unknown field in signed payload")

var jsonHandle = &codec.JsonHandle{}

// Decode parses raw JSON bytes into a generic value tree (map[string]any,
// []any, string, bool, nil, and numbers as float64/int64), using the
// same JSON codec the rest of the wire-facing code uses, so callers get
// one consistent decode path ahead of canonicalization.
func Decode(raw []byte) (any, error) {
	var v any
	dec := codec.NewDecoderBytes(raw, jsonHandle)
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("canon: decode: %w", err)
	}
	return normalize(v), nil
}

// normalize walks a decoded value tree converting any
// map[interface{}]interface{} shape into map[string]any, defensively:
// JSON object keys are always strings, but nested decode paths can still
// surface the generic map shape depending on codec version behavior.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// Canonicalize renders v as the canonical byte string defined above.
// v is expected to be the output of Decode, or hand-built from
// map[string]any / []any / string / bool / nil / int64 / float64 /
// Decimal values.
func Canonicalize(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		writeCanonicalString(buf, t)
	case Decimal:
		writeCanonicalString(buf, t.Canonical())
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case int:
		buf.WriteString(strconv.Itoa(t))
	case float64:
		buf.WriteString(canonicalFloat(t))
	case map[string]any:
		return writeCanonicalObject(buf, t)
	case []any:
		return writeCanonicalArray(buf, t)
	default:
		return fmt.Errorf("canon: unsupported value type %T", v)
	}
	return nil
}

func writeCanonicalObject(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(buf, k)
		buf.WriteByte(':')
		if err := writeCanonical(buf, m[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeCanonicalArray(buf *bytes.Buffer, a []any) error {
	buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonical(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// canonicalFloat renders a float64 the way Decimal.Canonical does for
// values that arrived as JSON numbers rather than as a Decimal: no
// trailing zeros, one digit after the point only if fractional.
func canonicalFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
