package codec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Marshal renders a Value as its canonical encoding: UTF-8, lexicographic
// object key ordering, fixed numeric formatting, arrays in source order, no
// trailing whitespace. This is the only encoding path that participates in
// hash(value) and in the on-disk save payload.
func Marshal(v Value) ([]byte, error) {
	var buf strings.Builder
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// MarshalAny canonically encodes a raw any tree by first converting it
// through FromAny. Callers holding encoding/json-shaped data (maps, slices,
// primitives) can use this directly instead of constructing Values by hand.
func MarshalAny(raw any) ([]byte, error) {
	v, err := FromAny(normalizeAny(raw))
	if err != nil {
		return nil, err
	}
	return Marshal(v)
}

// normalizeAny recursively copies maps and slices; every other value,
// numbers included, is passed through unchanged.
func normalizeAny(raw any) any {
	switch x := raw.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[k] = normalizeAny(v)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = normalizeAny(v)
		}
		return out
	default:
		return x
	}
}

func encode(buf *strings.Builder, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
		return nil
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
		return nil
	case KindFloat:
		formatted, err := formatFloat(v.f)
		if err != nil {
			return err
		}
		buf.WriteString(formatted)
		return nil
	case KindString:
		encodeString(buf, v.s)
		return nil
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case KindObject:
		buf.WriteByte('{')
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, k)
			buf.WriteByte(':')
			if err := encode(buf, v.obj[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("codec: value has unknown kind %d", v.kind)
	}
}

// formatFloat renders a float64 with shortest-round-trip decimal precision
// (strconv's 'g'-style shortest form), the fixed algorithm spec.md §9 Open
// Question (b) calls for. Integral floats keep an explicit ".0" so the
// canonical form is distinguishable from KindInt at the byte level.
func formatFloat(f float64) (string, error) {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, "eE") {
		// Expand scientific notation into a fixed-point, round-trippable
		// decimal form so the canonical encoding never depends on a
		// platform's exponent-threshold behavior.
		expanded := strconv.FormatFloat(f, 'f', -1, 64)
		s = expanded
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}

func encodeString(buf *strings.Builder, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// Hash returns the lowercase hex SHA-256 digest of v's canonical encoding:
// hash(value) := SHA-256(canonical_encode(value)), per spec.md §4.2.
func Hash(v Value) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// HashAny is the Hash convenience form operating on a raw any tree.
func HashAny(raw any) (string, error) {
	data, err := MarshalAny(raw)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// HashBytes hashes an already-canonical byte slice. Exposed so save.go can
// hash the exact bytes it is about to write without re-encoding.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
