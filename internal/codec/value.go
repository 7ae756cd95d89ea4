// Package codec implements the canonical value model and deterministic
// encoding used for hashing and on-disk saves (spec.md §4.2).
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// Value is a tagged JSON value: null, bool, a 64-bit signed integer, a
// float64, a string, an array of Value, or an object with string keys
// mapping to Value. FromAny rejects non-finite floats; the Float
// constructor does not. It is the only shape RulesState entries, command/event
// params, and entity stats may take, so canonical encoding never has to guess
// at language-native heterogeneous containers.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  map[string]Value
	// keys preserves the object's insertion order for round-tripping through
	// Go maps isn't needed: canonical encoding always sorts object keys, so
	// insertion order is never observed externally.
}

func Null() Value                { return Value{kind: KindNull} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Int(i int64) Value          { return Value{kind: KindInt, i: i} }
func Float(f float64) Value      { return Value{kind: KindFloat, f: f} }
func String(s string) Value      { return Value{kind: KindString, s: s} }
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// Object constructs an object Value from a map. The map is copied.
func Object(fields map[string]Value) Value {
	cloned := make(map[string]Value, len(fields))
	for k, v := range fields {
		cloned[k] = v
	}
	return Value{kind: KindObject, obj: cloned}
}

// EmptyObject returns a canonical empty object, distinct from Null.
func EmptyObject() Value { return Object(nil) }

// EmptyArray returns a canonical empty array.
func EmptyArray() Value { return Array() }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)       { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)       { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool)   { return v.f, v.kind == KindFloat }
func (v Value) AsString() (string, bool)   { return v.s, v.kind == KindString }
func (v Value) AsArray() ([]Value, bool)   { return v.arr, v.kind == KindArray }
func (v Value) AsObject() (map[string]Value, bool) { return v.obj, v.kind == KindObject }

// Clone produces a deep copy of v, used whenever opaque state crosses an API
// boundary (rules-state getters, event trace reads).
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		cloned := make([]Value, len(v.arr))
		for i, item := range v.arr {
			cloned[i] = item.Clone()
		}
		return Value{kind: KindArray, arr: cloned}
	case KindObject:
		cloned := make(map[string]Value, len(v.obj))
		for k, item := range v.obj {
			cloned[k] = item.Clone()
		}
		return Value{kind: KindObject, obj: cloned}
	default:
		return v
	}
}

// FromAny converts a json.Unmarshal-produced any (or any value built from
// the primitives below) into a Value, validating it is JSON-safe per
// spec.md §4.5: null, bool, integer within the 64-bit signed range, finite
// number, string, array of same, or object with string keys. A json.Number
// that parses as an int64 becomes KindInt; a fractional or out-of-range
// json.Number, and every float64, becomes KindFloat.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("codec: number %q is not JSON-safe: %w", x, err)
		}
		if !isFinite(f) {
			return Value{}, fmt.Errorf("codec: number %q is not finite", x)
		}
		return Float(f), nil
	case float64:
		if !isFinite(x) {
			return Value{}, fmt.Errorf("codec: float %v is not finite", x)
		}
		return Float(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{kind: KindArray, arr: items}, nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			fields[k] = v
		}
		return Value{kind: KindObject, obj: fields}, nil
	default:
		return Value{}, fmt.Errorf("codec: value of type %T is not JSON-safe", raw)
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ToAny converts a Value back into a plain Go any tree suitable for
// encoding/json, sorting object keys is handled by Marshal, not here.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.ToAny()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler using the canonical encoder so any
// Value embedded in a larger struct still serializes with sorted keys and
// stable float formatting.
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler, decoding through
// encoding/json.Number so integers are not silently widened to float64.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// SortedKeys returns an object Value's keys in lexicographic order. Callers
// that need deterministic iteration (e.g. building a digest by hand) should
// use this instead of ranging over the map directly.
func (v Value) SortedKeys() []string {
	obj, ok := v.AsObject()
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
