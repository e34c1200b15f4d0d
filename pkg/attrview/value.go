package attrview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindScalar covers strings, numbers, booleans and null.
	KindScalar Kind = iota
	// KindMap is an ordered mapping from string keys to values.
	KindMap
	// KindSequence is an ordered list of values.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// Field is a single key/value pair used to build map values in order.
type Field struct {
	Key   string
	Value Value
}

// Value is one node of a configuration tree. The zero Value is a null scalar.
// Values are immutable once built; accessors return copies of internal slices.
type Value struct {
	kind   Kind
	keys   []string
	fields map[string]Value
	items  []Value
	scalar any
}

// Map builds a map value preserving the order fields are supplied in. A key
// repeated later replaces the earlier value but keeps the earlier position.
func Map(fields ...Field) Value {
	v := Value{
		kind:   KindMap,
		keys:   make([]string, 0, len(fields)),
		fields: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		if _, exists := v.fields[f.Key]; !exists {
			v.keys = append(v.keys, f.Key)
		}
		v.fields[f.Key] = f.Value
	}
	return v
}

// Sequence builds a sequence value from the supplied items.
func Sequence(items ...Value) Value {
	return Value{
		kind:  KindSequence,
		items: append([]Value(nil), items...),
	}
}

// Scalar wraps a plain value (string, bool, number or nil).
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Wrap converts generic Go data into a Value. Maps of type map[string]any have
// no inherent order, so their keys are sorted; loaders that know the source
// order build values with Map instead.
func Wrap(raw any) (Value, error) {
	switch v := raw.(type) {
	case Value:
		return v, nil
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return Scalar(v), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, key := range keys {
			child, err := Wrap(v[key])
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Key: key, Value: child})
		}
		return Map(fields...), nil
	case []any:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			child, err := Wrap(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, child)
		}
		return Sequence(items...), nil
	default:
		return Value{}, fmt.Errorf("attrview: unsupported value type %T", raw)
	}
}

// Kind reports the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsMap reports whether the value is a map.
func (v Value) IsMap() bool { return v.kind == KindMap }

// IsSequence reports whether the value is a sequence.
func (v Value) IsSequence() bool { return v.kind == KindSequence }

// IsNull reports whether the value is a null scalar.
func (v Value) IsNull() bool { return v.kind == KindScalar && v.scalar == nil }

// Keys returns the map keys in their original order.
func (v Value) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Has reports whether the map value holds key.
func (v Value) Has(key string) bool {
	_, ok := v.fields[key]
	return ok
}

// Len returns the number of keys or items; scalars report zero.
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return len(v.keys)
	case KindSequence:
		return len(v.items)
	default:
		return 0
	}
}

// Items returns the elements of a sequence value.
func (v Value) Items() []Value {
	return append([]Value(nil), v.items...)
}

// Raw returns the underlying scalar. Maps and sequences return nil.
func (v Value) Raw() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Field returns the value stored under key.
func (v Value) Field(key string) (Value, error) {
	if v.kind != KindMap {
		return Value{}, mismatch(key, "map", v)
	}
	child, ok := v.fields[key]
	if !ok {
		return Value{}, missing(key)
	}
	return child, nil
}

// Lookup walks a dotted path such as "charge.effect.vfx_address". Numeric
// segments index into sequences.
func (v Value) Lookup(path string) (Value, error) {
	if path == "" {
		return v, nil
	}
	current := v
	segments := strings.Split(path, ".")
	for idx, segment := range segments {
		walked := strings.Join(segments[:idx+1], ".")
		switch current.kind {
		case KindMap:
			child, ok := current.fields[segment]
			if !ok {
				return Value{}, missing(walked)
			}
			current = child
		case KindSequence:
			pos, err := strconv.Atoi(segment)
			if err != nil || pos < 0 || pos >= len(current.items) {
				return Value{}, missing(walked)
			}
			current = current.items[pos]
		default:
			return Value{}, mismatch(strings.Join(segments[:idx], "."), "map", current)
		}
	}
	return current, nil
}

// Interface unwraps the tree into plain Go values: map[string]any, []any and
// scalars. Key order is lost; use MarshalJSON when order matters.
func (v Value) Interface() any {
	switch v.kind {
	case KindMap:
		out := make(map[string]any, len(v.keys))
		for _, key := range v.keys {
			out[key] = v.fields[key].Interface()
		}
		return out
	case KindSequence:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Interface())
		}
		return out
	default:
		return v.scalar
	}
}

// MarshalJSON serialises the view with map keys in their original order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String renders the value as compact JSON.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<attrview: %v>", err)
	}
	return string(data)
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindMap:
		buf.WriteByte('{')
		for idx, key := range v.keys {
			if idx > 0 {
				buf.WriteByte(',')
			}
			encodedKey, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(encodedKey)
			buf.WriteByte(':')
			if err := v.fields[key].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for idx, item := range v.items {
			if idx > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		encoded, err := json.Marshal(v.scalar)
		if err != nil {
			return err
		}
		buf.Write(encoded)
	}
	return nil
}

func (v Value) describe() string {
	if v.kind != KindScalar {
		return v.kind.String()
	}
	switch v.scalar.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	default:
		if _, ok := toFloat(v.scalar); ok {
			return "number"
		}
		return fmt.Sprintf("%T", v.scalar)
	}
}
