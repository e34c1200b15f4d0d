package attrview

import (
	"fmt"
	"strconv"
)

// Text looks up path and requires a string scalar.
func (v Value) Text(path string) (string, error) {
	found, err := v.Lookup(path)
	if err != nil {
		return "", err
	}
	s, ok := found.scalar.(string)
	if found.kind != KindScalar || !ok {
		return "", mismatch(path, "string", found)
	}
	return s, nil
}

// Format looks up path and renders any non-null scalar as text. Numbers use
// their shortest decimal form, so `rune: 7` and `rune: "7"` read the same.
func (v Value) Format(path string) (string, error) {
	found, err := v.Lookup(path)
	if err != nil {
		return "", err
	}
	if found.kind != KindScalar || found.scalar == nil {
		return "", mismatch(path, "scalar", found)
	}
	switch s := found.scalar.(type) {
	case string:
		return s, nil
	case bool:
		return strconv.FormatBool(s), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), nil
	default:
		return fmt.Sprint(s), nil
	}
}

// Bool looks up path and requires a boolean scalar.
func (v Value) Bool(path string) (bool, error) {
	found, err := v.Lookup(path)
	if err != nil {
		return false, err
	}
	b, ok := found.scalar.(bool)
	if found.kind != KindScalar || !ok {
		return false, mismatch(path, "bool", found)
	}
	return b, nil
}

// Number looks up path and requires a numeric scalar, returned as float64.
func (v Value) Number(path string) (float64, error) {
	found, err := v.Lookup(path)
	if err != nil {
		return 0, err
	}
	if found.kind != KindScalar {
		return 0, mismatch(path, "number", found)
	}
	n, ok := toFloat(found.scalar)
	if !ok {
		return 0, mismatch(path, "number", found)
	}
	return n, nil
}

// ScalarAt looks up path and returns the raw scalar whatever its type.
func (v Value) ScalarAt(path string) (any, error) {
	found, err := v.Lookup(path)
	if err != nil {
		return nil, err
	}
	if found.kind != KindScalar {
		return nil, mismatch(path, "scalar", found)
	}
	return found.scalar, nil
}

// SequenceAt looks up path and requires a sequence.
func (v Value) SequenceAt(path string) ([]Value, error) {
	found, err := v.Lookup(path)
	if err != nil {
		return nil, err
	}
	if found.kind != KindSequence {
		return nil, mismatch(path, "sequence", found)
	}
	return found.Items(), nil
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
