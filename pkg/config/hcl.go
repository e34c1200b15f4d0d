package config

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/goliatone/go-spellgen/pkg/attrview"
)

// hclRecordsAttribute names the top-level attribute holding the record list.
const hclRecordsAttribute = "spells"

func parseHCL(data []byte, name string) ([]attrview.Value, error) {
	file, diags := hclsyntax.ParseConfig(data, name, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %w", name, diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unexpected body type %T", ErrInvalidDocument, name, file.Body)
	}

	attr, ok := body.Attributes[hclRecordsAttribute]
	if !ok {
		if len(body.Attributes) == 0 && len(body.Blocks) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: missing %q attribute", ErrInvalidDocument, name, hclRecordsAttribute)
	}

	root, err := exprToValue(attr.Expr)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}
	return records(root, name)
}

// exprToValue walks constructor expressions directly so object keys keep the
// order they were written in; cty object values would sort them.
func exprToValue(expr hclsyntax.Expression) (attrview.Value, error) {
	switch e := expr.(type) {
	case *hclsyntax.ParenthesesExpr:
		return exprToValue(e.Expression)
	case *hclsyntax.ObjectConsExpr:
		fields := make([]attrview.Field, 0, len(e.Items))
		for _, item := range e.Items {
			keyVal, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return attrview.Value{}, diags
			}
			if keyVal.IsNull() || !keyVal.Type().Equals(cty.String) {
				rng := item.KeyExpr.Range()
				return attrview.Value{}, fmt.Errorf("%s: object keys must be strings", rng.String())
			}
			value, err := exprToValue(item.ValueExpr)
			if err != nil {
				return attrview.Value{}, err
			}
			fields = append(fields, attrview.Field{Key: keyVal.AsString(), Value: value})
		}
		return attrview.Map(fields...), nil
	case *hclsyntax.TupleConsExpr:
		items := make([]attrview.Value, 0, len(e.Exprs))
		for _, item := range e.Exprs {
			value, err := exprToValue(item)
			if err != nil {
				return attrview.Value{}, err
			}
			items = append(items, value)
		}
		return attrview.Sequence(items...), nil
	default:
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return attrview.Value{}, diags
		}
		return ctyToValue(val)
	}
}

func ctyToValue(val cty.Value) (attrview.Value, error) {
	if val.IsNull() {
		return attrview.Scalar(nil), nil
	}
	if !val.IsKnown() {
		return attrview.Value{}, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return attrview.Scalar(val.AsString()), nil
	case ty == cty.Bool:
		return attrview.Scalar(val.True()), nil
	case ty == cty.Number:
		return attrview.Scalar(numberScalar(val.AsBigFloat())), nil
	case ty.IsObjectType() || ty.IsMapType():
		raw := val.AsValueMap()
		keys := make([]string, 0, len(raw))
		for key := range raw {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields := make([]attrview.Field, 0, len(keys))
		for _, key := range keys {
			child, err := ctyToValue(raw[key])
			if err != nil {
				return attrview.Value{}, err
			}
			fields = append(fields, attrview.Field{Key: key, Value: child})
		}
		return attrview.Map(fields...), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		items := make([]attrview.Value, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			child, err := ctyToValue(elem)
			if err != nil {
				return attrview.Value{}, err
			}
			items = append(items, child)
		}
		return attrview.Sequence(items...), nil
	default:
		return attrview.Value{}, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

func numberScalar(f *big.Float) any {
	if f.IsInt() {
		if i, acc := f.Int64(); acc == big.Exact {
			return int(i)
		}
	}
	out, _ := f.Float64()
	return out
}
