package attrview_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-spellgen/pkg/attrview"
)

func sampleTree() attrview.Value {
	return attrview.Map(
		attrview.Field{Key: "name", Value: attrview.Scalar("Fire")},
		attrview.Field{Key: "charge", Value: attrview.Map(
			attrview.Field{Key: "throw", Value: attrview.Scalar(true)},
			attrview.Field{Key: "effect", Value: attrview.Map(
				attrview.Field{Key: "vfx_address", Value: attrview.Scalar("vfx/a")},
			)},
		)},
		attrview.Field{Key: "merges", Value: attrview.Sequence(
			attrview.Map(
				attrview.Field{Key: "spell_b", Value: attrview.Scalar("Ice")},
				attrview.Field{Key: "spell_a", Value: attrview.Scalar("Fire")},
			),
			attrview.Scalar(3),
			attrview.Sequence(attrview.Scalar(nil), attrview.Scalar(1.5)),
		)},
		attrview.Field{Key: "alpha", Value: attrview.Scalar(0)},
	)
}

func TestValue_MarshalJSONPreservesOrder(t *testing.T) {
	got, err := sampleTree().MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"Fire","charge":{"throw":true,"effect":{"vfx_address":"vfx/a"}},` +
		`"merges":[{"spell_b":"Ice","spell_a":"Fire"},3,[null,1.5]],"alpha":0}`
	if string(got) != want {
		t.Fatalf("json mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestValue_Keys(t *testing.T) {
	want := []string{"name", "charge", "merges", "alpha"}
	if diff := cmp.Diff(want, sampleTree().Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	v := attrview.Map(
		attrview.Field{Key: "a", Value: attrview.Scalar(1)},
		attrview.Field{Key: "b", Value: attrview.Scalar(2)},
		attrview.Field{Key: "a", Value: attrview.Scalar(3)},
	)
	if got := v.String(); got != `{"a":3,"b":2}` {
		t.Fatalf("unexpected encoding: %s", got)
	}
}

func TestValue_Lookup(t *testing.T) {
	tree := sampleTree()

	vfx, err := tree.Text("charge.effect.vfx_address")
	if err != nil {
		t.Fatalf("lookup vfx: %v", err)
	}
	if vfx != "vfx/a" {
		t.Fatalf("vfx mismatch: %q", vfx)
	}

	spellB, err := tree.Text("merges.0.spell_b")
	if err != nil {
		t.Fatalf("lookup merges.0.spell_b: %v", err)
	}
	if spellB != "Ice" {
		t.Fatalf("spell_b mismatch: %q", spellB)
	}

	throw, err := tree.Bool("charge.throw")
	if err != nil || !throw {
		t.Fatalf("charge.throw = %v, %v", throw, err)
	}

	alpha, err := tree.Number("alpha")
	if err != nil || alpha != 0 {
		t.Fatalf("alpha = %v, %v", alpha, err)
	}
}

func TestValue_LookupMissing(t *testing.T) {
	_, err := sampleTree().Lookup("charge.effect.charge_loop_sound_address")
	if !errors.Is(err, attrview.ErrAttributeNotFound) {
		t.Fatalf("expected ErrAttributeNotFound, got %v", err)
	}
	var fieldErr *attrview.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %T", err)
	}
	if fieldErr.Path != "charge.effect.charge_loop_sound_address" {
		t.Fatalf("path mismatch: %q", fieldErr.Path)
	}

	if _, err := sampleTree().Lookup("merges.7"); !errors.Is(err, attrview.ErrAttributeNotFound) {
		t.Fatalf("expected out of range index to be missing, got %v", err)
	}
}

func TestValue_TypeMismatch(t *testing.T) {
	tree := sampleTree()
	if _, err := tree.Text("charge"); !errors.Is(err, attrview.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch for map, got %v", err)
	}
	if _, err := tree.Bool("name"); !errors.Is(err, attrview.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch for string, got %v", err)
	}
	if _, err := tree.Lookup("name.first"); !errors.Is(err, attrview.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch when walking through a scalar, got %v", err)
	}
	if _, err := tree.Field("charge"); err != nil {
		t.Fatalf("field charge: %v", err)
	}
}

func TestValue_Format(t *testing.T) {
	tree := attrview.Map(
		attrview.Field{Key: "rune", Value: attrview.Scalar(7)},
		attrview.Field{Key: "ratio", Value: attrview.Scalar(1.5)},
		attrview.Field{Key: "whole", Value: attrview.Scalar(2.0)},
		attrview.Field{Key: "flag", Value: attrview.Scalar(true)},
		attrview.Field{Key: "name", Value: attrview.Scalar("Fire")},
		attrview.Field{Key: "empty", Value: attrview.Scalar(nil)},
		attrview.Field{Key: "nested", Value: attrview.Map()},
	)

	want := map[string]string{
		"rune":  "7",
		"ratio": "1.5",
		"whole": "2",
		"flag":  "true",
		"name":  "Fire",
	}
	for path, expected := range want {
		got, err := tree.Format(path)
		if err != nil {
			t.Fatalf("format %s: %v", path, err)
		}
		if got != expected {
			t.Fatalf("format %s = %q, want %q", path, got, expected)
		}
	}

	for _, path := range []string{"empty", "nested"} {
		if _, err := tree.Format(path); !errors.Is(err, attrview.ErrTypeMismatch) {
			t.Fatalf("format %s: expected ErrTypeMismatch, got %v", path, err)
		}
	}
	if _, err := tree.Format("absent"); !errors.Is(err, attrview.ErrAttributeNotFound) {
		t.Fatalf("expected ErrAttributeNotFound, got %v", err)
	}
}

func TestWrap_GenericData(t *testing.T) {
	raw := map[string]any{
		"b": []any{map[string]any{"y": 1, "x": "two"}, true},
		"a": nil,
	}
	v, err := attrview.Wrap(raw)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if got := v.String(); got != `{"a":null,"b":[{"x":"two","y":1},true]}` {
		t.Fatalf("unexpected encoding: %s", got)
	}
	if diff := cmp.Diff(raw, v.Interface()); diff != "" {
		t.Fatalf("interface mismatch (-want +got):\n%s", diff)
	}

	if _, err := attrview.Wrap(struct{}{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestValue_ZeroIsNull(t *testing.T) {
	var v attrview.Value
	if !v.IsNull() {
		t.Fatalf("zero value should be null")
	}
	if got := v.String(); got != "null" {
		t.Fatalf("zero value encoding: %s", got)
	}
}
