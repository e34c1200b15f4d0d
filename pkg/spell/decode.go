package spell

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-spellgen/pkg/attrview"
)

// New decodes a configuration record into a Spell. Every recognised field is
// required; the first missing or mistyped one is returned as an
// *attrview.FieldError wrapping attrview.ErrAttributeNotFound or
// attrview.ErrTypeMismatch. Text fields take any non-null scalar and format
// it, so `rune: 7` is the rune "7"; flags and mesh colors stay strict.
func New(view attrview.Value) (*Spell, error) {
	if !view.IsMap() {
		return nil, fmt.Errorf("spell: record must be a map, got %s", view.Kind())
	}

	d := decoder{view: view}
	s := &Spell{
		Name:      d.text("name"),
		Namespace: d.text("namespace"),
		DLL:       d.text("dll"),
		Charge: Charge{
			ClassName: d.text("charge.class_name"),
			Throw:     d.boolean("charge.throw"),
			Spray:     d.boolean("charge.spray"),
			Imbue:     d.boolean("charge.imbue"),
			Effect: ChargeEffect{
				StartSoundAddress: d.text("charge.effect.charge_start_sound_address"),
				LoopSoundAddress:  d.text("charge.effect.charge_loop_sound_address"),
				VFXAddress:        d.text("charge.effect.vfx_address"),
			},
		},
		Orb: Orb{
			MeshColorA:         d.number("orb.mesh_color_a"),
			MeshColorB:         d.number("orb.mesh_color_b"),
			MeshColorC:         d.number("orb.mesh_color_c"),
			MeshColorD:         d.number("orb.mesh_color_d"),
			Rune:               d.text("orb.rune"),
			SelectSoundAddress: d.text("orb.select_sound_address"),
			VFXAddress:         d.text("orb.vfx_address"),
		},
		view: view,
	}
	s.Merges = d.merges("merges")

	if d.err != nil {
		if s.Name != "" {
			return nil, fmt.Errorf("spell %q: %w", s.Name, d.err)
		}
		return nil, fmt.Errorf("spell: %w", d.err)
	}
	return s, nil
}

// View returns the attribute tree the spell was decoded from.
func (s *Spell) View() attrview.Value {
	return s.view
}

// IsMissingField reports whether err stems from an absent configuration key.
func IsMissingField(err error) bool {
	return errors.Is(err, attrview.ErrAttributeNotFound)
}

// decoder keeps the first error so New reads as a flat list of fields.
type decoder struct {
	view attrview.Value
	err  error
}

func (d *decoder) text(path string) string {
	if d.err != nil {
		return ""
	}
	v, err := d.view.Format(path)
	d.err = err
	return v
}

func (d *decoder) boolean(path string) bool {
	if d.err != nil {
		return false
	}
	v, err := d.view.Bool(path)
	d.err = err
	return v
}

func (d *decoder) number(path string) float64 {
	if d.err != nil {
		return 0
	}
	v, err := d.view.Number(path)
	d.err = err
	return v
}

func (d *decoder) merges(path string) []Merge {
	if d.err != nil {
		return nil
	}
	items, err := d.view.SequenceAt(path)
	if err != nil {
		d.err = err
		return nil
	}

	merges := make([]Merge, 0, len(items))
	for idx := range items {
		prefix := fmt.Sprintf("%s.%d.", path, idx)
		merge := Merge{
			SpellA:    d.text(prefix + "spell_a"),
			SpellB:    d.text(prefix + "spell_b"),
			ClassName: d.text(prefix + "class_name"),
		}
		if d.err != nil {
			return nil
		}
		merges = append(merges, merge)
	}
	return merges
}
