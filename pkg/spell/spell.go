package spell

import (
	"context"
	"fmt"

	"github.com/goliatone/go-spellgen/internal/ctxlog"
	"github.com/goliatone/go-spellgen/pkg/render"
	"github.com/goliatone/go-spellgen/pkg/templates"
)

// Directories lists the output subdirectories a spell writes into.
func (s *Spell) Directories() []string {
	return []string{DirSpells, DirEffects, DirItems}
}

// PreRender asks target to create every directory the spell writes into.
func (s *Spell) PreRender(ctx context.Context, target render.Target) error {
	for _, dir := range s.Directories() {
		if err := target.EnsureDir(ctx, dir); err != nil {
			return fmt.Errorf("spell %q: %w", s.Name, err)
		}
	}
	return nil
}

// Outputs returns the template instantiations for the spell in render order:
// definition, item, charge effect, orb effect, then a definition and item per
// merge.
func (s *Spell) Outputs() []Output {
	outputs := make([]Output, 0, 4+2*len(s.Merges))
	outputs = append(outputs,
		Output{
			Template: templates.Spell,
			Path:     []string{DirSpells, "Spell_" + s.Name + ".json"},
			Params: map[string]any{
				"name":        s.Name,
				"namespace":   s.Namespace,
				"class_name":  s.Charge.ClassName,
				"dll":         s.DLL,
				"allow_throw": s.Charge.Throw,
				"allow_spray": s.Charge.Spray,
				"allow_imbue": s.Charge.Imbue,
			},
		},
		Output{
			Template: templates.SpellItem,
			Path:     []string{DirItems, "Item_Spell_Spell" + s.Name + ".json"},
			Params: map[string]any{
				"orb_name": s.Name,
				"name":     s.Name,
			},
		},
		Output{
			Template: templates.ChargeEffect,
			Path:     []string{DirEffects, "Effect_Spell_Spell" + s.Name + "Charge.json"},
			Params: map[string]any{
				"name":                       s.Name,
				"charge_start_sound_address": s.Charge.Effect.StartSoundAddress,
				"charge_loop_sound_address":  s.Charge.Effect.LoopSoundAddress,
				"vfx_address":                s.Charge.Effect.VFXAddress,
			},
		},
		Output{
			Template: templates.OrbEffect,
			Path:     []string{DirEffects, "Effect_Spell_SpellOrb" + s.Name + ".json"},
			Params: map[string]any{
				"name":                 s.Name,
				"mesh_color_a":         s.Orb.MeshColorA,
				"mesh_color_b":         s.Orb.MeshColorB,
				"mesh_color_c":         s.Orb.MeshColorC,
				"mesh_color_d":         s.Orb.MeshColorD,
				"rune":                 s.Orb.Rune,
				"select_sound_address": s.Orb.SelectSoundAddress,
				"vfx_address":          s.Orb.VFXAddress,
			},
		},
	)

	for _, merge := range s.Merges {
		name := merge.Name()
		outputs = append(outputs,
			Output{
				Template: templates.MergeSpell,
				Path:     []string{DirSpells, "Spell_" + name + "Merge.json"},
				Params: map[string]any{
					"namespace":  s.Namespace,
					"class_name": merge.ClassName,
					"dll":        s.DLL,
					"spell_a":    merge.SpellA,
					"spell_b":    merge.SpellB,
				},
			},
			// Composite items reuse the parent's orb and carry no Merge suffix.
			Output{
				Template: templates.SpellItem,
				Path:     []string{DirItems, "Item_Spell_Spell" + name + ".json"},
				Params: map[string]any{
					"orb_name": s.Name,
					"name":     name,
				},
			},
		)
	}
	return outputs
}

// Render writes every output of the spell through target, stopping at the
// first failure.
func (s *Spell) Render(ctx context.Context, target render.Target) error {
	logger := ctxlog.FromContext(ctx)
	for _, out := range s.Outputs() {
		if err := target.Render(ctx, out.Template, out.Path, render.Params(out.Params)); err != nil {
			return fmt.Errorf("spell %q: %w", s.Name, err)
		}
	}
	logger.Debug("rendered spell", "spell", s.Name, "merges", len(s.Merges))
	return nil
}

// Container returns the spell's container entries: its own item first, then
// one per merge in configuration order.
func (s *Spell) Container() []ContainerEntry {
	entries := make([]ContainerEntry, 0, 1+len(s.Merges))
	entries = append(entries, newContainerEntry("Spell"+s.Name))
	for _, merge := range s.Merges {
		entries = append(entries, newContainerEntry("Spell"+merge.Name()+"Merge"))
	}
	return entries
}

func newContainerEntry(referenceID string) ContainerEntry {
	return ContainerEntry{
		ReferenceID:  referenceID,
		Reference:    ReferenceItem,
		CustomValues: []any{},
	}
}
