// Package templates bundles the default template set used to generate spell
// assets. Callers can pass a directory to override individual templates.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed files/*.json
var embedded embed.FS

// Names of the templates the generator fills.
const (
	Spell          = "spell.json"
	SpellItem      = "spell_item.json"
	ChargeEffect   = "spell_charge_effect.json"
	OrbEffect      = "spell_orb.json"
	MergeSpell     = "merge_spell.json"
	PlayerDefaults = "Container_PlayerDefault.json"
)

// All lists every template name the generator requests.
func All() []string {
	return []string{Spell, SpellItem, ChargeEffect, OrbEffect, MergeSpell, PlayerDefaults}
}

// FS returns the embedded template set rooted at the template names.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		// unreachable: the embed directive guarantees the subpath
		panic(err)
	}
	return sub
}
