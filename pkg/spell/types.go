package spell

import "github.com/goliatone/go-spellgen/pkg/attrview"

// Output subdirectories under the generation base directory.
const (
	DirSpells  = "Spells"
	DirEffects = "Effects"
	DirItems   = "Items"
)

// ReferenceItem is the reference type of every container entry.
const ReferenceItem = "Item"

// Spell is one configured entry.
type Spell struct {
	Name      string
	Namespace string
	DLL       string
	Charge    Charge
	Orb       Orb
	Merges    []Merge

	view attrview.Value
}

// Charge describes how the spell is charged and cast.
type Charge struct {
	ClassName string
	Throw     bool
	Spray     bool
	Imbue     bool
	Effect    ChargeEffect
}

// ChargeEffect holds the resource addresses of the charge visual/audio bundle.
type ChargeEffect struct {
	StartSoundAddress string
	LoopSoundAddress  string
	VFXAddress        string
}

// Orb describes the orb shown while the spell is selected.
type Orb struct {
	MeshColorA         float64
	MeshColorB         float64
	MeshColorC         float64
	MeshColorD         float64
	Rune               string
	SelectSoundAddress string
	VFXAddress         string
}

// Merge combines two spells into a composite spell.
type Merge struct {
	SpellA    string
	SpellB    string
	ClassName string
}

// Name is the composite identifier of the merge: SpellA followed by SpellB.
func (m Merge) Name() string {
	return m.SpellA + m.SpellB
}

// ContainerEntry is one item reference in the player default container.
type ContainerEntry struct {
	ReferenceID  string `json:"referenceID"`
	Reference    string `json:"reference"`
	CustomValues []any  `json:"customValues"`
}

// Output is a single planned template instantiation.
type Output struct {
	Template string
	Path     []string
	Params   map[string]any
}
