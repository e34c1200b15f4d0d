package orchestrator_test

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-spellgen/pkg/attrview"
	"github.com/goliatone/go-spellgen/pkg/orchestrator"
	"github.com/goliatone/go-spellgen/pkg/render"
	"github.com/goliatone/go-spellgen/pkg/spell"
	"github.com/goliatone/go-spellgen/pkg/templates"
	"github.com/goliatone/go-spellgen/pkg/testsupport"
)

func generate(t *testing.T, configPath, outDir string, options ...orchestrator.Option) orchestrator.Result {
	t.Helper()
	result, err := orchestrator.New(options...).Generate(testsupport.Context(), orchestrator.Request{
		ConfigPath: configPath,
		OutputDir:  outDir,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return result
}

func containerContents(t *testing.T, outDir string) []spell.ContainerEntry {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, orchestrator.ContainerFile))
	if err != nil {
		t.Fatalf("read container: %v", err)
	}
	var doc struct {
		Contents []spell.ContainerEntry `json:"contents"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode container: %v\n%s", err, data)
	}
	return doc.Contents
}

func TestGenerate_SingleSpell(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	result := generate(t, filepath.Join("testdata", "fire.yaml"), outDir)

	wantFiles := []string{
		"Container_PlayerDefault.json",
		"Effects/Effect_Spell_SpellFireCharge.json",
		"Effects/Effect_Spell_SpellOrbFire.json",
		"Items/Item_Spell_SpellFire.json",
		"Spells/Spell_Fire.json",
	}
	tree := testsupport.ReadTree(t, outDir)
	if diff := cmp.Diff(wantFiles, testsupport.TreePaths(tree)); diff != "" {
		t.Fatalf("output tree mismatch (-want +got):\n%s", diff)
	}
	for path, content := range tree {
		if !json.Valid([]byte(content)) {
			t.Fatalf("%s is not valid JSON:\n%s", path, content)
		}
	}

	wantContainer := []spell.ContainerEntry{{ReferenceID: "SpellFire", Reference: "Item", CustomValues: []any{}}}
	if diff := cmp.Diff(wantContainer, containerContents(t, outDir)); diff != "" {
		t.Fatalf("container mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantContainer, result.Container); diff != "" {
		t.Fatalf("result container mismatch (-want +got):\n%s", diff)
	}
	if len(result.Written) != 5 || result.Written[4] != orchestrator.ContainerFile {
		t.Fatalf("written order mismatch: %v", result.Written)
	}
	if len(result.Stale) != 0 {
		t.Fatalf("fresh output should have no stale files: %v", result.Stale)
	}
	if !strings.Contains(tree["Container_PlayerDefault.json"], `"customValues":[]`) {
		t.Fatalf("container should carry an empty customValues array:\n%s", tree["Container_PlayerDefault.json"])
	}
}

func TestGenerate_SpecialCharactersKeepReferencesLinked(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("testdata", "fire.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	config := strings.NewReplacer(
		"- name: Fire\n", "- name: \"Fire&Ice's\"\n",
		"namespace: Spells.Fire", `namespace: 'Spells.Fire<"Ice">'`,
		"rune: R1", `rune: 'R\1'`,
	).Replace(string(data))
	configPath := testsupport.WriteFile(t, dir, "special.yaml", config)
	outDir := filepath.Join(dir, "out")

	generate(t, configPath, outDir)

	tree := testsupport.ReadTree(t, outDir)
	for path, content := range tree {
		if !json.Valid([]byte(content)) {
			t.Fatalf("%s is not valid JSON:\n%s", path, content)
		}
	}

	decode := func(path string) map[string]any {
		t.Helper()
		content, ok := tree[path]
		if !ok {
			t.Fatalf("missing %s in %v", path, testsupport.TreePaths(tree))
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(content), &doc); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		return doc
	}

	item := decode("Items/Item_Spell_SpellFire&Ice's.json")
	container := containerContents(t, outDir)
	if len(container) != 1 {
		t.Fatalf("expected one container entry, got %+v", container)
	}
	if item["id"] != container[0].ReferenceID || container[0].ReferenceID != "SpellFire&Ice's" {
		t.Fatalf("item id %q does not match container referenceID %q", item["id"], container[0].ReferenceID)
	}

	spellDoc := decode("Spells/Spell_Fire&Ice's.json")
	charge := decode("Effects/Effect_Spell_SpellFire&Ice'sCharge.json")
	orb := decode("Effects/Effect_Spell_SpellOrbFire&Ice's.json")
	if spellDoc["chargeEffectId"] != charge["id"] {
		t.Fatalf("chargeEffectId %q does not match charge effect id %q", spellDoc["chargeEffectId"], charge["id"])
	}
	if spellDoc["orbEffectId"] != orb["id"] || item["iconEffectId"] != orb["id"] {
		t.Fatalf("orb references out of sync: spell %q item %q orb %q", spellDoc["orbEffectId"], item["iconEffectId"], orb["id"])
	}
	if want := `Spells.Fire<"Ice">.FireCharge, Core.dll`; spellDoc["customSpellType"] != want {
		t.Fatalf("customSpellType = %q, want %q", spellDoc["customSpellType"], want)
	}
	if !strings.Contains(tree["Effects/Effect_Spell_SpellOrbFire&Ice's.json"], `"meshAddress": "Bas.Mesh.Rune.R\\1"`) {
		t.Fatalf("rune should be JSON escaped:\n%s", tree["Effects/Effect_Spell_SpellOrbFire&Ice's.json"])
	}
}

func TestGenerate_HCLMatchesYAML(t *testing.T) {
	yamlOut := t.TempDir()
	hclOut := t.TempDir()
	generate(t, filepath.Join("testdata", "fire.yaml"), yamlOut)
	generate(t, filepath.Join("testdata", "fire.hcl"), hclOut)

	if diff := cmp.Diff(testsupport.ReadTree(t, yamlOut), testsupport.ReadTree(t, hclOut)); diff != "" {
		t.Fatalf("HCL output differs from YAML output (-yaml +hcl):\n%s", diff)
	}
}

func TestGenerate_ContainerOrder(t *testing.T) {
	outDir := t.TempDir()
	result := generate(t, filepath.Join("testdata", "two_spells.yaml"), outDir)

	wantIDs := []string{
		"SpellFire",
		"SpellFireIceMerge",
		"SpellFireLightningMerge",
		"SpellIce",
		"SpellIceLightningMerge",
	}
	var gotIDs []string
	for _, entry := range containerContents(t, outDir) {
		gotIDs = append(gotIDs, entry.ReferenceID)
	}
	if diff := cmp.Diff(wantIDs, gotIDs); diff != "" {
		t.Fatalf("container order mismatch (-want +got):\n%s", diff)
	}
	// Fire has two merges, Ice has one, plus the container file.
	if got, want := len(result.Written), (4+2*2)+(4+2*1)+1; got != want {
		t.Fatalf("expected %d files written, got %d: %v", want, got, result.Written)
	}
	if result.Spells[1].Namespace != "Spells.Ice" || result.Spells[1].Charge.ClassName != "FireCharge" {
		t.Fatalf("merge key should inherit anchored fields: %+v", result.Spells[1])
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	outDir := t.TempDir()
	configPath := filepath.Join("testdata", "two_spells.yaml")

	generate(t, configPath, outDir)
	first := testsupport.ReadTree(t, outDir)
	generate(t, configPath, outDir)
	second := testsupport.ReadTree(t, outDir)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second run changed output (-first +second):\n%s", diff)
	}
}

func TestGenerate_ReportsStaleFilesWithoutDeleting(t *testing.T) {
	outDir := t.TempDir()
	testsupport.WriteFile(t, outDir, "Spells/Spell_Water.json", "{}")
	testsupport.WriteFile(t, outDir, "notes.txt", "kept")

	result := generate(t, filepath.Join("testdata", "fire.yaml"), outDir)

	if diff := cmp.Diff([]string{"Spells/Spell_Water.json"}, result.Stale); diff != "" {
		t.Fatalf("stale mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(outDir, "Spells", "Spell_Water.json")); err != nil {
		t.Fatalf("stale file must not be deleted: %v", err)
	}

	disabled := generate(t, filepath.Join("testdata", "fire.yaml"), outDir, orchestrator.WithStalePattern(""))
	if len(disabled.Stale) != 0 {
		t.Fatalf("empty pattern should disable the stale report: %v", disabled.Stale)
	}
}

func TestGenerate_MissingFieldWritesNothing(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("testdata", "two_spells.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	broken := strings.Replace(string(data), "  namespace: Spells.Ice\n", "  namespace: Spells.Ice\n  orb: {}\n", 1)
	configPath := testsupport.WriteFile(t, dir, "broken.yaml", broken)
	outDir := filepath.Join(dir, "out")

	_, err = orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		ConfigPath: configPath,
		OutputDir:  outDir,
	})
	if !errors.Is(err, attrview.ErrAttributeNotFound) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Fatalf("error should identify the record: %v", err)
	}
	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Fatalf("no output should be created when a record is invalid")
	}
}

func TestGenerate_UnknownTemplateAborts(t *testing.T) {
	partial := fstest.MapFS{}
	for _, name := range templates.All() {
		if name == templates.OrbEffect {
			continue
		}
		data, err := fs.ReadFile(templates.FS(), name)
		if err != nil {
			t.Fatalf("read embedded %s: %v", name, err)
		}
		partial[name] = &fstest.MapFile{Data: data}
	}

	outDir := t.TempDir()
	_, err := orchestrator.New(orchestrator.WithTemplatesFS(partial)).Generate(testsupport.Context(), orchestrator.Request{
		ConfigPath: filepath.Join("testdata", "fire.yaml"),
		OutputDir:  outDir,
	})
	if !errors.Is(err, render.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	tree := testsupport.ReadTree(t, outDir)
	if _, ok := tree["Spells/Spell_Fire.json"]; !ok {
		t.Fatalf("files written before the failure should remain: %v", testsupport.TreePaths(tree))
	}
	if _, ok := tree[orchestrator.ContainerFile]; ok {
		t.Fatalf("container must not be written after a failure")
	}
}

func TestGenerate_TemplatesDirOverride(t *testing.T) {
	tplDir := t.TempDir()
	testsupport.WriteFile(t, tplDir, templates.SpellItem, `{"custom": {{ name|tojson }}}`)

	outDir := t.TempDir()
	generate(t, filepath.Join("testdata", "fire.yaml"), outDir, orchestrator.WithTemplatesDir(tplDir))

	tree := testsupport.ReadTree(t, outDir)
	if got := tree["Items/Item_Spell_SpellFire.json"]; got != `{"custom": "Fire"}` {
		t.Fatalf("override not applied: %q", got)
	}
	if !strings.Contains(tree["Spells/Spell_Fire.json"], `"allowThrow": true`) {
		t.Fatalf("embedded templates should still serve other names:\n%s", tree["Spells/Spell_Fire.json"])
	}
}

func TestGenerate_RequestValidation(t *testing.T) {
	gen := orchestrator.New()
	if _, err := gen.Generate(testsupport.Context(), orchestrator.Request{ConfigPath: "x.yaml"}); err == nil {
		t.Fatalf("expected error without output dir")
	}
	if _, err := gen.Generate(testsupport.Context(), orchestrator.Request{OutputDir: t.TempDir()}); err == nil {
		t.Fatalf("expected error without config")
	}
}

func TestEncodeContainer(t *testing.T) {
	empty, err := orchestrator.EncodeContainer(nil)
	if err != nil || empty != "[]" {
		t.Fatalf("empty container = %q, %v", empty, err)
	}

	got, err := orchestrator.EncodeContainer([]spell.ContainerEntry{
		{ReferenceID: "SpellFire", Reference: "Item", CustomValues: []any{}},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `[{"referenceID":"SpellFire","reference":"Item","customValues":[]}]`; got != want {
		t.Fatalf("encoding mismatch\nwant: %s\n got: %s", want, got)
	}

	amp, err := orchestrator.EncodeContainer([]spell.ContainerEntry{
		{ReferenceID: "SpellFire&Ice<s>", Reference: "Item", CustomValues: []any{}},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `[{"referenceID":"SpellFire&Ice<s>","reference":"Item","customValues":[]}]`; amp != want {
		t.Fatalf("encoding should not HTML escape\nwant: %s\n got: %s", want, amp)
	}
}
