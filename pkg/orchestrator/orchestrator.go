package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-spellgen/internal/ctxlog"
	"github.com/goliatone/go-spellgen/pkg/config"
	"github.com/goliatone/go-spellgen/pkg/render"
	"github.com/goliatone/go-spellgen/pkg/render/template"
	"github.com/goliatone/go-spellgen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-spellgen/pkg/spell"
	"github.com/goliatone/go-spellgen/pkg/templates"
)

// ContainerFile is the name of the aggregated container written at the root
// of the output directory.
const ContainerFile = "Container_PlayerDefault.json"

// Orchestrator runs the generation pipeline. A zero-option Orchestrator reads
// YAML/JSON/HCL configuration from disk and uses the embedded templates.
type Orchestrator struct {
	loader         *config.Loader
	engine         template.TemplateRenderer
	templatesFS    fs.FS
	templatesDir   string
	stalePattern   string
	staleSpecified bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.loader == nil {
		o.loader = config.NewLoader()
	}
	if o.templatesFS == nil {
		o.templatesFS = templates.FS()
	}
	if !o.staleSpecified {
		o.stalePattern = defaultStalePattern
	}
	return o
}

// Request describes one generation run.
type Request struct {
	// Source identifies the configuration document. When nil, ConfigPath is
	// read from disk.
	Source config.Source
	// ConfigPath is the configuration file path used when Source is nil.
	ConfigPath string
	// OutputDir is the base directory outputs are written under. It is
	// created, with parents, when absent.
	OutputDir string
}

// Result summarises a completed run.
type Result struct {
	Spells    []*spell.Spell
	Written   []string
	Container []spell.ContainerEntry
	// Stale lists files matching the stale pattern that exist under the
	// output directory but were not written by this run. They are left in
	// place.
	Stale []string
}

// Generate runs the pipeline. It stops at the first error; files written
// before the failure are left in place.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.OutputDir == "" {
		return Result{}, errors.New("orchestrator: output directory is required")
	}

	logger := ctxlog.FromContext(ctx)

	spells, err := o.loadSpells(ctx, req)
	if err != nil {
		return Result{}, err
	}

	engine, err := o.templateEngine()
	if err != nil {
		return Result{}, err
	}
	renderer, err := render.New(req.OutputDir, engine)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}
	if err := renderer.EnsureDir(ctx, ""); err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}

	for _, s := range spells {
		if err := s.PreRender(ctx, renderer); err != nil {
			return Result{}, fmt.Errorf("orchestrator: %w", err)
		}
		if err := s.Render(ctx, renderer); err != nil {
			return Result{}, fmt.Errorf("orchestrator: %w", err)
		}
	}

	container := Container(spells)
	contents, err := EncodeContainer(container)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: encode container: %w", err)
	}
	if err := renderer.Render(ctx, templates.PlayerDefaults, []string{ContainerFile}, render.Params{
		"contents": contents,
	}); err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}

	result := Result{
		Spells:    spells,
		Written:   renderer.Written(),
		Container: container,
	}

	result.Stale, err = o.findStale(renderer.BaseDir(), result.Written)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: stale scan: %w", err)
	}
	for _, path := range result.Stale {
		logger.Warn("stale output not produced by this run", "path", path)
	}

	logger.Info("generation complete",
		"spells", len(spells),
		"files", len(result.Written),
		"container_entries", len(container),
		"stale", len(result.Stale),
		"output", renderer.BaseDir())
	return result, nil
}

func (o *Orchestrator) loadSpells(ctx context.Context, req Request) ([]*spell.Spell, error) {
	src := req.Source
	if src == nil {
		if req.ConfigPath == "" {
			return nil, errors.New("orchestrator: config source or path is required")
		}
		src = config.SourceFromFile(req.ConfigPath)
	}

	records, err := o.loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load config: %w", err)
	}

	spells := make([]*spell.Spell, 0, len(records))
	for idx, record := range records {
		s, err := spell.New(record)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: record %d: %w", idx, err)
		}
		spells = append(spells, s)
	}
	ctxlog.FromContext(ctx).Debug("loaded spells", "source", src.Location(), "count", len(spells))
	return spells, nil
}

func (o *Orchestrator) templateEngine() (template.TemplateRenderer, error) {
	if o.engine != nil {
		return o.engine, nil
	}
	options := []gotemplate.Option{gotemplate.WithFS(o.templatesFS)}
	if o.templatesDir != "" {
		options = append(options, gotemplate.WithBaseDir(o.templatesDir))
	}
	engine, err := gotemplate.New(options...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: template engine: %w", err)
	}
	return engine, nil
}

func (o *Orchestrator) findStale(baseDir string, written []string) ([]string, error) {
	if o.stalePattern == "" {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(baseDir), o.stalePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	produced := make(map[string]struct{}, len(written))
	for _, path := range written {
		produced[path] = struct{}{}
	}

	var stale []string
	for _, match := range matches {
		if _, ok := produced[match]; !ok {
			stale = append(stale, match)
		}
	}
	sort.Strings(stale)
	return stale, nil
}

// Container flattens the container entries of every spell, preserving spell
// order and, within a spell, its own entry before its merges.
func Container(spells []*spell.Spell) []spell.ContainerEntry {
	entries := make([]spell.ContainerEntry, 0, len(spells))
	for _, s := range spells {
		entries = append(entries, s.Container()...)
	}
	return entries
}

// EncodeContainer renders container entries as a JSON array with fields in
// referenceID, reference, customValues order.
func EncodeContainer(entries []spell.ContainerEntry) (string, error) {
	if entries == nil {
		entries = []spell.ContainerEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
