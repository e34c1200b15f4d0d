package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-spellgen/pkg/render/template"
)

// Option configures the Engine before construction.
type Option func(*config)

type config struct {
	baseDir string
	files   fs.FS
	globals map[string]any
}

// WithBaseDir loads templates from a directory on disk. Names found there
// take precedence over the fs.FS set with WithFS.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithGlobals seeds values visible to every template of the engine.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set,
// which understands Jinja syntax. Parsed templates are cached for the life of
// the engine.
type Engine struct {
	mu        sync.Mutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	baseDir   string
	files     fs.FS
}

// Ensure Engine implements the TemplateRenderer interface.
var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.files == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}

	set := pongo2.NewSet("spellgen", loaders...)
	if len(cfg.globals) > 0 {
		set.Globals = pongo2.Context{}
		set.Globals.Update(pongo2.Context(cfg.globals))
	}
	configureRuntime()

	return &Engine{
		set:       set,
		templates: make(map[string]*pongo2.Template),
		baseDir:   cfg.baseDir,
		files:     cfg.files,
	}, nil
}

// RenderTemplate loads the named template and executes it with data. Unknown
// names fail with template.ErrTemplateNotFound.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}

	ctx := pongo2.Context{}
	ctx.Update(pongo2.Context(data))

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", name, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// HasTemplate reports whether name resolves in any configured source.
func (e *Engine) HasTemplate(name string) bool {
	if e == nil {
		return false
	}
	return e.exists(name)
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}
	// pongo2 reports a missing file as a generic parse error, so existence is
	// checked first to keep ErrTemplateNotFound distinguishable.
	if !e.exists(name) {
		return nil, fmt.Errorf("gotemplate: %w: %q", template.ErrTemplateNotFound, name)
	}

	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}

func (e *Engine) exists(name string) bool {
	if e.baseDir != "" {
		if info, err := os.Stat(filepath.Join(e.baseDir, filepath.FromSlash(name))); err == nil && !info.IsDir() {
			return true
		}
	}
	if e.files != nil {
		if info, err := fs.Stat(e.files, name); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// Filters and the autoescape mode are process-wide in pongo2. Templates
// produce JSON, not HTML, so autoescaping is turned off; string fields are
// escaped explicitly with tojson or jsonstr.
func configureRuntime() {
	pongo2.SetAutoescape(false)
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("tojson") {
		_ = pongo2.RegisterFilter("tojson", filterToJSON)
	}
	if !pongo2.FilterExists("jsonstr") {
		_ = pongo2.RegisterFilter("jsonstr", filterJSONString)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterToJSON encodes the input as a JSON value. An optional integer
// parameter sets the indent width.
func filterToJSON(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	indent := 0
	if param != nil && param.IsInteger() && param.Integer() > 0 {
		indent = param.Integer()
	}
	encoded, err := encodeJSON(in.Interface(), indent)
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:tojson", OrigError: err}
	}
	return pongo2.AsSafeValue(encoded), nil
}

// filterJSONString escapes the input for use inside an existing JSON string
// literal, e.g. "Spell{{ name|jsonstr }}". Non-string scalars are formatted
// with fmt first.
func filterJSONString(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw := in.Interface()
	text, ok := raw.(string)
	if !ok && raw != nil {
		text = fmt.Sprint(raw)
	}
	encoded, err := encodeJSON(text, 0)
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:jsonstr", OrigError: err}
	}
	return pongo2.AsSafeValue(encoded[1 : len(encoded)-1]), nil
}

func encodeJSON(value any, indent int) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
