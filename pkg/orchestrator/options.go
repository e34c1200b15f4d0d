package orchestrator

import (
	"io/fs"
	"strings"

	"github.com/goliatone/go-spellgen/pkg/config"
	"github.com/goliatone/go-spellgen/pkg/render/template"
)

// defaultStalePattern matches generated files under the output directory.
const defaultStalePattern = "**/*.json"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom configuration loader.
func WithLoader(loader *config.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithTemplateEngine injects a ready engine. It is reused across runs, so
// template edits are not picked up; leave it unset in watch mode.
func WithTemplateEngine(engine template.TemplateRenderer) Option {
	return func(o *Orchestrator) {
		o.engine = engine
	}
}

// WithTemplatesFS replaces the embedded template set.
func WithTemplatesFS(files fs.FS) Option {
	return func(o *Orchestrator) {
		o.templatesFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk first, falling
// back to the template set for names the directory does not provide.
func WithTemplatesDir(dir string) Option {
	return func(o *Orchestrator) {
		o.templatesDir = strings.TrimSpace(dir)
	}
}

// WithStalePattern sets the doublestar pattern used to find previously
// generated files. An empty pattern disables the stale report.
func WithStalePattern(pattern string) Option {
	return func(o *Orchestrator) {
		o.stalePattern = pattern
		o.staleSpecified = true
	}
}
