package spellgen

import (
	"context"

	"github.com/goliatone/go-spellgen/pkg/config"
	"github.com/goliatone/go-spellgen/pkg/orchestrator"
)

// Result aliases orchestrator.Result for callers using the top-level package.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate reads the spell list at configPath and writes every spell asset
// plus the player container under outputDir. It is the simplest entry point
// for callers that do not need a custom source.
func Generate(ctx context.Context, configPath, outputDir string, options ...orchestrator.Option) (Result, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		ConfigPath: configPath,
		OutputDir:  outputDir,
	})
}

// GenerateFromSource is Generate for a pre-built configuration source, such as
// a document inside an fs.FS.
func GenerateFromSource(ctx context.Context, src config.Source, outputDir string, options ...orchestrator.Option) (Result, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:    src,
		OutputDir: outputDir,
	})
}

// WithTemplatesDir forwards a template directory override to the
// orchestrator.
func WithTemplatesDir(dir string) orchestrator.Option {
	return orchestrator.WithTemplatesDir(dir)
}
