package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-spellgen/internal/ctxlog"
	"github.com/goliatone/go-spellgen/pkg/render/template"
)

// Params are the named values a template is filled with.
type Params map[string]any

// Target is what entries render through. Renderer is the production
// implementation; tests may substitute recorders.
type Target interface {
	EnsureDir(ctx context.Context, name string) error
	Render(ctx context.Context, templateName string, output []string, params Params) error
}

// Renderer writes filled templates beneath a base directory.
type Renderer struct {
	baseDir  string
	engine   template.TemplateRenderer
	dirMode  fs.FileMode
	fileMode fs.FileMode

	mu      sync.Mutex
	written []string
}

var _ Target = (*Renderer)(nil)

// New constructs a Renderer rooted at baseDir using engine for template
// lookup.
func New(baseDir string, engine template.TemplateRenderer, options ...Option) (*Renderer, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, errors.New("render: base directory is required")
	}
	if engine == nil {
		return nil, errors.New("render: template engine is required")
	}

	r := &Renderer{
		baseDir:  filepath.Clean(baseDir),
		engine:   engine,
		dirMode:  0o755,
		fileMode: 0o644,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// BaseDir returns the directory outputs are written under.
func (r *Renderer) BaseDir() string {
	return r.baseDir
}

// EnsureDir creates name beneath the base directory, or the base directory
// itself when name is empty. Existing directories are not an error, including
// when two callers race to create the same one.
func (r *Renderer) EnsureDir(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := r.baseDir
	if name != "" {
		rel, err := cleanRelative([]string{name})
		if err != nil {
			return err
		}
		target = filepath.Join(r.baseDir, rel)
	}

	if err := os.MkdirAll(target, r.dirMode); err != nil {
		return &FilesystemError{Op: "mkdir", Path: target, Err: err}
	}
	ctxlog.FromContext(ctx).Debug("ensured output directory", "path", target)
	return nil
}

// Render fills templateName with params and writes the result to output, a
// path relative to the base directory given as segments. The template is
// rendered completely before the file is touched, so a failed render leaves
// no partial file. Existing files are overwritten.
func (r *Renderer) Render(ctx context.Context, templateName string, output []string, params Params) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := cleanRelative(output)
	if err != nil {
		return err
	}

	rendered, err := r.engine.RenderTemplate(templateName, map[string]any(params))
	if err != nil {
		return fmt.Errorf("render: %s -> %s: %w", templateName, filepath.ToSlash(rel), err)
	}

	target := filepath.Join(r.baseDir, rel)
	if err := os.WriteFile(target, []byte(rendered), r.fileMode); err != nil {
		return &FilesystemError{Op: "write", Path: target, Err: err}
	}

	r.mu.Lock()
	r.written = append(r.written, filepath.ToSlash(rel))
	r.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("rendered template",
		"template", templateName, "path", filepath.ToSlash(rel), "bytes", len(rendered))
	return nil
}

// Written returns the slash-separated relative paths written so far, in
// write order.
func (r *Renderer) Written() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.written...)
}

func cleanRelative(segments []string) (string, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: no path segments", ErrInvalidPath)
	}
	for _, segment := range segments {
		if segment == "" {
			return "", fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, segments)
		}
	}
	rel := filepath.Join(segments...)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q escapes the output directory", ErrInvalidPath, filepath.ToSlash(rel))
	}
	return rel, nil
}
