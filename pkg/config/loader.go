package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-spellgen/internal/ctxlog"
	"github.com/goliatone/go-spellgen/pkg/attrview"
)

// Option configures a Loader.
type Option func(*Loader)

// WithFileSystem supplies the fs.FS used for SourceFromFS sources.
func WithFileSystem(files fs.FS) Option {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithFormat forces a parser instead of inferring one from the file name.
func WithFormat(format Format) Option {
	return func(l *Loader) {
		l.format = format
	}
}

// Loader reads configuration documents and returns one attribute tree per
// top-level record, in document order.
type Loader struct {
	fs     fs.FS
	format Format
}

// NewLoader constructs a Loader applying the supplied options.
func NewLoader(options ...Option) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Load reads src and parses it into records.
func (l *Loader) Load(ctx context.Context, src Source) ([]attrview.Value, error) {
	if src == nil {
		return nil, errors.New("config: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedSource, src.Kind())
	}
	if err != nil {
		return nil, err
	}

	format := l.format
	if format == "" {
		format = FormatFor(src.Location())
	}

	ctxlog.FromContext(ctx).Debug("parsing configuration",
		"source", src.Location(), "format", string(format), "bytes", len(data))

	return Parse(data, src.Location(), format)
}

// Parse decodes raw document bytes in the given format.
func Parse(data []byte, name string, format Format) ([]attrview.Value, error) {
	switch format {
	case FormatHCL:
		return parseHCL(data, name)
	case FormatYAML, FormatJSON, "":
		return parseYAML(data, name)
	default:
		return nil, fmt.Errorf("config: unknown format %q", format)
	}
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("config: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return data, nil
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("config: fs path is required")
	}
	if files == nil {
		return nil, errors.New("config: fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", name, err)
	}
	return data, nil
}
