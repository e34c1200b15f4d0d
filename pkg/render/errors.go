package render

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-spellgen/pkg/render/template"
)

var (
	// ErrTemplateNotFound is returned when the engine cannot locate a template.
	ErrTemplateNotFound = template.ErrTemplateNotFound
	// ErrInvalidPath is returned for output paths that are empty or would
	// escape the base directory.
	ErrInvalidPath = errors.New("render: invalid output path")
)

// FilesystemError reports a failed directory or file operation.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("render: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
