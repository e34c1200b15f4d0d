package template

import (
	"errors"
	"io"
)

// ErrTemplateNotFound signals a request for a template the engine cannot
// locate in any of its sources.
var ErrTemplateNotFound = errors.New("template: not found")

// TemplateRenderer is the contract the render facade relies on.
type TemplateRenderer interface {
	// RenderTemplate executes the named template with data. The result is
	// returned and, when writers are supplied, copied to each of them.
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
}
