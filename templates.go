package spellgen

import (
	"io/fs"

	"github.com/goliatone/go-spellgen/pkg/templates"
)

// EmbeddedTemplates exposes the built-in asset templates so callers can copy
// or extend them without importing the templates package directly.
func EmbeddedTemplates() fs.FS {
	return templates.FS()
}
