package spellgen

import (
	"github.com/goliatone/go-spellgen/pkg/config"
)

// NewLoader constructs a configuration loader for spell documents.
func NewLoader(options ...config.Option) *config.Loader {
	return config.NewLoader(options...)
}
