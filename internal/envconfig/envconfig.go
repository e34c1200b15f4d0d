// Package envconfig resolves process settings from the environment, optionally
// seeded from a .env file.
package envconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix namespaces every variable read by Parse.
const Prefix = "SPELLGEN_"

// Settings holds the defaults the CLI uses before flags are applied.
type Settings struct {
	TemplatesDir string        `env:"TEMPLATES_DIR"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string        `env:"LOG_FORMAT" envDefault:"text"`
	Watch        bool          `env:"WATCH" envDefault:"false"`
	Debounce     time.Duration `env:"DEBOUNCE" envDefault:"300ms"`
}

// LoadDotEnv loads variables from the named files into the process
// environment without overriding variables that are already set. Missing files
// are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("envconfig: stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("envconfig: load %s: %w", path, err)
		}
	}
	return nil
}

// Parse reads Settings from the environment.
func Parse() (Settings, error) {
	var settings Settings
	if err := env.ParseWithOptions(&settings, env.Options{Prefix: Prefix}); err != nil {
		return Settings{}, fmt.Errorf("envconfig: parse env: %w", err)
	}
	return settings, nil
}
