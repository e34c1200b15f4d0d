package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-spellgen/internal/envconfig"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config is the resolved invocation. ConfigPath and OutputDir may be empty
// when the positional arguments were omitted.
type Config struct {
	ConfigPath   string
	OutputDir    string
	TemplatesDir string
	LogLevel     string
	LogFormat    string
	Watch        bool
	Debounce     time.Duration
}

// UsageLine is the one-line synopsis printed with argument errors.
const UsageLine = "usage: spellgen [options] <config> <output-dir>"

// Parse processes command-line arguments on top of defaults. It returns the
// resolved Config, a boolean indicating the program should exit cleanly (help
// was requested), or an ExitError for invalid input.
func Parse(args []string, output io.Writer, defaults envconfig.Settings) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("spellgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
spellgen - generate spell asset JSON from a spell list.

Usage:
  spellgen [options] <config> <output-dir>

Arguments:
  config
    YAML, JSON or HCL file holding the list of spells.
  output-dir
    Base directory for Spells/, Effects/, Items/ and the player container.
    Created when missing.

Options:
`)
		flagSet.PrintDefaults()
	}

	templatesFlag := flagSet.String("templates", defaults.TemplatesDir, "Directory of templates overriding the embedded set.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	watchFlag := flagSet.Bool("watch", defaults.Watch, "Regenerate when the config file or template directory changes.")
	debounceFlag := flagSet.Duration("debounce", defaults.Debounce, "Quiet period before a watch-triggered regeneration.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() > 2 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected at most 2 arguments, got %d", flagSet.NArg())}
	}

	logFormat := strings.ToLower(strings.TrimSpace(*logFormatFlag))
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(strings.TrimSpace(*logLevelFlag))
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *debounceFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid debounce: must not be negative"}
	}

	config := &Config{
		ConfigPath:   flagSet.Arg(0),
		OutputDir:    flagSet.Arg(1),
		TemplatesDir: strings.TrimSpace(*templatesFlag),
		LogLevel:     logLevel,
		LogFormat:    logFormat,
		Watch:        *watchFlag,
		Debounce:     *debounceFlag,
	}
	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
