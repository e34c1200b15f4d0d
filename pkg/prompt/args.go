package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Args are the positional arguments of the generator.
type Args struct {
	ConfigPath string
	OutputDir  string
}

// Complete fills any empty field of args by asking through driver. Fields
// already set are returned untouched and no prompt is shown for them.
func Complete(ctx context.Context, driver Driver, args Args) (Args, error) {
	if args.ConfigPath != "" && args.OutputDir != "" {
		return args, nil
	}
	if driver == nil || !driver.Interactive() {
		return args, ErrNotInteractive
	}

	if args.ConfigPath == "" {
		value, err := driver.Input(ctx, InputConfig{
			Message:   "Spell configuration file:",
			Help:      "YAML, JSON or HCL document listing the spells to generate.",
			Validator: validateConfigPath,
		})
		if err != nil {
			return args, fmt.Errorf("prompt: config path: %w", err)
		}
		args.ConfigPath = strings.TrimSpace(value)
	}

	if args.OutputDir == "" {
		value, err := driver.Input(ctx, InputConfig{
			Message:   "Output directory:",
			Help:      "Generated Spells/, Effects/ and Items/ are written here. Created when missing.",
			Default:   "output",
			Validator: validateRequired,
		})
		if err != nil {
			return args, fmt.Errorf("prompt: output dir: %w", err)
		}
		args.OutputDir = strings.TrimSpace(value)
	}
	return args, nil
}

func validateRequired(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("a value is required")
	}
	return nil
}

func validateConfigPath(value string) error {
	if err := validateRequired(value); err != nil {
		return err
	}
	info, err := os.Stat(strings.TrimSpace(value))
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}
