package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-spellgen/internal/cli"
	"github.com/goliatone/go-spellgen/internal/ctxlog"
	"github.com/goliatone/go-spellgen/internal/envconfig"
	"github.com/goliatone/go-spellgen/internal/logging"
	"github.com/goliatone/go-spellgen/pkg/orchestrator"
	"github.com/goliatone/go-spellgen/pkg/prompt"
	"github.com/goliatone/go-spellgen/pkg/watch"
)

// main is the entrypoint for the spellgen command.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:], prompt.NewSurveyDriver()); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run resolves configuration (.env, environment, flags, prompts) and executes
// a single generation or, with -watch, regenerates until interrupted.
func run(outW, errW io.Writer, args []string, driver prompt.Driver) error {
	if err := envconfig.LoadDotEnv(".env"); err != nil {
		return err
	}
	settings, err := envconfig.Parse()
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	cfg, shouldExit, err := cli.Parse(args, outW, settings)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	positional, err := prompt.Complete(ctx, driver, prompt.Args{
		ConfigPath: cfg.ConfigPath,
		OutputDir:  cfg.OutputDir,
	})
	if err != nil {
		if errors.Is(err, prompt.ErrNotInteractive) {
			return &cli.ExitError{Code: 2, Message: "missing arguments\n" + cli.UsageLine}
		}
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, errW)
	ctx = ctxlog.WithLogger(ctx, logger)

	var options []orchestrator.Option
	if cfg.TemplatesDir != "" {
		options = append(options, orchestrator.WithTemplatesDir(cfg.TemplatesDir))
	}
	gen := orchestrator.New(options...)
	req := orchestrator.Request{
		ConfigPath: positional.ConfigPath,
		OutputDir:  positional.OutputDir,
	}
	generate := func(ctx context.Context) error {
		_, err := gen.Generate(ctx, req)
		return err
	}

	if !cfg.Watch {
		return generate(ctx)
	}

	paths := []string{positional.ConfigPath}
	if cfg.TemplatesDir != "" {
		paths = append(paths, cfg.TemplatesDir)
	}
	watcher, err := watch.New(watch.Config{
		Paths:    paths,
		Exclude:  []string{positional.OutputDir},
		Debounce: cfg.Debounce,
	}, generate)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
