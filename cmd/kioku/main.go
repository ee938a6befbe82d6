// Command kioku is a thin smoke-test entry point: it reads one JSON value
// from stdin, runs it through a fresh Pipeline built from environment
// config, and prints the rendered context to stdout. It is not a feature
// surface — there is nowhere to store a Passport between runs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashita-ai/kioku"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	level := parseLogLevel(os.Getenv("KIOKU_LOG_LEVEL"))
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger) error {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("parse stdin as JSON: %w", err)
	}

	p, err := kioku.New(kioku.WithLogger(logger), kioku.WithVersion(version))
	if err != nil {
		return fmt.Errorf("construct pipeline: %w", err)
	}

	passport := &kioku.Passport{Version: "1.0"}
	if _, err := p.Process(ctx, passport, input, "", nil); err != nil {
		return fmt.Errorf("process input: %w", err)
	}

	rendered := p.Render(passport, 0, "")
	fmt.Println(rendered)
	return nil
}

func parseLogLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
