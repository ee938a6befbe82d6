// Package config loads and validates pipeline configuration from
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all pipeline configuration.
type Config struct {
	// Ingest settings.
	MaxInteractionChars      int
	EnableFallbackSummarizer bool

	// Render settings.
	RenderBudgetChars int

	// Extractor settings.
	ExtractorProvider    string // "openai", "ollama", or "noop"
	OpenAIAPIKey         string
	ExtractorModel       string
	OllamaURL            string
	OllamaModel          string
	ExtractorConcurrency int
	ExtractorTimeout     time.Duration

	// JWT settings.
	JWTPrivateKeyPath string // Path to Ed25519 private key PEM file.
	JWTPublicKeyPath  string // Path to Ed25519 public key PEM file.

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel string
}

// Load reads configuration from environment variables with sensible
// defaults. Returns an error if any environment variable contains an
// unparseable value. Missing variables use sensible defaults; only
// malformed values are rejected.
func Load() (Config, error) {
	var errs []error
	cfg := Config{
		ExtractorProvider: envStr("KIOKU_EXTRACTOR_PROVIDER", "noop"),
		OpenAIAPIKey:      envStr("OPENAI_API_KEY", ""),
		ExtractorModel:    envStr("KIOKU_EXTRACTOR_MODEL", "gpt-4o-mini"),
		OllamaURL:         envStr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:       envStr("OLLAMA_MODEL", "llama3.1"),
		JWTPrivateKeyPath: envStr("KIOKU_JWT_PRIVATE_KEY", ""),
		JWTPublicKeyPath:  envStr("KIOKU_JWT_PUBLIC_KEY", ""),
		OTELEndpoint:      envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:       envStr("OTEL_SERVICE_NAME", "kioku"),
		LogLevel:          envStr("KIOKU_LOG_LEVEL", "info"),
	}

	cfg.MaxInteractionChars, errs = collectInt(errs, "KIOKU_MAX_INTERACTION_CHARS", 4000)
	cfg.RenderBudgetChars, errs = collectInt(errs, "KIOKU_RENDER_BUDGET_CHARS", 2000)
	cfg.ExtractorConcurrency, errs = collectInt(errs, "KIOKU_EXTRACTOR_CONCURRENCY", 1)

	cfg.EnableFallbackSummarizer, errs = collectBool(errs, "KIOKU_ENABLE_FALLBACK_SUMMARIZER", true)
	cfg.OTELInsecure, errs = collectBool(errs, "OTEL_EXPORTER_OTLP_INSECURE", false)

	cfg.ExtractorTimeout, errs = collectDuration(errs, "KIOKU_EXTRACTOR_TIMEOUT", 30*time.Second)

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return Config{}, fmt.Errorf("config: invalid environment variables:\n  %s", strings.Join(msgs, "\n  "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that configuration values are present and sane.
func (c Config) Validate() error {
	var errs []error

	if c.MaxInteractionChars <= 0 {
		errs = append(errs, errors.New("config: KIOKU_MAX_INTERACTION_CHARS must be positive"))
	}
	if c.RenderBudgetChars < 400 {
		errs = append(errs, errors.New("config: KIOKU_RENDER_BUDGET_CHARS must be at least 400"))
	}
	if c.ExtractorConcurrency <= 0 {
		errs = append(errs, errors.New("config: KIOKU_EXTRACTOR_CONCURRENCY must be positive"))
	}
	if c.ExtractorTimeout <= 0 {
		errs = append(errs, errors.New("config: KIOKU_EXTRACTOR_TIMEOUT must be positive"))
	}
	switch c.ExtractorProvider {
	case "openai", "ollama", "noop":
	default:
		errs = append(errs, fmt.Errorf("config: KIOKU_EXTRACTOR_PROVIDER %q is not one of openai, ollama, noop", c.ExtractorProvider))
	}
	if c.ExtractorProvider == "openai" && c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("config: OPENAI_API_KEY is required when KIOKU_EXTRACTOR_PROVIDER=openai"))
	}
	if c.JWTPrivateKeyPath != "" {
		if err := validateKeyFile(c.JWTPrivateKeyPath, "KIOKU_JWT_PRIVATE_KEY"); err != nil {
			errs = append(errs, err)
		}
	}
	if c.JWTPublicKeyPath != "" {
		if err := validateKeyFile(c.JWTPublicKeyPath, "KIOKU_JWT_PUBLIC_KEY"); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// validateKeyFile checks that a key file exists, is readable, is non-empty,
// and has restrictive permissions (owner-only on Unix).
func validateKeyFile(path, envVar string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("config: %s %q: %w", envVar, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config: %s %q is a directory, expected a file", envVar, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("config: %s %q is empty", envVar, path)
	}
	perm := info.Mode().Perm()
	if perm&0o077 != 0 {
		return fmt.Errorf("config: %s %q has overly permissive mode %04o (expected 0600 or stricter)", envVar, path, perm)
	}
	return nil
}

func collectInt(errs []error, key string, fallback int) (int, []error) {
	v, err := envInt(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

func collectBool(errs []error, key string, fallback bool) (bool, []error) {
	v, err := envBool(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

func collectDuration(errs []error, key string, fallback time.Duration) (time.Duration, []error) {
	v, err := envDuration(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
