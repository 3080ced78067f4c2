package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-nowiki/internal/config"
)

// envPrefix marks the environment variables read by the CLI.
const envPrefix = "NOWIKI_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // NOWIKI_CONFIG: config file name or path
	Timeout    time.Duration // NOWIKI_TIMEOUT: overall timeout
	Workers    int           // NOWIKI_WORKERS: parallel workers

	// Tier 2 - I/O
	InputDir  string // NOWIKI_INPUT_DIR: default input directory
	OutputDir string // NOWIKI_OUTPUT_DIR: default output directory
	AssetsDir string // NOWIKI_ASSETS_DIR: style and template overrides

	// Tier 3 - Page and logging
	Title        string // NOWIKI_TITLE: page title
	Language     string // NOWIKI_LANGUAGE: page language code
	ContentModel string // NOWIKI_CONTENT_MODEL: page content model
	LogLevel     string // NOWIKI_LOG_LEVEL: debug, info, warn, error
	Style        string // NOWIKI_STYLE: stylesheet for standalone documents
}

// knownEnvVars lists valid NOWIKI_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"NOWIKI_CONFIG":  true,
	"NOWIKI_TIMEOUT": true,
	"NOWIKI_WORKERS": true,
	// Tier 2 - I/O
	"NOWIKI_INPUT_DIR":  true,
	"NOWIKI_OUTPUT_DIR": true,
	"NOWIKI_ASSETS_DIR": true,
	// Tier 3 - Page and logging
	"NOWIKI_TITLE":         true,
	"NOWIKI_LANGUAGE":      true,
	"NOWIKI_CONTENT_MODEL": true,
	"NOWIKI_LOG_LEVEL":     true,
	"NOWIKI_STYLE":         true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("NOWIKI_CONFIG"),
		InputDir:     os.Getenv("NOWIKI_INPUT_DIR"),
		OutputDir:    os.Getenv("NOWIKI_OUTPUT_DIR"),
		AssetsDir:    os.Getenv("NOWIKI_ASSETS_DIR"),
		Title:        os.Getenv("NOWIKI_TITLE"),
		Language:     os.Getenv("NOWIKI_LANGUAGE"),
		ContentModel: os.Getenv("NOWIKI_CONTENT_MODEL"),
		LogLevel:     os.Getenv("NOWIKI_LOG_LEVEL"),
		Style:        os.Getenv("NOWIKI_STYLE"),
	}

	if timeout := os.Getenv("NOWIKI_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("NOWIKI_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// unknownEnvVars returns the NOWIKI_* variables that are not recognized.
func unknownEnvVars() []string {
	var unknown []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// warnUnknownEnvVars writes a warning for each unrecognized NOWIKI_* variable.
// Helps catch typos like NOWIKI_LANG instead of NOWIKI_LANGUAGE.
func warnUnknownEnvVars(w io.Writer) {
	for _, name := range unknownEnvVars() {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment variable values to config.
// A value is applied only when the config still holds its default.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	defaults := config.DefaultConfig()

	// Tier 2 - I/O
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.AssetsDir != "" && cfg.Output.AssetsDir == "" {
		cfg.Output.AssetsDir = env.AssetsDir
	}
	if env.Style != "" && cfg.Output.Style == defaults.Output.Style {
		cfg.Output.Style = env.Style
	}

	// Tier 3 - Page
	if env.Title != "" && cfg.Page.Title == "" {
		cfg.Page.Title = env.Title
	}
	if env.Language != "" && cfg.Page.Language == defaults.Page.Language {
		cfg.Page.Language = env.Language
	}
	if env.ContentModel != "" && cfg.Page.ContentModel == defaults.Page.ContentModel {
		cfg.Page.ContentModel = env.ContentModel
	}

	// Tier 3 - Logging
	if env.LogLevel != "" && cfg.Log.Level == defaults.Log.Level {
		cfg.Log.Level = env.LogLevel
	}
}
