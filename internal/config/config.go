package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-nowiki/internal/fileutil"
	"github.com/alnah/go-nowiki/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the per-user config directory.
const AppName = "go-nowiki"

// Field length limits.
const (
	MaxTitleLength        = 255  // MediaWiki title limit in bytes
	MaxLanguageLength     = 35   // BCP 47 tags stay well below this
	MaxContentModelLength = 64   // "proofread-page", "javascript"
	MaxPathLength         = 4096 // PATH_MAX on Linux
	MaxLevelLength        = 10   // "debug", "error"
	MaxAssetNameLength    = 64   // style and template names
)

// Namespace bounds. -2 is Media, -1 is Special.
const MinNamespace = -2

// Config holds all configuration for wikitext conversion.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Page       PageConfig       `yaml:"page"`
	Serializer SerializerConfig `yaml:"serializer"`
	Log        LogConfig        `yaml:"log"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir           string `yaml:"defaultDir"`           // Default input directory (empty = must specify)
	NormalizeLineEndings bool   `yaml:"normalizeLineEndings"` // Rewrite CRLF and CR to LF before tokenizing
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Standalone bool   `yaml:"standalone"` // Wrap HTML output in a full document
	Highlight  bool   `yaml:"highlight"`  // Colorize HTML written to a terminal
	Style      string `yaml:"style"`      // Stylesheet for standalone documents (empty = none)
	Template   string `yaml:"template"`   // Standalone document template
	AssetsDir  string `yaml:"assetsDir"`  // Directory with styles/ and templates/ overrides
}

// PageConfig describes the page being converted.
type PageConfig struct {
	Title        string `yaml:"title"`
	Ns           int    `yaml:"ns"`
	PageID       int64  `yaml:"pageId"`
	Language     string `yaml:"language"`     // Default: "en"
	LanguageDir  string `yaml:"languageDir"`  // "ltr", "rtl" (empty = derived from language)
	ContentModel string `yaml:"contentModel"` // Default: "wikitext"
	RevisionID   int64  `yaml:"revisionId"`
}

// SerializerConfig defines HTML to wikitext options.
type SerializerConfig struct {
	StripTrailingNowikis bool `yaml:"stripTrailingNowikis"`
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error" (default: "warn")
}

var (
	validDirs          = []string{"ltr", "rtl"}
	validContentModels = []string{"wikitext", "proofread-page", "json", "css", "javascript", "text"}
	validLevels        = []string{"debug", "info", "warn", "error"}
)

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	// Validate paths
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.assetsDir", c.Output.AssetsDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.style", c.Output.Style, MaxAssetNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.template", c.Output.Template, MaxAssetNameLength); err != nil {
		return err
	}

	// Validate page fields
	if err := validateFieldLength("page.title", c.Page.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.language", c.Page.Language, MaxLanguageLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.contentModel", c.Page.ContentModel, MaxContentModelLength); err != nil {
		return err
	}
	if c.Page.Ns < MinNamespace {
		return fmt.Errorf("%w: page.ns must be >= %d, got %d", ErrInvalidValue, MinNamespace, c.Page.Ns)
	}
	if c.Page.PageID < 0 {
		return fmt.Errorf("%w: page.pageId must not be negative, got %d", ErrInvalidValue, c.Page.PageID)
	}
	if c.Page.RevisionID < 0 {
		return fmt.Errorf("%w: page.revisionId must not be negative, got %d", ErrInvalidValue, c.Page.RevisionID)
	}
	if err := validateEnum("page.languageDir", c.Page.LanguageDir, validDirs); err != nil {
		return err
	}
	if err := validateEnum("page.contentModel", c.Page.ContentModel, validContentModels); err != nil {
		return err
	}

	// Validate log fields
	if err := validateFieldLength("log.level", c.Log.Level, MaxLevelLength); err != nil {
		return err
	}
	return validateEnum("log.level", c.Log.Level, validLevels)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum accepts an empty value or one of allowed, case-insensitively.
func validateEnum(fieldName, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	v := strings.ToLower(value)
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns a neutral configuration: a wikitext page in
// English, no document wrapping, warnings-only logging.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{DefaultDir: ""},
		Output: OutputConfig{
			Style:    "default",
			Template: "document",
		},
		Page: PageConfig{
			Language:     "en",
			ContentModel: "wikitext",
		},
		Serializer: SerializerConfig{StripTrailingNowikis: false},
		Log:        LogConfig{Level: "warn"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-nowiki/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
