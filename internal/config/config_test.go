package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Input.DefaultDir != "" {
		t.Errorf("Input.DefaultDir = %q, want empty", cfg.Input.DefaultDir)
	}
	if cfg.Output.DefaultDir != "" {
		t.Errorf("Output.DefaultDir = %q, want empty", cfg.Output.DefaultDir)
	}
	if cfg.Output.Standalone {
		t.Error("Output.Standalone = true, want false")
	}
	if cfg.Output.Style != "default" || cfg.Output.Template != "document" {
		t.Errorf("Output style/template = %q/%q, want default/document", cfg.Output.Style, cfg.Output.Template)
	}
	if cfg.Page.Language != "en" {
		t.Errorf("Page.Language = %q, want %q", cfg.Page.Language, "en")
	}
	if cfg.Page.ContentModel != "wikitext" {
		t.Errorf("Page.ContentModel = %q, want %q", cfg.Page.ContentModel, "wikitext")
	}
	if cfg.Serializer.StripTrailingNowikis {
		t.Error("Serializer.StripTrailingNowikis = true, want false")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value under limit is valid", value: "12345", maxLength: 10},
		{name: "value over limit is invalid", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				if err != nil && !strings.Contains(err.Error(), "test") {
					t.Errorf("error %q should name the field", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateEnum(t *testing.T) {
	allowed := []string{"ltr", "rtl"}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "empty is valid", value: ""},
		{name: "exact match", value: "rtl"},
		{name: "case-insensitive match", value: "LTR"},
		{name: "unknown value", value: "ttb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnum("page.languageDir", tt.value, allowed)
			if tt.wantErr != (err != nil) {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidValue) {
				t.Errorf("error = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name: "fully specified config passes",
			mutate: func(c *Config) {
				c.Page = PageConfig{
					Title: "Main Page", Ns: 0, PageID: 1, Language: "he",
					LanguageDir: "rtl", ContentModel: "wikitext", RevisionID: 42,
				}
				c.Log.Level = "debug"
			},
		},
		{name: "special namespace", mutate: func(c *Config) { c.Page.Ns = -1 }},
		{name: "proofread-page model", mutate: func(c *Config) { c.Page.ContentModel = "proofread-page" }},
		{name: "uppercase log level", mutate: func(c *Config) { c.Log.Level = "INFO" }},
		{name: "empty log level", mutate: func(c *Config) { c.Log.Level = "" }},
		{
			name:    "page.title too long",
			mutate:  func(c *Config) { c.Page.Title = strings.Repeat("a", MaxTitleLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "page.language too long",
			mutate:  func(c *Config) { c.Page.Language = strings.Repeat("x", MaxLanguageLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "output.defaultDir too long",
			mutate:  func(c *Config) { c.Output.DefaultDir = strings.Repeat("d", MaxPathLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "output.style too long",
			mutate:  func(c *Config) { c.Output.Style = strings.Repeat("s", MaxAssetNameLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "output.assetsDir too long",
			mutate:  func(c *Config) { c.Output.AssetsDir = strings.Repeat("d", MaxPathLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "page.ns below media",
			mutate:  func(c *Config) { c.Page.Ns = -3 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative page.pageId",
			mutate:  func(c *Config) { c.Page.PageID = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative page.revisionId",
			mutate:  func(c *Config) { c.Page.RevisionID = -5 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown page.languageDir",
			mutate:  func(c *Config) { c.Page.LanguageDir = "ttb" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "long page.languageDir",
			mutate:  func(c *Config) { c.Page.LanguageDir = "sideways" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown page.contentModel",
			mutate:  func(c *Config) { c.Page.ContentModel = "markdown" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown log.level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "test.yaml", `page:
  title: "Main Page"
  ns: 4
  language: "ar"
serializer:
  stripTrailingNowikis: true
output:
  standalone: true
`)

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Page.Title != "Main Page" {
			t.Errorf("Page.Title = %q, want %q", cfg.Page.Title, "Main Page")
		}
		if cfg.Page.Ns != 4 {
			t.Errorf("Page.Ns = %d, want 4", cfg.Page.Ns)
		}
		if cfg.Page.Language != "ar" {
			t.Errorf("Page.Language = %q, want %q", cfg.Page.Language, "ar")
		}
		if !cfg.Serializer.StripTrailingNowikis {
			t.Error("Serializer.StripTrailingNowikis = false, want true")
		}
		if !cfg.Output.Standalone {
			t.Error("Output.Standalone = false, want true")
		}
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "partial.yaml", "output:\n  highlight: true\n")

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Page.ContentModel != "wikitext" {
			t.Errorf("Page.ContentModel = %q, want default %q", cfg.Page.ContentModel, "wikitext")
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, "warn")
		}
		if !cfg.Output.Highlight {
			t.Error("Output.Highlight = false, want true")
		}
	})

	t.Run("loads input and output directories", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "dirs.yaml", `input:
  defaultDir: "/path/to/input"
  normalizeLineEndings: true
output:
  defaultDir: "/path/to/output"
`)

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Input.DefaultDir != "/path/to/input" {
			t.Errorf("Input.DefaultDir = %q, want %q", cfg.Input.DefaultDir, "/path/to/input")
		}
		if !cfg.Input.NormalizeLineEndings {
			t.Error("Input.NormalizeLineEndings = false, want true")
		}
		if cfg.Output.DefaultDir != "/path/to/output" {
			t.Errorf("Output.DefaultDir = %q, want %q", cfg.Output.DefaultDir, "/path/to/output")
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "invalid.yaml", "page: [unclosed")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "unknown.yaml", "page:\n  title: x\nunknownField: \"should fail\"\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("empty file returns ErrConfigParse", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "empty.yaml", "")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("field too long returns ErrFieldTooLong", func(t *testing.T) {
		longTitle := strings.Repeat("a", MaxTitleLength+1)
		configPath := writeConfig(t, t.TempDir(), "toolong.yaml", "page:\n  title: \""+longTitle+"\"\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("error = %v, want ErrFieldTooLong", err)
		}
	})

	t.Run("invalid enum returns ErrInvalidValue", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "enum.yaml", "page:\n  contentModel: markdown\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("unreadable file returns read error not ErrConfigNotFound", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Getuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		configPath := writeConfig(t, t.TempDir(), "unreadable.yaml", "page:\n  title: x\n")
		if err := os.Chmod(configPath, 0000); err != nil {
			t.Fatalf("setup chmod: %v", err)
		}
		defer os.Chmod(configPath, 0600)

		_, err := LoadConfig(configPath)
		if err == nil {
			t.Fatal("expected error for unreadable file")
		}
		if errors.Is(err, ErrConfigNotFound) {
			t.Error("error should not be ErrConfigNotFound for permission error")
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yaml", "page:\n  title: fromname\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Page.Title != "fromname" {
			t.Errorf("Page.Title = %q, want %q", cfg.Page.Title, "fromname")
		}
	})

	t.Run("config name resolves yml when yaml not found", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yml", "page:\n  title: fromyml\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Page.Title != "fromyml" {
			t.Errorf("Page.Title = %q, want %q", cfg.Page.Title, "fromyml")
		}
	})

	t.Run("config name prefers yaml over yml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yaml", "page:\n  title: yaml\n")
		writeConfig(t, dir, "myconfig.yml", "page:\n  title: yml\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Page.Title != "yaml" {
			t.Errorf("Page.Title = %q, want %q (should prefer .yaml)", cfg.Page.Title, "yaml")
		}
	})

	t.Run("config name resolves from user config directory", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("XDG_CONFIG_HOME only drives os.UserConfigDir on Linux")
		}
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		appDir := filepath.Join(home, AppName)
		if err := os.MkdirAll(appDir, 0755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		writeConfig(t, appDir, "testconfig.yaml", "page:\n  title: userdir\n")
		t.Chdir(t.TempDir())

		cfg, err := LoadConfig("testconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Page.Title != "userdir" {
			t.Errorf("Page.Title = %q, want %q", cfg.Page.Title, "userdir")
		}
	})

	t.Run("missing config name lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("doesnotexist")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		for _, want := range []string{"doesnotexist.yaml", "doesnotexist.yml"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q should mention %q", err, want)
			}
		}
	})
}
