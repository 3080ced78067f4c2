package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		style   string
		want    string
		wantErr error
	}{
		{name: "default", style: DefaultStyleName, want: `span[typeof~="mw:Nowiki"]`},
		{name: "plain", style: "plain", want: "font-family: serif"},
		{name: "missing", style: "nonexistent", wantErr: ErrStyleNotFound},
		{name: "traversal", style: "../default", wantErr: ErrInvalidAssetName},
		{name: "extension", style: "default.css", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) error = %v", tt.style, err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("LoadStyle(%q) missing %q", tt.style, tt.want)
			}
		})
	}
}

func TestLoadTemplate(t *testing.T) {
	t.Parallel()

	got, err := LoadTemplate(DefaultTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "{{.Lang}}", "{{.Dir}}", "{{.Title}}", "{{.Style}}", "{{.Body}}"} {
		if !strings.Contains(got, want) {
			t.Errorf("template missing %q", want)
		}
	}

	if _, err := LoadTemplate("cover"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(cover) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "default", false},
		{"hyphen", "wiki-light", false},
		{"underscore", "wiki_dark", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"dot", "a.b", true},
		{"parent", "..", true},
		{"nul", "a\x00b", true},
		{"too long", strings.Repeat("a", MaxAssetNameLength+1), true},
		{"max length", strings.Repeat("a", MaxAssetNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAssetName) {
					t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateAssetName(%q) error = %v", tt.input, err)
			}
		})
	}
}
