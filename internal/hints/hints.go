// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"os"
	"strings"
)

// ForHighlight returns hints when --highlight cannot produce colors.
// Checks NO_COLOR and TERM, the variables terminal formatters honor.
func ForHighlight() string {
	var hints []string

	if os.Getenv("NO_COLOR") != "" {
		hints = append(hints, "unset NO_COLOR to allow colored output")
	}

	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		hints = append(hints, "set TERM=xterm-256color for 256-color output")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large pages, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-nowiki/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (inside the go-nowiki directory) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-nowiki") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForRoundTripMismatch explains a round trip that changed the input.
func ForRoundTripMismatch(offset int) string {
	return format(fmt.Sprintf(
		"output differs from input at byte %d; empty regions become <nowiki/> and tags are lowercased, run encode on decode output to get the normal form",
		offset))
}

// ForNULByte explains a round trip that lost a NUL byte. HTML text cannot
// carry NUL, so the parser drops it on the way back.
func ForNULByte(offset int) string {
	return format(fmt.Sprintf(
		"input has a NUL byte at byte %d, which HTML cannot carry; remove it before converting",
		offset))
}

// ForHTMLInput returns hints for HTML that could not be parsed.
func ForHTMLInput() string {
	return format("encode expects HTML produced by decode; data-parsoid attributes must be valid JSON")
}

// ForContentModel returns a hint when a non-wikitext model kept the page as text.
func ForContentModel(model string) string {
	if model == "" || model == "wikitext" || model == "proofread-page" {
		return ""
	}
	return format(fmt.Sprintf("content model %q is converted as plain text; use --content-model wikitext to parse <nowiki> regions", model))
}

// ForInvalidPage returns hints for rejected page metadata.
func ForInvalidPage() string {
	return format("check --title, --ns, --language-dir and --content-model")
}

// ForAssets returns hints for styles and templates that could not be loaded.
func ForAssets() string {
	return format("built-in styles are default and plain; --assets-dir must contain styles/<name>.css and templates/<name>.html")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
