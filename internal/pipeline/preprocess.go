package pipeline

import (
	"context"
	"regexp"
)

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Preprocessor rewrites wikitext before tokenizing.
type Preprocessor interface {
	Preprocess(ctx context.Context, wikitext string) string
}

// NopPreprocessor returns its input unchanged.
type NopPreprocessor struct{}

// Preprocess returns wikitext as is.
func (NopPreprocessor) Preprocess(_ context.Context, wikitext string) string {
	return wikitext
}

// LineEndingPreprocessor converts \r\n and \r to \n. Sources normalized this
// way no longer round-trip byte for byte when they contained \r.
type LineEndingPreprocessor struct{}

// Preprocess normalizes line endings.
func (LineEndingPreprocessor) Preprocess(ctx context.Context, wikitext string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return wikitext
	}
	return crlfOrCR.ReplaceAllString(wikitext, "\n")
}

// Compile-time interface checks.
var (
	_ Preprocessor = NopPreprocessor{}
	_ Preprocessor = LineEndingPreprocessor{}
)
