package main

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// Highlighting settings for --highlight.
const (
	highlightLexer     = "html"
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// writeText writes converted output to w. HTML is colorized when highlight is set.
func writeText(w io.Writer, src string, highlight bool) error {
	if !highlight {
		_, err := io.WriteString(w, src)
		return err
	}
	if err := quick.Highlight(w, src, highlightLexer, highlightFormatter, highlightStyle); err != nil {
		return fmt.Errorf("highlighting output: %w", err)
	}
	return nil
}
