package main

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestWriteText - Plain and highlighted output
// ---------------------------------------------------------------------------

func TestWriteText(t *testing.T) {
	t.Parallel()

	const src = `<span typeof="mw:Nowiki">[[x]]</span>`

	t.Run("plain output is unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeText(&buf, src, false); err != nil {
			t.Fatalf("writeText() error = %v", err)
		}
		if buf.String() != src {
			t.Errorf("output = %q, want %q", buf.String(), src)
		}
	})

	t.Run("highlighted output has escape codes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeText(&buf, src, true); err != nil {
			t.Fatalf("writeText() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "\x1b[") {
			t.Errorf("expected ANSI escapes, got %q", out)
		}
		if !strings.Contains(out, "mw:Nowiki") {
			t.Errorf("highlighted output lost content: %q", out)
		}
	})
}
