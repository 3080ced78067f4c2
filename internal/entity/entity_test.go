package entity

// Notes:
// - Named references come from golang.org/x/net/html's HTML5 table; we only
//   spot-check a few names rather than the whole table.
// - ClosingTagPattern caching is observable only through identity, tested once.

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestTryDecode - Reference recognition
// ---------------------------------------------------------------------------

func TestTryDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate string
		want      string
		wantOK    bool
	}{
		{name: "named amp", candidate: "&amp;", want: "&", wantOK: true},
		{name: "named lt", candidate: "&lt;", want: "<", wantOK: true},
		{name: "named nbsp", candidate: "&nbsp;", want: "\u00a0", wantOK: true},
		{name: "named uppercase AMP", candidate: "&AMP;", want: "&", wantOK: true},
		{name: "named semi", candidate: "&semi;", want: ";", wantOK: true},
		{name: "named notin is not a prefix match", candidate: "&notin;", want: "∉", wantOK: true},
		{name: "decimal", candidate: "&#38;", want: "&", wantOK: true},
		{name: "decimal leading zeros", candidate: "&#0065;", want: "A", wantOK: true},
		{name: "hex lowercase x", candidate: "&#x26;", want: "&", wantOK: true},
		{name: "hex uppercase X", candidate: "&#X1F600;", want: "\U0001F600", wantOK: true},
		{name: "decimal tab allowed", candidate: "&#9;", want: "\t", wantOK: true},
		{name: "unknown name", candidate: "&notareal;", wantOK: false},
		{name: "legacy prefix with trailing name", candidate: "&ampfoo;", wantOK: false},
		{name: "decimal zero rejected", candidate: "&#0;", wantOK: false},
		{name: "control character rejected", candidate: "&#1;", wantOK: false},
		{name: "surrogate rejected", candidate: "&#xD800;", wantOK: false},
		{name: "non-character rejected", candidate: "&#xFFFE;", wantOK: false},
		{name: "beyond unicode rejected", candidate: "&#x110000;", wantOK: false},
		{name: "overflow rejected", candidate: "&#99999999999999999999;", wantOK: false},
		{name: "decimal with letters", candidate: "&#12ab;", wantOK: false},
		{name: "hex without digits", candidate: "&#x;", wantOK: false},
		{name: "missing semicolon", candidate: "&amp", wantOK: false},
		{name: "not a reference", candidate: "plain", wantOK: false},
		{name: "empty", candidate: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := TryDecode(tt.candidate)
			if ok != tt.wantOK {
				t.Fatalf("TryDecode(%q) ok = %v, want %v (got %q)", tt.candidate, ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("TryDecode(%q) = %q, want %q", tt.candidate, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsValidCodepoint - Boundaries
// ---------------------------------------------------------------------------

func TestIsValidCodepoint(t *testing.T) {
	t.Parallel()

	valid := []rune{0x09, 0x0a, 0x0d, 0x20, 0xd7ff, 0xe000, 0xfffd, 0x10000, 0x10ffff}
	invalid := []rune{0x00, 0x08, 0x0b, 0x1f, 0xd800, 0xdfff, 0xfffe, 0xffff, 0x110000, -1}

	for _, cp := range valid {
		if !IsValidCodepoint(cp) {
			t.Errorf("IsValidCodepoint(%#x) = false, want true", cp)
		}
	}
	for _, cp := range invalid {
		if IsValidCodepoint(cp) {
			t.Errorf("IsValidCodepoint(%#x) = true, want false", cp)
		}
	}
}

// ---------------------------------------------------------------------------
// TestSplit - Candidate scan
// ---------------------------------------------------------------------------

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{name: "empty", text: "", want: nil},
		{name: "no candidates", text: "plain text", want: []Segment{{Text: "plain text"}}},
		{name: "only candidate", text: "&amp;", want: []Segment{{Text: "&amp;", Candidate: true}}},
		{
			name: "mixed",
			text: "a &lt; b &#38; c",
			want: []Segment{
				{Text: "a "},
				{Text: "&lt;", Candidate: true},
				{Text: " b "},
				{Text: "&#38;", Candidate: true},
				{Text: " c"},
			},
		},
		{
			name: "adjacent candidates",
			text: "&amp;&lt;",
			want: []Segment{
				{Text: "&amp;", Candidate: true},
				{Text: "&lt;", Candidate: true},
			},
		},
		{
			name: "double ampersand",
			text: "&&amp;",
			want: []Segment{
				{Text: "&"},
				{Text: "&amp;", Candidate: true},
			},
		},
		{name: "hash in middle is not a candidate", text: "&a#b;", want: []Segment{{Text: "&a#b;"}}},
		{name: "bare hash is not a candidate", text: "&#;", want: []Segment{{Text: "&#;"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Split(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Split(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
			var joined strings.Builder
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
				joined.WriteString(got[i].Text)
			}
			if joined.String() != tt.text {
				t.Errorf("segments join to %q, want %q", joined.String(), tt.text)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEscapeClosingTag - Terminator escaping
// ---------------------------------------------------------------------------

func TestEscapeClosingTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "no terminator", text: "a < b > c", want: "a < b > c"},
		{name: "plain terminator", text: "x</nowiki>y", want: "x&lt;/nowiki&gt;y"},
		{name: "mixed case", text: "</NoWiki>", want: "&lt;/NoWiki&gt;"},
		{name: "trailing whitespace", text: "</nowiki \n>", want: "&lt;/nowiki \n&gt;"},
		{name: "multiple", text: "</nowiki></nowiki>", want: "&lt;/nowiki&gt;&lt;/nowiki&gt;"},
		{name: "opening tag untouched", text: "<nowiki>", want: "<nowiki>"},
		{name: "self-closing untouched", text: "<nowiki/>", want: "<nowiki/>"},
		{name: "longer tag name untouched", text: "</nowikix>", want: "</nowikix>"},
		{name: "other tag untouched", text: "</pre>", want: "</pre>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EscapeClosingTag(tt.text, "nowiki")
			if got != tt.want {
				t.Errorf("EscapeClosingTag(%q) = %q, want %q", tt.text, got, tt.want)
			}
			if ClosingTagPattern("nowiki").MatchString(got) {
				t.Errorf("escaped text %q still contains a terminator", got)
			}
		})
	}
}

func TestClosingTagPattern_Cached(t *testing.T) {
	t.Parallel()

	if ClosingTagPattern("Nowiki") != ClosingTagPattern("nowiki") {
		t.Error("ClosingTagPattern should return the same pattern regardless of tag case")
	}
}
