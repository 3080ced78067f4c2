// Package entity decodes wikitext character references and escapes
// extension-tag terminators inside literal text.
//
// Wikitext only accepts references that end in a semicolon. Numeric
// references must name a code point that is legal in a document; named
// references must match an HTML5 named character reference exactly.
package entity

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// CandidatePattern matches text shaped like a character reference:
// "&#digits;", "&#xhex;" or "&name;". Shape alone says nothing about
// legality; use TryDecode for that.
var CandidatePattern = regexp.MustCompile(`&#?[0-9A-Za-z]+;`)

// Precompiled reference forms.
var (
	decimalRef = regexp.MustCompile(`^&#([0-9]+);$`)
	hexRef     = regexp.MustCompile(`^&#[xX]([0-9A-Fa-f]+);$`)
	namedRef   = regexp.MustCompile(`^&[0-9A-Za-z]+;$`)
)

// TryDecode decodes a single candidate reference.
// It reports false when the candidate is not a reference wikitext recognizes,
// including entity-shaped text with an unknown name.
func TryDecode(candidate string) (string, bool) {
	if m := decimalRef.FindStringSubmatch(candidate); m != nil {
		return decodeCodepoint(m[1], 10)
	}
	if m := hexRef.FindStringSubmatch(candidate); m != nil {
		return decodeCodepoint(m[1], 16)
	}
	if namedRef.MatchString(candidate) {
		return decodeNamed(candidate)
	}
	return "", false
}

// decodeCodepoint parses digits in the given base and validates the result.
func decodeCodepoint(digits string, base int) (string, bool) {
	cp, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return "", false
	}
	if !IsValidCodepoint(rune(cp)) {
		return "", false
	}
	return string(rune(cp)), true
}

// decodeNamed resolves "&name;" against the HTML5 named reference table.
func decodeNamed(candidate string) (string, bool) {
	decoded := html.UnescapeString(candidate)
	if decoded == candidate {
		return "", false
	}
	// The HTML unescaper falls back to semicolon-less legacy names, so
	// "&notareal;" comes back as "¬areal;". A full match consumes the
	// whole name, so the last name character and the semicolon are gone.
	if strings.HasSuffix(decoded, candidate[len(candidate)-2:]) {
		return "", false
	}
	return decoded, true
}

// IsValidCodepoint reports whether cp may be produced by a numeric reference.
// Control characters other than tab, newline and carriage return, surrogates,
// the two non-characters U+FFFE/U+FFFF and anything past U+10FFFF are rejected.
func IsValidCodepoint(cp rune) bool {
	return cp == 0x09 ||
		cp == 0x0a ||
		cp == 0x0d ||
		(cp >= 0x20 && cp <= 0xd7ff) ||
		(cp >= 0xe000 && cp <= 0xfffd) ||
		(cp >= 0x10000 && cp <= 0x10ffff)
}

// Segment is one piece of a Split result.
type Segment struct {
	Text      string
	Candidate bool // Text matched CandidatePattern
}

// Split partitions text into alternating literal runs and reference
// candidates, in document order. Empty runs are omitted, so the
// concatenation of all segment texts is always text itself.
func Split(text string) []Segment {
	matches := CandidatePattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			segments = append(segments, Segment{Text: text[pos:m[0]]})
		}
		segments = append(segments, Segment{Text: text[m[0]:m[1]], Candidate: true})
		pos = m[1]
	}
	if pos < len(text) {
		segments = append(segments, Segment{Text: text[pos:]})
	}
	return segments
}

// closingTagCache memoizes ClosingTagPattern by lowercased tag name.
var closingTagCache sync.Map

// ClosingTagPattern returns the pattern that ends a region opened by tag:
// "</tag>" with optional trailing whitespace, ASCII case-insensitive.
// The tokenizer and EscapeClosingTag share it, so text escaped on the way
// out can never be read back as a terminator.
func ClosingTagPattern(tag string) *regexp.Regexp {
	key := strings.ToLower(tag)
	if re, ok := closingTagCache.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)</` + regexp.QuoteMeta(key) + `\s*>`)
	actual, _ := closingTagCache.LoadOrStore(key, re)
	return actual.(*regexp.Regexp)
}

// EscapeClosingTag replaces the angle brackets of every terminator for tag
// found in text with "&lt;" and "&gt;". Text without a terminator is
// returned unchanged.
func EscapeClosingTag(text, tag string) string {
	if !strings.Contains(text, "</") {
		return text
	}
	return ClosingTagPattern(tag).ReplaceAllStringFunc(text, func(m string) string {
		return "&lt;" + m[1:len(m)-1] + "&gt;"
	})
}
