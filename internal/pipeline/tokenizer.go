package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-nowiki/internal/dom"
	"github.com/alnah/go-nowiki/internal/entity"
	"github.com/alnah/go-nowiki/internal/ext"
	"github.com/alnah/go-nowiki/internal/pageconfig"
)

// ErrExtension indicates an extension tag failed to build its DOM.
var ErrExtension = errors.New("extension tag failed")

// attrPattern matches one name[=value] pair inside an opening tag.
var attrPattern = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+)))?`)

// Tokenizer turns wikitext into a document, handing registered extension
// tags to their extensions. Text outside extension tags is kept as text,
// except that character references become mw:Entity spans.
type Tokenizer struct {
	registry *ext.Registry
	logger   *zap.Logger
	pre      Preprocessor
	openTag  *regexp.Regexp
}

// NewTokenizer creates a tokenizer for the tags registered in registry.
// The registry's tag set is captured at construction.
func NewTokenizer(registry *ext.Registry, logger *zap.Logger, pre Preprocessor) *Tokenizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pre == nil {
		pre = NopPreprocessor{}
	}
	return &Tokenizer{
		registry: registry,
		logger:   logger,
		pre:      pre,
		openTag:  openTagPattern(registry.TagNames()),
	}
}

// openTagPattern matches <name attrs> and <name attrs/> for any of names.
// Longer names are tried first so a tag is never cut short by a prefix.
func openTagPattern(names []string) *regexp.Regexp {
	if len(names) == 0 {
		return nil
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return regexp.MustCompile(`(?i)<(` + strings.Join(quoted, "|") + `)(\s[^<>]*?)?\s*(/?)>`)
}

// Tokenize builds a document from the wikitext of page. A nil page is an
// untitled wikitext page.
func (t *Tokenizer) Tokenize(ctx context.Context, page pageconfig.PageConfig, wikitext string) (*dom.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page == nil {
		page = pageconfig.Default()
	}

	wikitext = t.pre.Preprocess(ctx, wikitext)
	doc := dom.NewDocument()

	// Non-wikitext pages are opaque: no tags, no entities.
	if model := page.ContentModel(); !pageconfig.ParsesWikitext(model) {
		t.logger.Debug("content model is not wikitext, keeping source as text",
			zap.String("model", model))
		if wikitext != "" {
			doc.Body.AppendChild(dom.NewText(wikitext))
		}
		return doc, nil
	}

	api := ext.NewAPI(doc, page, t.logger)
	pos, textStart, regions := 0, 0, 0

	for t.openTag != nil && pos < len(wikitext) {
		m := t.openTag.FindStringSubmatchIndex(wikitext[pos:])
		if m == nil {
			break
		}
		start, end := pos+m[0], pos+m[1]
		name := strings.ToLower(wikitext[pos+m[2] : pos+m[3]])

		var rawAttrs string
		if m[4] >= 0 {
			rawAttrs = wikitext[pos+m[4] : pos+m[5]]
		}
		selfClosing := m[7] > m[6]

		inner, next := "", end
		if !selfClosing {
			closer := entity.ClosingTagPattern(name).FindStringIndex(wikitext[end:])
			if closer == nil {
				// Unterminated: the opening tag is plain text.
				pos = end
				continue
			}
			inner, next = wikitext[end:end+closer[0]], end+closer[1]
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		handler, ok := t.registry.TagHandler(name)
		if !ok {
			pos = end
			continue
		}

		t.appendText(doc, wikitext[textStart:start])
		node, err := handler.ToDOM(api, inner, parseAttrs(rawAttrs))
		if err != nil {
			return nil, fmt.Errorf("%w: <%s> at offset %d: %v", ErrExtension, name, start, err)
		}
		if node != nil {
			doc.Body.AppendChild(node)
		}
		regions++

		textStart, pos = next, next
	}

	t.appendText(doc, wikitext[textStart:])
	dom.Normalize(doc.Body)

	t.logger.Debug("tokenized",
		zap.Int("bytes", len(wikitext)),
		zap.Int("regions", regions))
	return doc, nil
}

// appendText adds text to the body, turning decodable character
// references into entity spans.
func (t *Tokenizer) appendText(doc *dom.Document, text string) {
	for _, seg := range entity.Split(text) {
		if seg.Candidate {
			if decoded, ok := entity.TryDecode(seg.Text); ok && decoded != seg.Text {
				doc.Body.AppendChild(doc.NewEntity(seg.Text, decoded))
				continue
			}
		}
		doc.Body.AppendChild(dom.NewText(seg.Text))
	}
}

// parseAttrs reads name=value pairs from the attribute part of a tag.
// Names are lowercased; values are entity-decoded.
func parseAttrs(raw string) []html.Attribute {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var attrs []html.Attribute
	for _, m := range attrPattern.FindAllStringSubmatch(raw, -1) {
		val := m[2]
		switch {
		case m[3] != "":
			val = m[3]
		case m[4] != "":
			val = m[4]
		}
		attrs = append(attrs, html.Attribute{
			Key: strings.ToLower(m[1]),
			Val: html.UnescapeString(val),
		})
	}
	return attrs
}
