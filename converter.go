package nowiki

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-nowiki/internal/dom"
	"github.com/alnah/go-nowiki/internal/ext"
	nowikiext "github.com/alnah/go-nowiki/internal/ext/nowiki"
	"github.com/alnah/go-nowiki/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ ext.Extension         = (*nowikiext.Nowiki)(nil)
	_ ext.NodeSerializer    = (*pipeline.Serializer)(nil)
	_ pipeline.Preprocessor = pipeline.LineEndingPreprocessor{}
)

// Converter converts wikitext to annotated HTML and back.
// Create with NewConverter. Safe for concurrent use: every call builds its
// own document and serializer state.
type Converter struct {
	cfg        converterConfig
	registry   *ext.Registry
	tokenizer  *pipeline.Tokenizer
	serializer *pipeline.Serializer
	document   *pipeline.Document // nil unless standalone
}

// NewConverter creates a Converter with the <nowiki> extension registered.
// Returns ErrInvalidPage if WithPage was given an invalid page, and an asset
// error if standalone output is on and its style or template cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			logger:   zap.NewNop(),
			style:    DefaultStyle,
			template: DefaultTemplate,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.page.Validate(); err != nil {
		return nil, err
	}

	registry, err := ext.NewRegistry(nowikiext.New())
	if err != nil {
		return nil, fmt.Errorf("registering extensions: %w", err)
	}
	c.registry = registry

	var pre pipeline.Preprocessor = pipeline.NopPreprocessor{}
	if c.cfg.normalizeLineEndings {
		pre = pipeline.LineEndingPreprocessor{}
	}
	c.tokenizer = pipeline.NewTokenizer(registry, c.cfg.logger, pre)
	c.serializer = pipeline.NewSerializer(registry, c.cfg.logger,
		pipeline.WithStripTrailingNowikis(c.cfg.stripTrailing))

	if c.cfg.standalone {
		if c.document, err = c.loadDocument(); err != nil {
			return nil, err
		}
	}

	emitConverterCreated(context.Background(), c.title(), len(registry.TagNames()))
	return c, nil
}

// Tags returns the extension tag names the converter recognizes.
func (c *Converter) Tags() []string {
	return c.registry.TagNames()
}

// ToHTML converts wikitext to HTML. Regions become <span typeof="mw:Nowiki">
// and character references become <span typeof="mw:Entity"> with their
// original spelling in data-parsoid.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) ToHTML(ctx context.Context, wikitext string) (result *Result, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
		regions, entities := 0, 0
		if result != nil {
			regions, entities = result.Regions, result.Entities
		}
		emitToHTMLComplete(ctx, c.title(), len(wikitext), regions, entities, time.Since(start), err)
	}()

	page := c.cfg.page.pageConfig(wikitext, c.cfg.logger)
	doc, err := c.tokenizer.Tokenize(ctx, page, wikitext)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenize, err)
	}

	res := &Result{
		Regions:  dom.CountTypeOf(doc.Body, dom.TypeOfNowiki),
		Entities: dom.CountTypeOf(doc.Body, dom.TypeOfEntity),
	}

	res.HTML, err = dom.RenderHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}

	if c.document != nil {
		res.HTML, err = c.document.Wrap(res.HTML, page)
		if err != nil {
			return nil, err
		}
	}

	c.cfg.logger.Debug("converted wikitext to HTML",
		zap.String("title", c.title()),
		zap.Int("regions", res.Regions),
		zap.Int("entities", res.Entities))
	return res, nil
}

// ToWikitext converts HTML, a fragment or a full document, back to wikitext.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) ToWikitext(ctx context.Context, htmlContent string) (out string, err error) {
	start := time.Now()
	var passID string
	var selfClosing bool
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
		emitToWikitextComplete(ctx, passID, len(htmlContent), selfClosing, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := dom.ParseHTML(htmlContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}

	out, state, err := c.serializer.Serialize(ctx, doc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	passID, selfClosing = state.ID, state.HasSelfClosingNowikis()
	return out, nil
}

// RoundTrip converts wikitext to HTML text and back, and reports whether
// the result matches the input. A mismatch returns the result together with
// an error wrapping ErrRoundTripMismatch. HTML text cannot carry NUL bytes,
// so input containing NUL never round-trips.
func (c *Converter) RoundTrip(ctx context.Context, wikitext string) (result *RoundTripResult, err error) {
	start := time.Now()
	defer func() {
		mismatchAt := -1
		if result != nil {
			mismatchAt = result.MismatchAt
		}
		emitRoundTripComplete(ctx, c.title(), mismatchAt, time.Since(start), err)
	}()

	htmlRes, err := c.toFragment(ctx, wikitext)
	if err != nil {
		return nil, err
	}

	out, err := c.ToWikitext(ctx, htmlRes.HTML)
	if err != nil {
		return nil, err
	}

	res := &RoundTripResult{
		Input:      wikitext,
		HTML:       htmlRes.HTML,
		Output:     out,
		MismatchAt: firstDifference(wikitext, out),
	}
	res.Equal = res.MismatchAt < 0
	if !res.Equal {
		return res, fmt.Errorf("%w at byte %d", ErrRoundTripMismatch, res.MismatchAt)
	}
	return res, nil
}

// toFragment runs ToHTML without the standalone wrapper.
func (c *Converter) toFragment(ctx context.Context, wikitext string) (*Result, error) {
	if !c.cfg.standalone {
		return c.ToHTML(ctx, wikitext)
	}
	fragmentOnly := *c
	fragmentOnly.cfg.standalone = false
	fragmentOnly.document = nil
	return fragmentOnly.ToHTML(ctx, wikitext)
}

// loadDocument resolves the style and template for standalone output.
func (c *Converter) loadDocument() (*pipeline.Document, error) {
	loader := c.cfg.assets
	if loader == nil {
		var err error
		if loader, err = NewAssetLoader(""); err != nil {
			return nil, err
		}
	}

	tmpl, err := loader.LoadTemplate(c.cfg.template)
	if err != nil {
		return nil, err
	}

	var css string
	if c.cfg.style != "" {
		if css, err = loader.LoadStyle(c.cfg.style); err != nil {
			return nil, err
		}
	}

	doc, err := pipeline.NewDocument(tmpl, css)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, c.cfg.template, err)
	}

	c.cfg.logger.Debug("loaded standalone document",
		zap.String("template", c.cfg.template),
		zap.String("style", c.cfg.style))
	return doc, nil
}

func (c *Converter) title() string {
	if c.cfg.page == nil {
		return ""
	}
	return c.cfg.page.Title
}

// firstDifference returns the byte offset where a and b first differ,
// or -1 if they are equal.
func firstDifference(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) == len(b) {
		return -1
	}
	return n
}

// DecodeRegion renders the literal region for the text between <nowiki> and
// </nowiki> as HTML, entity metadata included.
func DecodeRegion(src string) (string, error) {
	doc := dom.NewDocument()
	doc.Body.AppendChild(nowikiext.Decode(doc, src))
	return dom.RenderHTML(doc)
}

// EncodeRegion writes the first literal region found in htmlContent back as
// wikitext, from <nowiki> to </nowiki>. Returns an empty string if there is
// no region.
func EncodeRegion(htmlContent string) (string, error) {
	doc, err := dom.ParseHTML(htmlContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}

	var region *html.Node
	dom.Walk(doc.Body, func(n *html.Node) bool {
		if region != nil {
			return false
		}
		if dom.HasTypeOf(n, dom.TypeOfNowiki) {
			region = n
			return false
		}
		return true
	})
	if region == nil {
		return "", nil
	}

	registry, err := ext.NewRegistry(nowikiext.New())
	if err != nil {
		return "", err
	}
	var buf ext.ChunkBuffer
	state := ext.NewState(context.Background(), doc, pipeline.NewSerializer(registry, nil), &buf, nil)
	if err := nowikiext.New().Handle(region, state); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return buf.String(), nil
}
