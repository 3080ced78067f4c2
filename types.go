package nowiki

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-nowiki/internal/pageconfig"
)

// Content model constants.
const (
	ContentModelWikitext      = pageconfig.ModelWikitext
	ContentModelProofreadPage = pageconfig.ModelProofreadPage
	ContentModelJSON          = pageconfig.ModelJSON
	ContentModelCSS           = pageconfig.ModelCSS
	ContentModelJavaScript    = pageconfig.ModelJavaScript
	ContentModelText          = pageconfig.ModelText
)

// Direction constants.
const (
	DirLTR = pageconfig.DirLTR
	DirRTL = pageconfig.DirRTL
)

// Page limits.
const (
	MaxTitleLength    = 255
	MinNamespace      = -2
	MaxLanguageLength = 35
)

// Page describes the page the wikitext belongs to.
// The zero value is an untitled English wikitext page.
type Page struct {
	Title        string
	Ns           int
	PageID       int64
	Language     string // BCP 47 code, default "en"
	LanguageDir  string // "ltr", "rtl" or empty to derive from Language
	ContentModel string // default "wikitext"
	RevisionID   int64
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means defaults).
func (p *Page) Validate() error {
	if p == nil {
		return nil
	}
	if len(p.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title is %d bytes (max %d)", ErrInvalidPage, len(p.Title), MaxTitleLength)
	}
	if p.Ns < MinNamespace {
		return fmt.Errorf("%w: namespace %d (min %d)", ErrInvalidPage, p.Ns, MinNamespace)
	}
	if p.PageID < 0 || p.RevisionID < 0 {
		return fmt.Errorf("%w: page and revision IDs cannot be negative", ErrInvalidPage)
	}
	if len(p.Language) > MaxLanguageLength {
		return fmt.Errorf("%w: language code %q too long", ErrInvalidPage, p.Language)
	}
	switch strings.ToLower(p.LanguageDir) {
	case "", DirLTR, DirRTL:
	default:
		return fmt.Errorf("%w: direction %q (must be ltr or rtl)", ErrInvalidPage, p.LanguageDir)
	}
	if !isKnownContentModel(p.ContentModel) {
		return fmt.Errorf("%w: content model %q", ErrInvalidPage, p.ContentModel)
	}
	return nil
}

// isKnownContentModel checks the model against the supported set (case-insensitive).
func isKnownContentModel(model string) bool {
	switch strings.ToLower(model) {
	case "", ContentModelWikitext, ContentModelProofreadPage, ContentModelJSON,
		ContentModelCSS, ContentModelJavaScript, ContentModelText:
		return true
	}
	return false
}

// pageConfig builds the page config for one conversion. The page's current
// revision is the wikitext being converted, fetched lazily.
func (p *Page) pageConfig(wikitext string, logger *zap.Logger) pageconfig.PageConfig {
	if p == nil {
		p = &Page{}
	}
	model := strings.ToLower(p.ContentModel)
	page := *p
	return pageconfig.New(pageconfig.Options{
		Title:        page.Title,
		Ns:           page.Ns,
		PageID:       page.PageID,
		Language:     page.Language,
		LanguageDir:  strings.ToLower(page.LanguageDir),
		DefaultModel: model,
		Logger:       logger,
		Fetcher: pageconfig.RevisionFetcherFunc(func(string) (*pageconfig.Revision, error) {
			return &pageconfig.Revision{
				ID:           page.RevisionID,
				Content:      wikitext,
				ContentModel: model,
			}, nil
		}),
	})
}

// Result holds the output of a wikitext-to-HTML conversion.
type Result struct {
	HTML     string // body fragment, or full document with WithStandalone
	Regions  int    // <nowiki> regions found
	Entities int    // character references kept as mw:Entity spans
}

// RoundTripResult reports a wikitext -> HTML -> wikitext pass.
type RoundTripResult struct {
	Input      string
	HTML       string
	Output     string
	Equal      bool
	MismatchAt int // byte offset of the first difference, -1 when Equal
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds converter settings.
type converterConfig struct {
	logger               *zap.Logger
	page                 *Page
	stripTrailing        bool
	standalone           bool
	normalizeLineEndings bool
	assets               AssetLoader
	style                string
	template             string
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithPage sets the page the converted wikitext belongs to.
func WithPage(p *Page) Option {
	return func(c *Converter) {
		c.cfg.page = p
	}
}

// WithStripTrailingNowikis removes trailing <nowiki/> markers from
// ToWikitext output that contains no "=".
func WithStripTrailingNowikis(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.stripTrailing = enabled
	}
}

// WithStandalone makes ToHTML return a complete HTML document instead of a
// body fragment.
func WithStandalone(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.standalone = enabled
	}
}

// WithNormalizeLineEndings converts \r\n and \r to \n before tokenizing.
// Inputs containing \r then no longer round-trip exactly.
func WithNormalizeLineEndings(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.normalizeLineEndings = enabled
	}
}

// WithAssetLoader sets where standalone documents load their style and
// template from. The default uses the embedded assets.
func WithAssetLoader(l AssetLoader) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.assets = l
		}
	}
}

// WithStyle names the stylesheet inlined in standalone documents.
// An empty name leaves the document unstyled. Default: DefaultStyle.
func WithStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.style = name
	}
}

// WithTemplate names the standalone document template. Default: DefaultTemplate.
func WithTemplate(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.cfg.template = name
		}
	}
}
