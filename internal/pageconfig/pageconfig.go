// Package pageconfig describes the page a wikitext document belongs to:
// its title, namespace, language and current revision.
package pageconfig

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Content models.
const (
	ModelWikitext      = "wikitext"
	ModelProofreadPage = "proofread-page"
	ModelJSON          = "json"
	ModelCSS           = "css"
	ModelJavaScript    = "javascript"
	ModelText          = "text"
)

// Language directions.
const (
	DirLTR = "ltr"
	DirRTL = "rtl"
)

// DefaultLanguage is used when a page does not name its language.
const DefaultLanguage = "en"

// PageConfig exposes page metadata to extension handlers.
type PageConfig interface {
	ContentModel() string
	Title() string
	Ns() int
	PageID() int64
	PageLanguage() string
	PageLanguageDir() string
	Revision() (*Revision, bool)
	RevisionID() (int64, bool)
}

// Revision is one stored version of a page.
type Revision struct {
	ID           int64
	ParentID     int64
	Timestamp    time.Time
	User         string
	UserID       int64
	SHA1         string
	Content      string
	ContentModel string
}

// Size returns the content length in bytes.
func (r *Revision) Size() int {
	return len(r.Content)
}

// RevisionFetcher loads the current revision of a title.
// A nil revision with a nil error means the page has none.
type RevisionFetcher interface {
	FetchRevision(title string) (*Revision, error)
}

// RevisionFetcherFunc adapts a function to RevisionFetcher.
type RevisionFetcherFunc func(title string) (*Revision, error)

// FetchRevision calls f.
func (f RevisionFetcherFunc) FetchRevision(title string) (*Revision, error) {
	return f(title)
}

// Options configures a Static page config.
type Options struct {
	Title        string
	Ns           int
	PageID       int64
	Language     string
	LanguageDir  string
	DefaultModel string
	Revision     *Revision
	Fetcher      RevisionFetcher
	Logger       *zap.Logger
}

// Static is a PageConfig backed by fixed values and an optional lazily
// fetched revision. Safe for concurrent use.
type Static struct {
	title        string
	ns           int
	pageID       int64
	language     string
	languageDir  string
	defaultModel string
	fetcher      RevisionFetcher
	logger       *zap.Logger

	once     sync.Once
	revision *Revision
}

// Compile-time interface check.
var _ PageConfig = (*Static)(nil)

// New builds a Static page config. Empty fields take defaults:
// language "en", direction derived from the language, model wikitext.
func New(opts Options) *Static {
	s := &Static{
		title:        opts.Title,
		ns:           opts.Ns,
		pageID:       opts.PageID,
		language:     opts.Language,
		languageDir:  opts.LanguageDir,
		defaultModel: opts.DefaultModel,
		fetcher:      opts.Fetcher,
		logger:       opts.Logger,
		revision:     opts.Revision,
	}
	if s.language == "" {
		s.language = DefaultLanguage
	}
	if s.languageDir == "" {
		s.languageDir = DirectionOf(s.language)
	}
	if s.defaultModel == "" {
		s.defaultModel = ModelWikitext
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.revision != nil || s.fetcher == nil {
		s.once.Do(func() {})
	}
	return s
}

// Default returns an untitled wikitext page in English.
func Default() *Static {
	return New(Options{})
}

// ContentModel returns the revision's content model, falling back to the
// page's default model.
func (s *Static) ContentModel() string {
	if rev, ok := s.Revision(); ok && rev.ContentModel != "" {
		return rev.ContentModel
	}
	return s.defaultModel
}

func (s *Static) Title() string           { return s.title }
func (s *Static) Ns() int                 { return s.ns }
func (s *Static) PageID() int64           { return s.pageID }
func (s *Static) PageLanguage() string    { return s.language }
func (s *Static) PageLanguageDir() string { return s.languageDir }

// Revision returns the page's current revision, fetching it on first use.
// Fetch errors are logged and treated as "no revision".
func (s *Static) Revision() (*Revision, bool) {
	s.once.Do(func() {
		rev, err := s.fetcher.FetchRevision(s.title)
		if err != nil {
			s.logger.Warn("revision fetch failed",
				zap.String("title", s.title),
				zap.Error(err))
			return
		}
		s.revision = rev
	})
	return s.revision, s.revision != nil
}

// RevisionID returns the current revision's ID.
func (s *Static) RevisionID() (int64, bool) {
	rev, ok := s.Revision()
	if !ok {
		return 0, false
	}
	return rev.ID, true
}

// ParsesWikitext reports whether a content model is parsed as wikitext.
func ParsesWikitext(model string) bool {
	return model == ModelWikitext || model == ModelProofreadPage
}

// rtlLanguages lists language codes written right to left.
var rtlLanguages = map[string]bool{
	"aeb": true, "ar": true, "arc": true, "arz": true, "azb": true,
	"bcc": true, "bgn": true, "bqi": true, "ckb": true, "dv": true,
	"fa": true, "glk": true, "he": true, "khw": true, "ks": true,
	"lki": true, "lrc": true, "luz": true, "mzn": true, "nqo": true,
	"pnb": true, "ps": true, "sd": true, "sdh": true, "skr": true,
	"ug": true, "ur": true, "yi": true,
}

// DirectionOf returns "rtl" for right-to-left language codes and "ltr"
// otherwise. Only the primary subtag is considered ("ar-eg" is "ar").
func DirectionOf(lang string) string {
	primary := strings.ToLower(lang)
	if i := strings.IndexAny(primary, "-_"); i >= 0 {
		primary = primary[:i]
	}
	if rtlLanguages[primary] {
		return DirRTL
	}
	return DirLTR
}
