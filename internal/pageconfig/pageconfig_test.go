package pageconfig

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ---------------------------------------------------------------------------
// TestNew - Defaults
// ---------------------------------------------------------------------------

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	pc := Default()

	if pc.PageLanguage() != DefaultLanguage {
		t.Errorf("PageLanguage() = %q, want %q", pc.PageLanguage(), DefaultLanguage)
	}
	if pc.PageLanguageDir() != DirLTR {
		t.Errorf("PageLanguageDir() = %q, want %q", pc.PageLanguageDir(), DirLTR)
	}
	if pc.ContentModel() != ModelWikitext {
		t.Errorf("ContentModel() = %q, want %q", pc.ContentModel(), ModelWikitext)
	}
	if _, ok := pc.Revision(); ok {
		t.Error("Revision() should report no revision without a fetcher")
	}
	if _, ok := pc.RevisionID(); ok {
		t.Error("RevisionID() should report no revision without a fetcher")
	}
}

func TestNew_DirectionFromLanguage(t *testing.T) {
	t.Parallel()

	pc := New(Options{Language: "he"})
	if pc.PageLanguageDir() != DirRTL {
		t.Errorf("PageLanguageDir() = %q, want %q", pc.PageLanguageDir(), DirRTL)
	}

	pc = New(Options{Language: "he", LanguageDir: DirLTR})
	if pc.PageLanguageDir() != DirLTR {
		t.Error("explicit LanguageDir should win over the derived direction")
	}
}

// ---------------------------------------------------------------------------
// TestRevision - Lazy fetch
// ---------------------------------------------------------------------------

func TestRevision_FetchedOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	pc := New(Options{
		Title: "Main Page",
		Fetcher: RevisionFetcherFunc(func(title string) (*Revision, error) {
			calls.Add(1)
			if title != "Main Page" {
				t.Errorf("fetcher got title %q", title)
			}
			return &Revision{ID: 42, Content: "x", ContentModel: ModelJSON}, nil
		}),
	})

	if calls.Load() != 0 {
		t.Fatal("revision should not be fetched before first use")
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if id, ok := pc.RevisionID(); !ok || id != 42 {
				t.Errorf("RevisionID() = %d, %v, want 42, true", id, ok)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("fetcher called %d times, want 1", calls.Load())
	}
	if pc.ContentModel() != ModelJSON {
		t.Errorf("ContentModel() = %q, want revision model %q", pc.ContentModel(), ModelJSON)
	}
	if ParsesWikitext(pc.ContentModel()) {
		t.Error("json content should not parse as wikitext")
	}
}

func TestRevision_FetchErrorLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	pc := New(Options{
		Title:  "Broken",
		Logger: zap.New(core),
		Fetcher: RevisionFetcherFunc(func(string) (*Revision, error) {
			return nil, errors.New("backend down")
		}),
	})

	if _, ok := pc.Revision(); ok {
		t.Error("Revision() should report no revision after a fetch error")
	}
	if logs.FilterMessage("revision fetch failed").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}
}

func TestRevision_Given(t *testing.T) {
	t.Parallel()

	pc := New(Options{Revision: &Revision{ID: 7, Content: "abc", ContentModel: ModelProofreadPage}})

	rev, ok := pc.Revision()
	if !ok || rev.Content != "abc" {
		t.Fatalf("Revision() = %+v, %v", rev, ok)
	}
	if rev.Size() != 3 {
		t.Errorf("Size() = %d, want 3", rev.Size())
	}
	if id, ok := pc.RevisionID(); !ok || id != 7 {
		t.Errorf("RevisionID() = %d, %v, want 7, true", id, ok)
	}
	if !ParsesWikitext(pc.ContentModel()) {
		t.Error("proofread-page content should parse as wikitext")
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestParsesWikitext(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		ModelWikitext:      true,
		ModelProofreadPage: true,
		ModelJSON:          false,
		ModelCSS:           false,
		ModelJavaScript:    false,
		ModelText:          false,
		"":                 false,
	}
	for model, want := range tests {
		if got := ParsesWikitext(model); got != want {
			t.Errorf("ParsesWikitext(%q) = %v, want %v", model, got, want)
		}
	}
}

func TestDirectionOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang string
		want string
	}{
		{"en", DirLTR},
		{"ar", DirRTL},
		{"AR", DirRTL},
		{"ar-EG", DirRTL},
		{"fa_IR", DirRTL},
		{"fr", DirLTR},
		{"", DirLTR},
	}
	for _, tt := range tests {
		if got := DirectionOf(tt.lang); got != tt.want {
			t.Errorf("DirectionOf(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}
