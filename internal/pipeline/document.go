package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/alnah/go-nowiki/internal/pageconfig"
)

// Sentinel errors for standalone documents.
var (
	ErrDocumentTemplate = errors.New("invalid document template")
	ErrDocumentRender   = errors.New("document template rendering failed")
)

// Document wraps body fragments in a complete HTML document carrying the
// page's language and direction.
type Document struct {
	tmpl  *template.Template
	style template.CSS
}

type documentData struct {
	Lang         string
	Dir          string
	Title        string
	Ns           int
	PageID       int64
	RevisionID   int64 // 0 when the page has no revision
	ContentModel string
	Style        template.CSS
	Body         template.HTML
}

// NewDocument parses an html/template document. css, which may be empty, is
// inlined where the template references .Style.
func NewDocument(tmplText, css string) (*Document, error) {
	tmpl, err := template.New("document").Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentTemplate, err)
	}
	return &Document{
		tmpl:  tmpl,
		style: template.CSS(css), // #nosec G203 -- stylesheet comes from the asset loader
	}, nil
}

// Wrap embeds fragment, which must already be safe HTML, in a standalone
// document for page. An untitled page is titled "Document". Page metadata
// is available to the template for the document head.
func (d *Document) Wrap(fragment string, page pageconfig.PageConfig) (string, error) {
	if page == nil {
		page = pageconfig.Default()
	}
	title := page.Title()
	if title == "" {
		title = "Document"
	}

	revisionID, _ := page.RevisionID()

	var buf bytes.Buffer
	err := d.tmpl.Execute(&buf, documentData{
		Lang:         page.PageLanguage(),
		Dir:          page.PageLanguageDir(),
		Title:        title,
		Ns:           page.Ns(),
		PageID:       page.PageID(),
		RevisionID:   revisionID,
		ContentModel: page.ContentModel(),
		Style:        d.style,
		Body:         template.HTML(fragment), // #nosec G203 -- fragment is rendered by x/net/html
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}
