// Package ext defines the contract between the document pipeline and
// extension tags such as <nowiki>.
//
// An extension contributes two capabilities: ExtensionTag turns the raw
// source between its tags into a DOM subtree, and SerialHandler turns that
// subtree back into wikitext. The Registry dispatches to them by tag name on
// the way in and by typeof on the way out.
package ext

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-nowiki/internal/dom"
	"github.com/alnah/go-nowiki/internal/pageconfig"
)

// API is the per-document handle passed to ExtensionTag.ToDOM.
type API struct {
	Doc    *dom.Document
	Page   pageconfig.PageConfig
	Logger *zap.Logger
}

// NewAPI returns an API for doc. Nil page and logger take defaults.
func NewAPI(doc *dom.Document, page pageconfig.PageConfig, logger *zap.Logger) *API {
	if page == nil {
		page = pageconfig.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{Doc: doc, Page: page, Logger: logger}
}

// ExtensionTag builds the DOM for one occurrence of an extension tag.
// src is the raw text between the opening and closing tag.
type ExtensionTag interface {
	ToDOM(api *API, src string, args []html.Attribute) (*html.Node, error)
}

// SerialHandler writes the wikitext for a node the extension produced.
type SerialHandler interface {
	Handle(node *html.Node, state *State) error
}

// TagConfig declares one tag an extension owns.
type TagConfig struct {
	// Name is the tag name as written in wikitext, lowercase.
	Name string
	// TypeOf is the typeof value the extension puts on its root node.
	TypeOf string
}

// Config lists the tags an extension owns.
type Config struct {
	Name string
	Tags []TagConfig
}

// Extension is a complete extension: both directions plus its tag list.
type Extension interface {
	ExtensionTag
	SerialHandler
	Config() Config
}
