// Package nowiki implements the <nowiki> extension tag: everything between
// <nowiki> and </nowiki> is literal text, except that character references
// are decoded and remember how they were spelled.
package nowiki

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-nowiki/internal/dom"
	"github.com/alnah/go-nowiki/internal/entity"
	"github.com/alnah/go-nowiki/internal/ext"
)

// TagName is the wikitext tag this extension owns.
const TagName = "nowiki"

// Markers written by Handle.
const (
	OpenMarker        = "<" + TagName + ">"
	CloseMarker       = "</" + TagName + ">"
	SelfClosingMarker = "<" + TagName + "/>"
)

// Nowiki is the <nowiki> extension. The zero value is ready to use.
type Nowiki struct{}

// Compile-time interface check.
var _ ext.Extension = (*Nowiki)(nil)

// New returns the extension.
func New() *Nowiki {
	return &Nowiki{}
}

// Config declares the nowiki tag and its typeof.
func (*Nowiki) Config() ext.Config {
	return ext.Config{
		Name: TagName,
		Tags: []ext.TagConfig{{Name: TagName, TypeOf: dom.TypeOfNowiki}},
	}
}

// ToDOM builds the literal container for src. Tag attributes are ignored.
func (*Nowiki) ToDOM(api *ext.API, src string, _ []html.Attribute) (*html.Node, error) {
	span := Decode(api.Doc, src)
	api.Logger.Debug("nowiki decoded",
		zap.Int("bytes", len(src)),
		zap.Int("entities", dom.CountTypeOf(span, dom.TypeOfEntity)))
	return span, nil
}

// Decode builds a <span typeof="mw:Nowiki"> holding src as text, with each
// recognized character reference turned into a mw:Entity span. Candidates
// that do not decode stay literal. Never fails.
func Decode(doc *dom.Document, src string) *html.Node {
	span := dom.NewElement("span")
	dom.SetTypeOf(span, dom.TypeOfNowiki)

	for _, seg := range entity.Split(src) {
		if seg.Candidate {
			if decoded, ok := entity.TryDecode(seg.Text); ok && decoded != seg.Text {
				span.AppendChild(doc.NewEntity(seg.Text, decoded))
				continue
			}
		}
		span.AppendChild(dom.NewText(seg.Text))
	}

	dom.Normalize(span)
	return span
}

// Handle writes node back as wikitext. A container with nothing but diff
// markers becomes <nowiki/>.
func (*Nowiki) Handle(node *html.Node, state *ext.State) error {
	if !dom.HasContentChildren(node) {
		state.MarkSelfClosingNowikis()
		state.EmitChunk(SelfClosingMarker, node)
		return nil
	}

	state.EmitChunk(OpenMarker, node)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.ElementNode:
			switch {
			case dom.IsDiffMarker(child):
			case child.Data == "span" && dom.HasTypeOf(child, dom.TypeOfEntity):
				if err := state.SerializeNode(child); err != nil {
					return err
				}
			default:
				markup, err := dom.OuterHTML(child)
				if err != nil {
					return fmt.Errorf("rendering <%s> inside %s: %w", child.Data, TagName, err)
				}
				state.EmitChunk(markup, node)
			}
		case html.TextNode:
			state.EmitChunk(entity.EscapeClosingTag(child.Data, TagName), child)
		default:
			if err := state.SerializeNode(child); err != nil {
				return err
			}
		}
	}
	state.EmitChunk(CloseMarker, node)
	return nil
}
