// Package dom holds the annotated HTML document model shared by the
// wikitext tokenizer, the extension handlers and the serializer.
//
// Trees are golang.org/x/net/html nodes. Round-trip metadata that has no
// place in the HTML itself (the original spelling of a character reference,
// for instance) lives in a typed side table on Document, keyed by node, and
// is only flattened into data-parsoid attributes when the document is
// rendered to text.
package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// typeof values understood by this module.
const (
	TypeOfNowiki     = "mw:Nowiki"
	TypeOfEntity     = "mw:Entity"
	TypeOfDiffMarker = "mw:DiffMarker"
	TypeOfExtension  = "mw:Extension/"
)

// Attribute names.
const (
	AttrTypeOf      = "typeof"
	AttrDataParsoid = "data-parsoid"
)

// DataParsoid is the round-trip metadata attached to a node.
type DataParsoid struct {
	// Src is the exact source text the node was built from.
	Src string `json:"src,omitempty"`
	// SrcContent is the rendered text Src decoded to at parse time.
	SrcContent string `json:"srcContent,omitempty"`
}

// NodeData groups all side-table data for one node.
type NodeData struct {
	Parsoid *DataParsoid
}

// Document is a body element plus its node data.
// A Document is not safe for concurrent use.
type Document struct {
	Body *html.Node
	data map[*html.Node]*NodeData
}

// NewDocument returns an empty document with a detached body element.
func NewDocument() *Document {
	return newDocumentWithBody(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	})
}

func newDocumentWithBody(body *html.Node) *Document {
	return &Document{
		Body: body,
		data: make(map[*html.Node]*NodeData),
	}
}

// Data returns the data record for n, creating it on first use.
func (d *Document) Data(n *html.Node) *NodeData {
	nd, ok := d.data[n]
	if !ok {
		nd = &NodeData{}
		d.data[n] = nd
	}
	return nd
}

// DataParsoid returns the round-trip metadata of n, or nil.
func (d *Document) DataParsoid(n *html.Node) *DataParsoid {
	if nd, ok := d.data[n]; ok {
		return nd.Parsoid
	}
	return nil
}

// SetDataParsoid replaces the round-trip metadata of n.
func (d *Document) SetDataParsoid(n *html.Node, dp *DataParsoid) {
	d.Data(n).Parsoid = dp
}

// NewEntity builds a "mw:Entity" span rendering decoded, remembering src
// as its original spelling.
func (d *Document) NewEntity(src, decoded string) *html.Node {
	span := NewElement("span")
	SetTypeOf(span, TypeOfEntity)
	span.AppendChild(NewText(decoded))
	d.SetDataParsoid(span, &DataParsoid{Src: src, SrcContent: decoded})
	return span
}
