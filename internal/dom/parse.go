package dom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrDataAttrib indicates a data-parsoid attribute could not be decoded.
var ErrDataAttrib = errors.New("invalid data-parsoid attribute")

// ParseHTML parses a full HTML document or a body fragment and loads any
// data-parsoid attributes into the returned document's side table.
func ParseHTML(content string) (*Document, error) {
	body, err := parseBody(content)
	if err != nil {
		return nil, err
	}

	doc := newDocumentWithBody(body)
	if err := doc.LoadDataAttribs(); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseBody returns the body element of content.
// Full documents (starting with <!DOCTYPE or <html) are parsed as such;
// anything else is parsed as a fragment in body context.
func parseBody(content string) (*html.Node, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		root, err := html.Parse(strings.NewReader(content))
		if err != nil {
			return nil, err
		}
		if body := findBody(root); body != nil {
			return body, nil
		}
		return nil, errors.New("document has no body")
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

// findBody returns the first body element under n.
func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// RenderHTML renders the body's children as an HTML fragment, with node
// data flattened into data-parsoid attributes. The tree is left as it was.
func RenderHTML(doc *Document) (string, error) {
	stored := doc.StoreDataAttribs()
	defer func() {
		for _, n := range stored {
			RemoveAttr(n, AttrDataParsoid)
		}
	}()

	var buf strings.Builder
	for c := doc.Body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// StoreDataAttribs writes every node's DataParsoid as a JSON data-parsoid
// attribute and returns the nodes it touched.
func (d *Document) StoreDataAttribs() []*html.Node {
	var stored []*html.Node
	Walk(d.Body, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		dp := d.DataParsoid(n)
		if dp == nil {
			return true
		}
		raw, err := marshalDataParsoid(dp)
		if err != nil {
			return true
		}
		SetAttr(n, AttrDataParsoid, raw)
		stored = append(stored, n)
		return true
	})
	return stored
}

// marshalDataParsoid encodes dp without HTML-escaping; the renderer
// escapes attribute values itself.
func marshalDataParsoid(dp *DataParsoid) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(dp); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// LoadDataAttribs moves data-parsoid attributes into the side table.
func (d *Document) LoadDataAttribs() error {
	var loadErr error
	Walk(d.Body, func(n *html.Node) bool {
		if loadErr != nil || n.Type != html.ElementNode {
			return loadErr == nil
		}
		raw, ok := Attr(n, AttrDataParsoid)
		if !ok {
			return true
		}
		var dp DataParsoid
		if err := json.Unmarshal([]byte(raw), &dp); err != nil {
			loadErr = fmt.Errorf("%w on <%s>: %v", ErrDataAttrib, n.Data, err)
			return false
		}
		d.SetDataParsoid(n, &dp)
		RemoveAttr(n, AttrDataParsoid)
		return true
	})
	return loadErr
}
