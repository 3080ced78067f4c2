package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates a detached element node.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     attrs,
	}
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Attr returns the value of the attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the attribute key from n, if present.
func RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// TypeOf returns the raw typeof attribute of n.
func TypeOf(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	v, _ := Attr(n, AttrTypeOf)
	return v
}

// SetTypeOf sets the typeof attribute of n.
func SetTypeOf(n *html.Node, typeOf string) {
	SetAttr(n, AttrTypeOf, typeOf)
}

// HasTypeOf reports whether typeOf is one of the space-separated
// values of n's typeof attribute.
func HasTypeOf(n *html.Node, typeOf string) bool {
	for _, v := range strings.Fields(TypeOf(n)) {
		if v == typeOf {
			return true
		}
	}
	return false
}

// IsDiffMarker reports whether n is a change-tracking marker:
// a meta element typed "mw:DiffMarker/<kind>".
func IsDiffMarker(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || n.Data != "meta" {
		return false
	}
	for _, v := range strings.Fields(TypeOf(n)) {
		if strings.HasPrefix(v, TypeOfDiffMarker+"/") {
			return true
		}
	}
	return false
}

// NewDiffMarker creates a marker of the given kind ("inserted", "deleted", ...).
func NewDiffMarker(kind string) *html.Node {
	meta := NewElement("meta")
	SetTypeOf(meta, TypeOfDiffMarker+"/"+kind)
	return meta
}

// TextContent concatenates the text of all descendant text nodes.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			walk(c.FirstChild)
		}
	}
	walk(n.FirstChild)
	return b.String()
}

// OuterHTML renders n and its subtree exactly as it stands.
func OuterHTML(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Normalize merges adjacent text children and removes empty ones,
// recursively, so no two text nodes are ever siblings.
func Normalize(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
			for next != nil && next.Type == html.TextNode {
				c.Data += next.Data
				after := next.NextSibling
				n.RemoveChild(next)
				next = after
			}
			if c.Data == "" {
				n.RemoveChild(c)
			}
		case html.ElementNode:
			Normalize(c)
		}
		c = next
	}
}

// HasContentChildren reports whether n has any child other than diff markers.
func HasContentChildren(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !IsDiffMarker(c) {
			return true
		}
	}
	return false
}

// Walk calls fn for n and every descendant in document order.
// Returning false from fn skips the node's children.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// CountTypeOf returns the number of elements under root carrying typeOf.
func CountTypeOf(root *html.Node, typeOf string) int {
	count := 0
	Walk(root, func(n *html.Node) bool {
		if HasTypeOf(n, typeOf) {
			count++
		}
		return true
	})
	return count
}
