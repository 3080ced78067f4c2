package dom

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// ---------------------------------------------------------------------------
// Document data bag
// ---------------------------------------------------------------------------

func TestDocument_DataParsoid(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	span := NewElement("span")

	if dp := doc.DataParsoid(span); dp != nil {
		t.Fatalf("DataParsoid() on fresh node = %+v, want nil", dp)
	}

	doc.SetDataParsoid(span, &DataParsoid{Src: "&amp;", SrcContent: "&"})
	got := doc.DataParsoid(span)
	if got == nil || got.Src != "&amp;" || got.SrcContent != "&" {
		t.Errorf("DataParsoid() = %+v, want src=&amp; srcContent=&", got)
	}

	if doc.Data(span) != doc.Data(span) {
		t.Error("Data() should return the same record on every call")
	}
}

func TestDocument_NewEntity(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	n := doc.NewEntity("&lt;", "<")

	if n.Data != "span" || !HasTypeOf(n, TypeOfEntity) {
		t.Fatalf("NewEntity() = <%s typeof=%q>, want span typed %s", n.Data, TypeOf(n), TypeOfEntity)
	}
	if got := TextContent(n); got != "<" {
		t.Errorf("TextContent() = %q, want %q", got, "<")
	}
	if dp := doc.DataParsoid(n); dp == nil || dp.Src != "&lt;" {
		t.Errorf("DataParsoid() = %+v, want src=&lt;", dp)
	}
}

// ---------------------------------------------------------------------------
// Node helpers
// ---------------------------------------------------------------------------

func TestHasTypeOf(t *testing.T) {
	t.Parallel()

	n := NewElement("span")
	SetTypeOf(n, "mw:Entity mw:Transclusion")

	if !HasTypeOf(n, "mw:Entity") || !HasTypeOf(n, "mw:Transclusion") {
		t.Error("HasTypeOf should match each space-separated value")
	}
	if HasTypeOf(n, "mw:Ent") {
		t.Error("HasTypeOf should not match a prefix")
	}
	if HasTypeOf(NewText("mw:Entity"), "mw:Entity") {
		t.Error("HasTypeOf should be false for text nodes")
	}
}

func TestIsDiffMarker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *html.Node
		want bool
	}{
		{name: "inserted marker", node: NewDiffMarker("inserted"), want: true},
		{name: "deleted marker", node: NewDiffMarker("deleted"), want: true},
		{name: "span with marker typeof", node: func() *html.Node {
			n := NewElement("span")
			SetTypeOf(n, "mw:DiffMarker/inserted")
			return n
		}(), want: false},
		{name: "meta without marker", node: NewElement("meta"), want: false},
		{name: "bare DiffMarker without kind", node: func() *html.Node {
			n := NewElement("meta")
			SetTypeOf(n, "mw:DiffMarker")
			return n
		}(), want: false},
		{name: "text", node: NewText("x"), want: false},
		{name: "nil", node: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsDiffMarker(tt.node); got != tt.want {
				t.Errorf("IsDiffMarker() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	n := NewElement("span")
	SetAttr(n, "class", "a")
	SetAttr(n, "class", "b")

	if got, _ := Attr(n, "class"); got != "b" {
		t.Errorf("Attr(class) = %q, want %q", got, "b")
	}
	if len(n.Attr) != 1 {
		t.Errorf("SetAttr should replace, got %d attributes", len(n.Attr))
	}

	RemoveAttr(n, "class")
	if _, ok := Attr(n, "class"); ok {
		t.Error("RemoveAttr did not remove the attribute")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	parent := NewElement("span")
	parent.AppendChild(NewText("a"))
	parent.AppendChild(NewText(""))
	parent.AppendChild(NewText("b"))
	child := NewElement("b")
	child.AppendChild(NewText("x"))
	child.AppendChild(NewText("y"))
	parent.AppendChild(child)
	parent.AppendChild(NewText(""))
	parent.AppendChild(NewText("c"))

	Normalize(parent)

	var kinds []string
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			kinds = append(kinds, "text:"+c.Data)
		} else {
			kinds = append(kinds, "elem:"+c.Data)
		}
	}
	want := []string{"text:ab", "elem:b", "text:c"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Errorf("children = %v, want %v", kinds, want)
	}
	if child.FirstChild != child.LastChild || child.FirstChild.Data != "xy" {
		t.Error("Normalize should recurse into element children")
	}
}

func TestNormalize_OnlyEmptyText(t *testing.T) {
	t.Parallel()

	parent := NewElement("span")
	parent.AppendChild(NewText(""))
	parent.AppendChild(NewText(""))

	Normalize(parent)

	if parent.FirstChild != nil {
		t.Error("Normalize should remove empty text nodes")
	}
}

func TestHasContentChildren(t *testing.T) {
	t.Parallel()

	n := NewElement("span")
	if HasContentChildren(n) {
		t.Error("empty node has no content children")
	}
	n.AppendChild(NewDiffMarker("deleted"))
	if HasContentChildren(n) {
		t.Error("diff markers are not content")
	}
	n.AppendChild(NewText("x"))
	if !HasContentChildren(n) {
		t.Error("text is content")
	}
}

func TestCountTypeOf(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	doc.Body.AppendChild(doc.NewEntity("&amp;", "&"))
	wrapper := NewElement("span")
	wrapper.AppendChild(doc.NewEntity("&lt;", "<"))
	doc.Body.AppendChild(wrapper)

	if got := CountTypeOf(doc.Body, TypeOfEntity); got != 2 {
		t.Errorf("CountTypeOf() = %d, want 2", got)
	}
}

// ---------------------------------------------------------------------------
// Parse / Render
// ---------------------------------------------------------------------------

func TestRenderHTML_StoresAndRestores(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	doc.Body.AppendChild(NewText("a "))
	entity := doc.NewEntity("&amp;", "&")
	doc.Body.AppendChild(entity)

	out, err := RenderHTML(doc)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}

	want := `a <span typeof="mw:Entity" data-parsoid="{&#34;src&#34;:&#34;&amp;amp;&#34;,&#34;srcContent&#34;:&#34;&amp;&#34;}">&amp;</span>`
	if out != want {
		t.Errorf("RenderHTML() =\n%s\nwant\n%s", out, want)
	}
	if _, ok := Attr(entity, AttrDataParsoid); ok {
		t.Error("RenderHTML should not leave data-parsoid on the live tree")
	}
}

func TestParseHTML_LoadsDataParsoid(t *testing.T) {
	t.Parallel()

	doc, err := ParseHTML(`x<span typeof="mw:Entity" data-parsoid='{"src":"&amp;#38;","srcContent":"&amp;"}'>&amp;</span>`)
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}

	span := doc.Body.LastChild
	if span == nil || !HasTypeOf(span, TypeOfEntity) {
		t.Fatal("expected entity span as last body child")
	}
	dp := doc.DataParsoid(span)
	if dp == nil || dp.Src != "&#38;" || dp.SrcContent != "&" {
		t.Errorf("DataParsoid() = %+v, want src=&#38; srcContent=&", dp)
	}
	if _, ok := Attr(span, AttrDataParsoid); ok {
		t.Error("ParseHTML should move data-parsoid into the side table")
	}
}

func TestParseHTML_FullDocument(t *testing.T) {
	t.Parallel()

	doc, err := ParseHTML("<!DOCTYPE html><html><head><title>t</title></head><body><p>hi</p></body></html>")
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	if doc.Body.Data != "body" {
		t.Fatalf("Body = <%s>, want <body>", doc.Body.Data)
	}
	if doc.Body.FirstChild == nil || doc.Body.FirstChild.Data != "p" {
		t.Error("expected <p> as first body child")
	}
}

func TestParseHTML_InvalidDataParsoid(t *testing.T) {
	t.Parallel()

	_, err := ParseHTML(`<span data-parsoid="{not json">x</span>`)
	if !errors.Is(err, ErrDataAttrib) {
		t.Errorf("ParseHTML() error = %v, want ErrDataAttrib", err)
	}
}

func TestParseRender_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`plain text`,
		`<span typeof="mw:Nowiki">a &lt; b</span>`,
		`<span typeof="mw:Nowiki"></span>`,
		`<span typeof="mw:Nowiki"><span typeof="mw:Entity" data-parsoid="{&#34;src&#34;:&#34;&amp;lt;&#34;,&#34;srcContent&#34;:&#34;&lt;&#34;}">&lt;</span></span>`,
	}

	for _, in := range inputs {
		doc, err := ParseHTML(in)
		if err != nil {
			t.Fatalf("ParseHTML(%q) error = %v", in, err)
		}
		out, err := RenderHTML(doc)
		if err != nil {
			t.Fatalf("RenderHTML() error = %v", err)
		}
		if out != in {
			t.Errorf("round trip:\n got %s\nwant %s", out, in)
		}
	}
}
