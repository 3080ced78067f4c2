package pipeline

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-nowiki/internal/dom"
	"github.com/alnah/go-nowiki/internal/ext"
)

// trailingNowikis matches useless <nowiki/> markers ending an output that has
// no "=" anywhere; with an "=" they may be what keeps a line from being a
// heading.
var trailingNowikis = regexp.MustCompile(`\A([^=]*?)(?:<nowiki\s*/>\s*)+\z`)

// voidElements never have a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// SerializerOption configures a Serializer.
type SerializerOption func(*Serializer)

// WithStripTrailingNowikis removes trailing <nowiki/> markers from outputs
// that contain no "=".
func WithStripTrailingNowikis(enabled bool) SerializerOption {
	return func(s *Serializer) {
		s.stripTrailing = enabled
	}
}

// Serializer turns a document back into wikitext. Nodes typed for a
// registered extension go to that extension's handler.
// Safe for concurrent use; each Serialize call has its own State.
type Serializer struct {
	registry      *ext.Registry
	logger        *zap.Logger
	stripTrailing bool
}

// Compile-time interface check.
var _ ext.NodeSerializer = (*Serializer)(nil)

// NewSerializer creates a serializer dispatching to registry.
func NewSerializer(registry *ext.Registry, logger *zap.Logger, opts ...SerializerOption) *Serializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Serializer{registry: registry, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize writes doc as wikitext and returns the finished pass state.
func (s *Serializer) Serialize(ctx context.Context, doc *dom.Document) (string, *ext.State, error) {
	var buf ext.ChunkBuffer
	state, err := s.SerializeTo(ctx, doc, &buf)
	if err != nil {
		return "", nil, err
	}

	out := buf.String()
	if s.stripTrailing && state.HasSelfClosingNowikis() {
		out = trailingNowikis.ReplaceAllString(out, "${1}")
	}
	return out, state, nil
}

// SerializeTo writes doc's chunks to sink.
func (s *Serializer) SerializeTo(ctx context.Context, doc *dom.Document, sink ext.Sink) (*ext.State, error) {
	start := time.Now()
	state := ext.NewState(ctx, doc, s, sink, s.logger)

	for c := doc.Body.FirstChild; c != nil; c = c.NextSibling {
		if err := state.SerializeNode(c); err != nil {
			return nil, err
		}
	}

	state.Logger.Debug("serialized",
		zap.Bool("self_closing_nowikis", state.HasSelfClosingNowikis()),
		zap.Duration("duration", time.Since(start)))
	return state, nil
}

// SerializeNode writes one node and its subtree.
func (s *Serializer) SerializeNode(node *html.Node, state *ext.State) error {
	switch node.Type {
	case html.TextNode:
		state.EmitChunk(node.Data, node)
	case html.CommentNode:
		state.EmitChunk("<!--"+node.Data+"-->", node)
	case html.DocumentNode:
		return s.serializeChildren(node, state)
	case html.ElementNode:
		return s.serializeElement(node, state)
	}
	return nil
}

func (s *Serializer) serializeElement(node *html.Node, state *ext.State) error {
	switch {
	case dom.IsDiffMarker(node):
		return nil
	case node.Data == "span" && dom.HasTypeOf(node, dom.TypeOfEntity):
		s.serializeEntity(node, state)
		return nil
	}

	if h, ok := s.registry.SerialHandlerFor(node); ok {
		return h.Handle(node, state)
	}

	// Plain HTML passes through as HTML, with its children serialized.
	state.EmitChunk(openTag(node), node)
	if voidElements[node.Data] {
		return nil
	}
	if err := s.serializeChildren(node, state); err != nil {
		return err
	}
	state.EmitChunk("</"+node.Data+">", node)
	return nil
}

func (s *Serializer) serializeChildren(node *html.Node, state *ext.State) error {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if err := state.SerializeNode(c); err != nil {
			return err
		}
	}
	return nil
}

// serializeEntity writes the reference as originally spelled, unless the
// span's text changed since it was parsed.
func (s *Serializer) serializeEntity(node *html.Node, state *ext.State) {
	text := dom.TextContent(node)
	if state.Doc != nil {
		if dp := state.Doc.DataParsoid(node); dp != nil && dp.Src != "" && dp.SrcContent == text {
			state.EmitChunk(dp.Src, node)
			return
		}
	}
	state.EmitChunk(text, node)
}

// openTag renders <name attrs> for node.
func openTag(node *html.Node) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(node.Data)
	for _, a := range node.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace)
			b.WriteByte(':')
		}
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}
