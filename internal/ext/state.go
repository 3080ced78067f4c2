package ext

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-nowiki/internal/dom"
)

// Chunk is one piece of serialized wikitext and the node it came from.
type Chunk struct {
	Text string
	Node *html.Node
}

// Sink receives chunks in emission order.
type Sink interface {
	Append(c Chunk)
}

// ChunkBuffer is a Sink that keeps every chunk. Not safe for concurrent use.
type ChunkBuffer struct {
	chunks []Chunk
}

// Compile-time interface check.
var _ Sink = (*ChunkBuffer)(nil)

// Append records c.
func (b *ChunkBuffer) Append(c Chunk) {
	b.chunks = append(b.chunks, c)
}

// Chunks returns the recorded chunks.
func (b *ChunkBuffer) Chunks() []Chunk {
	return b.chunks
}

// Len returns the number of recorded chunks.
func (b *ChunkBuffer) Len() int {
	return len(b.chunks)
}

// String concatenates the text of every chunk.
func (b *ChunkBuffer) String() string {
	var sb strings.Builder
	for _, c := range b.chunks {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// Reset drops all chunks, keeping capacity.
func (b *ChunkBuffer) Reset() {
	b.chunks = b.chunks[:0]
}

// NodeSerializer is the generic entry point that serializes any node,
// dispatching to extension handlers where one applies.
type NodeSerializer interface {
	SerializeNode(node *html.Node, state *State) error
}

// State is the mutable context of one serialization pass.
type State struct {
	// ID identifies the pass in logs.
	ID     string
	Doc    *dom.Document
	Logger *zap.Logger

	ctx        context.Context
	serializer NodeSerializer
	sink       Sink

	selfClosingNowikis atomic.Bool
}

// NewState starts a pass over doc that writes to sink. Nil ctx and logger
// take defaults.
func NewState(ctx context.Context, doc *dom.Document, serializer NodeSerializer, sink Sink, logger *zap.Logger) *State {
	if ctx == nil {
		ctx = context.Background()
	}
	id := uuid.NewString()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		ID:         id,
		Doc:        doc,
		Logger:     logger.With(zap.String("pass", id)),
		ctx:        ctx,
		serializer: serializer,
		sink:       sink,
	}
}

// Context returns the context the pass runs under.
func (s *State) Context() context.Context {
	return s.ctx
}

// EmitChunk appends text attributed to node. Empty text is dropped.
func (s *State) EmitChunk(text string, node *html.Node) {
	if text == "" {
		return
	}
	s.sink.Append(Chunk{Text: text, Node: node})
}

// SerializeNode serializes node through the pass's generic serializer.
func (s *State) SerializeNode(node *html.Node) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	return s.serializer.SerializeNode(node, s)
}

// MarkSelfClosingNowikis records that the pass emitted a <nowiki/>.
func (s *State) MarkSelfClosingNowikis() {
	s.selfClosingNowikis.Store(true)
}

// HasSelfClosingNowikis reports whether the pass emitted a <nowiki/>.
func (s *State) HasSelfClosingNowikis() bool {
	return s.selfClosingNowikis.Load()
}
