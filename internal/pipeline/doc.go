// Package pipeline implements the wikitext-to-HTML and HTML-to-wikitext
// passes around the extension tags.
//
// This package handles:
//   - Wikitext preprocessing (line ending normalization)
//   - Tokenizing wikitext into an annotated document, handing extension
//     tags such as <nowiki> to their extension
//   - Serializing a document back to wikitext, dispatching typed nodes to
//     their extension's handler
//   - Wrapping a rendered fragment in a standalone HTML document
//
// Extension semantics live in internal/ext and its subpackages; this package
// only finds the tags and walks the tree.
package pipeline
