// Package nowiki converts wikitext to annotated HTML and back, preserving
// <nowiki> regions and the exact spelling of character references.
//
// # Quick Start
//
// Create a converter and convert in either direction:
//
//	conv, err := nowiki.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := conv.ToHTML(ctx, "a <nowiki>''b'' &amp; c</nowiki>")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.HTML)
//
//	wt, err := conv.ToWikitext(ctx, res.HTML)
//
// # Document Model
//
// A <nowiki> region becomes <span typeof="mw:Nowiki">. Inside it, text is
// literal, except that each recognized character reference (&amp;, &#38;,
// &#x26;) becomes <span typeof="mw:Entity"> holding the decoded character.
// The original spelling is kept in the span's data-parsoid attribute, so
// "&#38;" is written back as "&#38;" and not as "&amp;". Entity-shaped text
// that does not decode (&notareal;) stays literal text.
//
// On the way back, text inside a region is escaped only where it would
// otherwise end the region early ("</nowiki>"), and an empty region is
// written as <nowiki/>.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := nowiki.NewConverter(
//	    nowiki.WithLogger(logger),
//	    nowiki.WithPage(&nowiki.Page{Title: "Main Page", Language: "he"}),
//	    nowiki.WithStandalone(true),
//	)
//
// Pages whose content model is not wikitext (json, css, javascript, text)
// are converted as a single block of text.
//
// # Events
//
// Conversions emit capitan signals (SignalToHTMLComplete,
// SignalToWikitextComplete, SignalRoundTripComplete) with typed fields for
// observability.
//
// # Concurrency
//
// A Converter is safe for concurrent use. Each call builds its own document
// and serializer state.
package nowiki
