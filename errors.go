package nowiki

import "errors"

// Sentinel errors for library operations.
var (
	ErrHTMLParse         = errors.New("HTML parsing failed")
	ErrTokenize          = errors.New("wikitext tokenizing failed")
	ErrSerialize         = errors.New("wikitext serialization failed")
	ErrRoundTripMismatch = errors.New("round trip changed the wikitext")

	// Page validation errors.
	ErrInvalidPage = errors.New("invalid page")

	// Asset errors, returned by NewConverter when standalone output is on.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidTemplate  = errors.New("invalid document template")
)
