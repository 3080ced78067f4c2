package main

import (
	"errors"
	"os"

	"github.com/alnah/go-nowiki"
	"github.com/alnah/go-nowiki/internal/config"
	"github.com/alnah/go-nowiki/internal/fileutil"
)

// Exit codes for the nowiki CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or page metadata
	ExitIO        = 3 // File not found, permission denied
	ExitRoundTrip = 4 // Round trip changed the wikitext
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Round-trip mismatches (exit 4)
	if errors.Is(err, nowiki.ErrRoundTripMismatch) {
		return ExitRoundTrip
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, nowiki.ErrInvalidPage) ||
		errors.Is(err, nowiki.ErrStyleNotFound) ||
		errors.Is(err, nowiki.ErrTemplateNotFound) ||
		errors.Is(err, nowiki.ErrInvalidTemplate) ||
		errors.Is(err, nowiki.ErrInvalidAssetPath) ||
		errors.Is(err, nowiki.ErrInvalidAssetName) ||
		errors.Is(err, fileutil.ErrExtensionPathTraversal) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
