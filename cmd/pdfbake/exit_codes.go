package main

import (
	"errors"

	pdfbake "github.com/pdfbake/pdfbake"
)

// Exit codes for the pdfbake CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0 // All documents processed
	ExitFailure = 1 // One or more documents failed
	ExitUsage   = 2 // Invalid invocation, config or document selection
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must wrap with
// fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, pdfbake.ErrDocumentNotFound) ||
		errors.Is(err, pdfbake.ErrConfigNotFound) ||
		errors.Is(err, pdfbake.ErrMissingDocuments) {
		return ExitUsage
	}

	return ExitFailure
}
