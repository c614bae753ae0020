package bookbinder

import "errors"

// Sentinel errors returned by build operations. Every failure is fatal to
// the current invocation; callers classify with errors.Is.
var (
	// ErrManifest is returned when the order manifest is malformed or
	// structurally incomplete.
	ErrManifest = errors.New("invalid order manifest")

	// ErrMissingFile is returned when one or more referenced source files
	// do not exist. The message names every missing path.
	ErrMissingFile = errors.New("referenced file not found")

	// ErrConfig is returned when a given config file is unreadable or not
	// valid JSON.
	ErrConfig = errors.New("invalid config file")

	// ErrRender is returned when a markdown file fails to convert to PDF.
	ErrRender = errors.New("markdown render failed")

	// ErrMerge is returned when combining ready PDFs into the final book
	// fails.
	ErrMerge = errors.New("pdf merge failed")
)
