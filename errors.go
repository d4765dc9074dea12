package htmltable

import "errors"

// Error definitions for the `cybergodev/htmltable` package.
var (
	// ErrParse is returned when the input cannot be parsed into a document tree.
	ErrParse = errors.New("htmltable: parse error")

	// ErrNotFound is returned when a header label, row index, column index or
	// matching table does not exist.
	ErrNotFound = errors.New("htmltable: not found")

	// ErrInputTooLarge is returned when input exceeds MaxInputSize.
	ErrInputTooLarge = errors.New("htmltable: input size exceeds maximum")

	// ErrProcessorClosed is returned when operations are attempted on a closed processor.
	ErrProcessorClosed = errors.New("htmltable: processor closed")

	// ErrMaxDepthExceeded is returned when HTML nesting exceeds MaxDepth.
	ErrMaxDepthExceeded = errors.New("htmltable: max depth exceeded")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("htmltable: invalid config")

	// ErrProcessingTimeout is returned when processing exceeds ProcessingTimeout.
	ErrProcessingTimeout = errors.New("htmltable: processing timeout exceeded")

	// ErrInvalidFilePath is returned when a file path is empty.
	ErrInvalidFilePath = errors.New("htmltable: invalid file path")
)
