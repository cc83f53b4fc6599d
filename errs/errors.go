// Package errs defines the sentinel errors shared across flatkit packages.
//
// Errors fall into three groups, matching the failure modes of a flattening
// run: structure errors (malformed or non-terminating nested input),
// collision errors (two distinct nested positions rendering to one key path),
// and write errors (I/O failures while emitting the flat file). Call sites
// wrap these sentinels with fmt.Errorf("%w: ...") to add context, so callers
// can match them with errors.Is.
package errs

import "errors"

// Structure errors: the nested input cannot be flattened.
var (
	// ErrDepthExceeded is returned when traversal depth exceeds the configured
	// maximum, which is how non-terminating (cyclic) structures are detected.
	ErrDepthExceeded = errors.New("maximum traversal depth exceeded")

	// ErrUnsupportedValue is returned when an input value cannot be modeled
	// as a scalar, sequence, or mapping.
	ErrUnsupportedValue = errors.New("unsupported value type")

	// ErrInvalidKey is returned when a mapping key is not a string.
	ErrInvalidKey = errors.New("mapping key is not a string")
)

// Collision errors: two distinct source paths render to one key path.
var (
	// ErrPathCollision is returned when two distinct nested positions render
	// to the same key-path string. The wrapped message names both sources.
	ErrPathCollision = errors.New("key path collision")
)

// Write errors: the flat file cannot be emitted.
var (
	// ErrWriteFailed wraps any I/O failure from the underlying output.
	ErrWriteFailed = errors.New("flat file write failed")

	// ErrSinkClosed is returned when rows are written to a closed sink.
	ErrSinkClosed = errors.New("row sink already closed")

	// ErrHeaderNotWritten is returned when a row is written before the header.
	ErrHeaderNotWritten = errors.New("header not written")

	// ErrFieldCountMismatch is returned when a row's field count differs from
	// the header's column count.
	ErrFieldCountMismatch = errors.New("row field count does not match header")
)

// Configuration errors: invalid option values.
var (
	// ErrInvalidSeparator is returned when the key-path separator is empty.
	ErrInvalidSeparator = errors.New("invalid key path separator")

	// ErrInvalidIndexNotation is returned when the index notation template
	// does not contain the {i} placeholder.
	ErrInvalidIndexNotation = errors.New("invalid index notation template")

	// ErrInvalidDelimiter is returned when the output field delimiter is
	// empty or contains a quote or line terminator.
	ErrInvalidDelimiter = errors.New("invalid output delimiter")

	// ErrInvalidMaxDepth is returned when the maximum depth is not positive.
	ErrInvalidMaxDepth = errors.New("invalid maximum depth")
)
