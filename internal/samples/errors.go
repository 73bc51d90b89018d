package samples

import "errors"

var (
	// ErrIO is returned when the input can't be read or the output can't be written.
	ErrIO = errors.New("i/o failure")

	// ErrFormat is returned when the document is not an array of objects, or a timestamp doesn't follow its layout.
	ErrFormat = errors.New("invalid format")

	// ErrMissingField is returned when a record lacks a field required to filter it.
	ErrMissingField = errors.New("missing required field")
)
