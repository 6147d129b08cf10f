package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrNotFound indicates a named marker was not present in the index.
	ErrNotFound = errors.New("format: not found")
	// ErrEmptyTag indicates a lookup was attempted with a zero-length marker.
	ErrEmptyTag = errors.New("format: empty tag")
	// ErrEmptyPayload indicates a record whose stored length leaves no pixel data.
	ErrEmptyPayload = errors.New("format: empty payload")
	// ErrZeroDimension indicates a record that resolves to a zero width or height.
	ErrZeroDimension = errors.New("format: zero image dimension")
)
