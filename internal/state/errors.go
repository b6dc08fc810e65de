package state

import "errors"

var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrEmptyDocument     = errors.New("document has no frames")
)
