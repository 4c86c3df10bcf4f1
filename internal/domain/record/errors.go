package record

import "errors"

// Sentinel kinds for payload decode errors.
var (
	ErrDecode            = errors.New("decode score payload")
	ErrUnknownGeneration = errors.New("unknown schema generation")
)
