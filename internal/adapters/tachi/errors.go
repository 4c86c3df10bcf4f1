package tachi

import "errors"

var (
	// ErrInvalidImport is returned when an import fails schema validation.
	ErrInvalidImport = errors.New("tachi: invalid import")
	// ErrRequest is returned when a request cannot be sent or is refused.
	ErrRequest = errors.New("tachi: request failed")
	// ErrResponse is returned when a response cannot be understood.
	ErrResponse = errors.New("tachi: unexpected response")
	// ErrConfig is returned when the client is missing its endpoint.
	ErrConfig = errors.New("tachi: invalid client configuration")
)
