package avs

import "errors"

var (
	// ErrRead is returned when the host reports a failed read.
	ErrRead = errors.New("avs: read failed")
	// ErrSize is returned when a read or snapshot reports an impossible length.
	ErrSize = errors.New("avs: invalid size")
	// ErrEncoding is returned when text read from the host is not valid UTF-8.
	ErrEncoding = errors.New("avs: invalid text encoding")
	// ErrUnsupportedArch is returned when no symbol table exists for an architecture.
	ErrUnsupportedArch = errors.New("avs: unsupported architecture")
	// ErrUnresolved is returned when a host entry point cannot be located.
	ErrUnresolved = errors.New("avs: unresolved symbol")
)
