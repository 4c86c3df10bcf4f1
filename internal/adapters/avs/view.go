package avs

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// View is a fixed-capacity buffer filled by the host. The host only ever
// sees the backing slice, so reads past the capacity cannot happen.
type View struct {
	buf []byte
	n   int
}

// NewView allocates a zeroed buffer with the given capacity.
func NewView(capacity int) *View {
	if capacity < 0 {
		capacity = 0
	}
	return &View{buf: make([]byte, capacity)}
}

// Buffer exposes the backing storage for the host to write into.
func (v *View) Buffer() []byte { return v.buf }

// Cap returns the buffer capacity.
func (v *View) Cap() int { return len(v.buf) }

// Len returns the number of bytes the host reported writing.
func (v *View) Len() int { return v.n }

// Bytes returns the reported bytes.
func (v *View) Bytes() []byte { return v.buf[:v.n] }

// commit records the host result code for a read into the view.
func (v *View) commit(code int32) error {
	switch {
	case code < 0:
		return fmt.Errorf("%w: host code %d", ErrRead, code)
	case int(code) > len(v.buf):
		return fmt.Errorf("%w: host reported %d bytes into %d", ErrSize, code, len(v.buf))
	}
	v.n = int(code)
	return nil
}

// Text interprets the first width bytes as a NUL-padded string.
func (v *View) Text(width int) (string, error) {
	if width > len(v.buf) || width < 0 {
		width = len(v.buf)
	}
	raw := v.buf[:width]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if !utf8.Valid(raw) {
		return "", ErrEncoding
	}
	return string(raw), nil
}
