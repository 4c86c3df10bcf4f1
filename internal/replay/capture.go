// Package replay runs captured property snapshots through the same
// decode, gate and submission path the hook uses in the game.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// maxCaptureSize bounds a single decompressed capture.
const maxCaptureSize = 16 << 20

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// ErrCapture is returned when a capture cannot be read.
var ErrCapture = errors.New("replay: unreadable capture")

// ReadCapture reads a snapshot file. Files ending in .zst, or starting
// with the zstd frame magic, are decompressed.
func ReadCapture(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	defer f.Close()
	return decodeCapture(f, strings.EqualFold(filepath.Ext(path), ".zst"))
}

func decodeCapture(r io.Reader, compressed bool) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxCaptureSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	if compressed || bytes.HasPrefix(raw, zstdMagic) {
		dec, err := zstd.NewReader(bytes.NewReader(raw), zstd.WithDecoderMaxMemory(maxCaptureSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCapture, err)
		}
		defer dec.Close()
		raw, err = io.ReadAll(io.LimitReader(dec, maxCaptureSize+1))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCapture, err)
		}
	}
	if len(raw) > maxCaptureSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrCapture, maxCaptureSize)
	}
	return bytes.TrimRight(raw, "\x00\r\n "), nil
}
