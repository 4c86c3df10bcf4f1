package version

import "errors"

// Sentinel kinds for version errors.
var (
	ErrUnsupported = errors.New("unsupported game version")
	ErrUnreadable  = errors.New("game version unreadable")
)
