package scoring

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrNoQualifyingNote = errors.New("no note with a nonzero stage number")
	ErrNotEligible      = errors.New("record not eligible for import")
)
