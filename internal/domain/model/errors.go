package model

import "errors"

// Sentinel kinds for decode errors on enum codes.
var (
	ErrUnknownDifficulty = errors.New("unknown difficulty code")
	ErrUnknownPlayStyle  = errors.New("unknown play style code")
	ErrUnknownValue      = errors.New("unknown enum value")
)
