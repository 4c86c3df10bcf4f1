package service

import "errors"

var (
	// ErrNotConfigured is returned when the service is started without a host.
	ErrNotConfigured = errors.New("service not configured")
	// ErrStatusProbe is returned when the scoring service cannot be reached at start.
	ErrStatusProbe = errors.New("scoring service unreachable")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("service already started")
)
