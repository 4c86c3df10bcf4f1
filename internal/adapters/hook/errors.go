package hook

import "errors"

var (
	// ErrInstall is returned when the interception point cannot be enabled.
	ErrInstall = errors.New("hook: install failed")
	// ErrRemove is returned when the interception point cannot be disabled.
	ErrRemove = errors.New("hook: remove failed")
	// ErrPrologue is returned when a target's first instructions cannot be relocated.
	ErrPrologue = errors.New("hook: unrelocatable prologue")
)
