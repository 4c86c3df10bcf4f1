// Package hook diverts a single host entry point into Go and guarantees
// that the diverted call still reaches the host's own implementation.
package hook

// Entry receives a diverted call and returns the host's result.
type Entry func(arg uintptr) int32

// Point is one interception site.
type Point interface {
	// Install routes calls of the site into entry.
	Install(entry Entry) error
	// Remove restores the site.
	Remove() error
	// Installed reports whether calls are currently routed.
	Installed() bool
	// CallOriginal runs the host's implementation, bypassing the route.
	CallOriginal(arg uintptr) int32
}
