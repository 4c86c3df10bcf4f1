// Package avs reads the host's property trees.
//
// The host owns every tree. A Tree borrows one for the duration of an
// intercepted call and must not be retained afterwards.
package avs

// Node is an opaque handle to a node inside a host tree. Zero is nil.
type Node uintptr

// IsNil reports whether the handle refers to no node.
func (n Node) IsNil() bool { return n == 0 }

// Format flags toggled around a snapshot.
const (
	FlagBinary uint32 = 0x008
	FlagJSON   uint32 = 0x800
)

// Tree is the subset of the host property API the hook needs. Results
// mirror the host: non-negative counts on success, negative codes on
// failure.
type Tree interface {
	// Search resolves path below node, or from the root when node is nil.
	Search(node Node, path string) Node
	// NodeName writes the node's name into buf.
	NodeName(node Node, buf []byte) int32
	// NodeRefer reads the value at path below node as type t into buf.
	NodeRefer(node Node, path string, t NodeType, buf []byte) int32
	// SetFlag sets and clears tree flags and returns the previous flags.
	SetFlag(set, clear uint32) uint32
	// QuerySize returns the serialized size of the tree.
	QuerySize() int32
	// MemWrite serializes the tree into buf.
	MemWrite(buf []byte) int32
	// ClearError resets the tree's sticky error state.
	ClearError()
}
