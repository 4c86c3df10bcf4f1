package avs

import (
	"bytes"
	"fmt"
)

// Default read widths used when reading from the host.
const (
	NameBufferSize = 256
	NameWidth      = 32
	MethodWidth    = 21
	CardIDWidth    = 32
)

// Navigator performs bounded reads against a borrowed Tree.
type Navigator struct {
	tree Tree
}

// NewNavigator wraps tree.
func NewNavigator(tree Tree) *Navigator {
	return &Navigator{tree: tree}
}

// Tree returns the wrapped tree.
func (n *Navigator) Tree() Tree { return n.tree }

// Find resolves path below root, or from the tree root when root is nil.
// A miss is reported, not treated as an error.
func (n *Navigator) Find(root Node, path string) (Node, bool) {
	node := n.tree.Search(root, path)
	return node, !node.IsNil()
}

// ClearError resets the tree error state left behind by failed searches.
func (n *Navigator) ClearError() {
	n.tree.ClearError()
}

// Name returns the node's name.
func (n *Navigator) Name(node Node) (string, error) {
	v := NewView(NameBufferSize)
	if err := v.commit(n.tree.NodeName(node, v.Buffer())); err != nil {
		return "", fmt.Errorf("node name: %w", err)
	}
	return v.Text(NameWidth)
}

// ReadAttribute reads the attribute name (given with its trailing "@") of
// node and keeps at most width bytes of it.
func (n *Navigator) ReadAttribute(node Node, name string, width int) (string, error) {
	v, err := n.ReadValue(node, name, NodeAttr, NameBufferSize)
	if err != nil {
		return "", err
	}
	return v.Text(width)
}

// ReadValue reads up to size bytes of the value at path below node.
func (n *Navigator) ReadValue(node Node, path string, t NodeType, size int) (*View, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: read of %d bytes", ErrSize, size)
	}
	v := NewView(size)
	if err := v.commit(n.tree.NodeRefer(node, path, t, v.Buffer())); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return v, nil
}

// ReadString reads a string value of at most width bytes at path below
// node. One extra byte is reserved for the host's terminator.
func (n *Navigator) ReadString(node Node, path string, width int) (string, error) {
	v, err := n.ReadValue(node, path, NodeStr, width+1)
	if err != nil {
		return "", err
	}
	return v.Text(width)
}

// Snapshot serializes the whole tree as JSON. The tree is switched to
// JSON output for the duration of the call and always switched back.
func (n *Navigator) Snapshot() ([]byte, error) {
	n.tree.SetFlag(FlagJSON, FlagBinary)
	defer n.tree.SetFlag(FlagBinary, FlagJSON)

	size := n.tree.QuerySize()
	if size <= 0 {
		return nil, fmt.Errorf("snapshot: %w: size %d", ErrSize, size)
	}
	v := NewView(int(size))
	if err := v.commit(n.tree.MemWrite(v.Buffer())); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return bytes.TrimRight(v.Bytes(), "\x00"), nil
}
