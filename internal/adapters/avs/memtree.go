package avs

import (
	"strings"
	"sync"
)

// MemTree is an in-memory Tree. It backs replays of captured payloads
// and tests; its failure codes follow the host's conventions.
type MemTree struct {
	mu      sync.Mutex
	nodes   []*memNode
	payload []byte
	flags   uint32
	errored bool
	writes  int
}

type memNode struct {
	name     string
	value    string
	attrs    map[string]string
	children map[string]Node
}

var _ Tree = (*MemTree)(nil)

// NewMemTree returns an empty tree in binary mode.
func NewMemTree() *MemTree {
	t := &MemTree{flags: FlagBinary}
	t.nodes = append(t.nodes, newMemNode(""))
	return t
}

func newMemNode(name string) *memNode {
	return &memNode{name: name, attrs: map[string]string{}, children: map[string]Node{}}
}

func (t *MemTree) root() Node { return 1 }

func (t *MemTree) node(n Node) *memNode {
	if n.IsNil() || int(n) > len(t.nodes) {
		return nil
	}
	return t.nodes[n-1]
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Add creates every missing node along path and returns the last one.
func (t *MemTree) Add(path string) Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.root()
	for _, part := range splitPath(path) {
		next, ok := t.node(cur).children[part]
		if !ok {
			t.nodes = append(t.nodes, newMemNode(part))
			next = Node(len(t.nodes))
			t.node(cur).children[part] = next
		}
		cur = next
	}
	return cur
}

// SetValue stores a string value at path, creating nodes as needed.
func (t *MemTree) SetValue(path, value string) {
	n := t.Add(path)
	t.mu.Lock()
	t.node(n).value = value
	t.mu.Unlock()
}

// SetAttr stores an attribute on node. name excludes the "@" suffix.
func (t *MemTree) SetAttr(n Node, name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m := t.node(n); m != nil {
		m.attrs[name] = value
	}
}

// SetPayload sets the JSON document produced by MemWrite.
func (t *MemTree) SetPayload(payload []byte) {
	t.mu.Lock()
	t.payload = append([]byte(nil), payload...)
	t.mu.Unlock()
}

// Flags returns the current format flags.
func (t *MemTree) Flags() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flags
}

// Errored reports whether a failed search left the error state set.
func (t *MemTree) Errored() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errored
}

// Writes returns how many times the tree was serialized.
func (t *MemTree) Writes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writes
}

func (t *MemTree) resolve(start Node, parts []string) Node {
	cur := start
	if cur.IsNil() {
		cur = t.root()
	}
	for _, part := range parts {
		m := t.node(cur)
		if m == nil {
			return 0
		}
		next, ok := m.children[part]
		if !ok {
			return 0
		}
		cur = next
	}
	return cur
}

// Search implements Tree.
func (t *MemTree) Search(n Node, path string) Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	found := t.resolve(n, splitPath(path))
	if found.IsNil() {
		t.errored = true
	}
	return found
}

// NodeName implements Tree.
func (t *MemTree) NodeName(n Node, buf []byte) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := t.node(n)
	if m == nil {
		return -1
	}
	return int32(copy(buf, m.name))
}

// NodeRefer implements Tree. Attribute paths end in "@".
func (t *MemTree) NodeRefer(n Node, path string, typ NodeType, buf []byte) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	parts := splitPath(path)
	if len(parts) == 0 {
		return -1
	}
	last := parts[len(parts)-1]
	if typ == NodeAttr {
		if !strings.HasSuffix(last, "@") {
			return -1
		}
		m := t.node(t.resolve(n, parts[:len(parts)-1]))
		if m == nil {
			return -1
		}
		v, ok := m.attrs[strings.TrimSuffix(last, "@")]
		if !ok {
			return -1
		}
		return int32(copy(buf, v))
	}
	m := t.node(t.resolve(n, parts))
	if m == nil {
		return -1
	}
	return int32(copy(buf, m.value))
}

// SetFlag implements Tree.
func (t *MemTree) SetFlag(set, clear uint32) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev := t.flags
	t.flags = (t.flags | set) &^ clear
	return prev
}

// QuerySize implements Tree. Only JSON output has a known size.
func (t *MemTree) QuerySize() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.flags&FlagJSON == 0 {
		return -1
	}
	return int32(len(t.payload))
}

// MemWrite implements Tree.
func (t *MemTree) MemWrite(buf []byte) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.flags&FlagJSON == 0 || len(buf) < len(t.payload) {
		return -1
	}
	t.writes++
	return int32(copy(buf, t.payload))
}

// ClearError implements Tree.
func (t *MemTree) ClearError() {
	t.mu.Lock()
	t.errored = false
	t.mu.Unlock()
}
