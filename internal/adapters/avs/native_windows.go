//go:build windows

package avs

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Library is the host property API resolved from the loaded avs module.
type Library struct {
	table SymbolTable
	dll   *windows.LazyDLL
	procs map[Func]*windows.LazyProc
}

// Open resolves every entry point in table. The module is expected to be
// loaded by the host already.
func Open(table SymbolTable) (*Library, error) {
	l := &Library{
		table: table,
		dll:   windows.NewLazyDLL(table.Library),
		procs: make(map[Func]*windows.LazyProc, len(table.Symbols)),
	}
	for f, sym := range table.Symbols {
		p := l.dll.NewProc(sym)
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("%w: %s (%s): %v", ErrUnresolved, f, sym, err)
		}
		l.procs[f] = p
	}
	return l, nil
}

// Addr returns the entry point address of f.
func (l *Library) Addr(f Func) (uintptr, error) {
	p, ok := l.procs[f]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnresolved, f)
	}
	return p.Addr(), nil
}

// Tree borrows the host property at prop. A zero prop is valid for
// node-relative reads such as the configuration tree.
func (l *Library) Tree(prop uintptr) Tree {
	return &nativeTree{lib: l, prop: prop}
}

type nativeTree struct {
	lib  *Library
	prop uintptr
}

func (t *nativeTree) call(f Func, args ...uintptr) uintptr {
	r, _, _ := t.lib.procs[f].Call(args...)
	return r
}

func bufferArgs(buf []byte) (uintptr, uintptr) {
	if len(buf) == 0 {
		return 0, 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf))
}

func (t *nativeTree) Search(node Node, path string) Node {
	p, err := windows.BytePtrFromString(path)
	if err != nil {
		return 0
	}
	r := t.call(FuncSearch, t.prop, uintptr(node), uintptr(unsafe.Pointer(p)))
	runtime.KeepAlive(p)
	return Node(r)
}

func (t *nativeTree) NodeName(node Node, buf []byte) int32 {
	ptr, n := bufferArgs(buf)
	r := t.call(FuncNodeName, uintptr(node), ptr, n)
	runtime.KeepAlive(buf)
	return int32(r)
}

func (t *nativeTree) NodeRefer(node Node, path string, typ NodeType, buf []byte) int32 {
	p, err := windows.BytePtrFromString(path)
	if err != nil {
		return -1
	}
	ptr, n := bufferArgs(buf)
	r := t.call(FuncNodeRefer, t.prop, uintptr(node), uintptr(unsafe.Pointer(p)), uintptr(typ), ptr, n)
	runtime.KeepAlive(p)
	runtime.KeepAlive(buf)
	return int32(r)
}

func (t *nativeTree) SetFlag(set, clear uint32) uint32 {
	return uint32(t.call(FuncSetFlag, t.prop, uintptr(set), uintptr(clear)))
}

func (t *nativeTree) QuerySize() int32 {
	return int32(t.call(FuncQuerySize, t.prop))
}

func (t *nativeTree) MemWrite(buf []byte) int32 {
	ptr, n := bufferArgs(buf)
	r := t.call(FuncMemWrite, t.prop, ptr, n)
	runtime.KeepAlive(buf)
	return int32(r)
}

func (t *nativeTree) ClearError() {
	t.call(FuncClearError, t.prop)
}
