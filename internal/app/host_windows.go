//go:build windows && (386 || amd64)

package service

import (
	"fmt"

	"github.com/okian/takure/internal/adapters/avs"
	"github.com/okian/takure/internal/adapters/hook"
)

// NativeHost resolves the property API of the running game.
type NativeHost struct {
	lib *avs.Library
}

// OpenNativeHost resolves the property API for the current architecture.
func OpenNativeHost() (*NativeHost, error) {
	table, err := avs.CurrentSymbols()
	if err != nil {
		return nil, err
	}
	lib, err := avs.Open(table)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", table.Library, err)
	}
	return &NativeHost{lib: lib}, nil
}

// Tree implements Host.
func (h *NativeHost) Tree(prop uintptr) avs.Tree {
	return h.lib.Tree(prop)
}

// Point implements Host.
func (h *NativeHost) Point() (hook.Point, error) {
	addr, err := h.lib.Addr(avs.FuncDestroy)
	if err != nil {
		return nil, err
	}
	return hook.NewDetour(addr), nil
}
