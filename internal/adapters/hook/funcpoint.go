package hook

import (
	"sync"
	"sync/atomic"
)

// FuncPoint is a Point over a Go function standing in for the host
// implementation. Invoke plays the part of the host calling the site.
type FuncPoint struct {
	mu         sync.RWMutex
	original   func(arg uintptr) int32
	entry      Entry
	installErr error
	calls      atomic.Int64
}

var _ Point = (*FuncPoint)(nil)

// NewFuncPoint wraps original.
func NewFuncPoint(original func(arg uintptr) int32) *FuncPoint {
	return &FuncPoint{original: original}
}

// FailInstall makes the next installs fail with err.
func (p *FuncPoint) FailInstall(err error) {
	p.mu.Lock()
	p.installErr = err
	p.mu.Unlock()
}

// Install implements Point.
func (p *FuncPoint) Install(entry Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.installErr != nil {
		return p.installErr
	}
	p.entry = entry
	return nil
}

// Remove implements Point.
func (p *FuncPoint) Remove() error {
	p.mu.Lock()
	p.entry = nil
	p.mu.Unlock()
	return nil
}

// Installed implements Point.
func (p *FuncPoint) Installed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.entry != nil
}

// CallOriginal implements Point.
func (p *FuncPoint) CallOriginal(arg uintptr) int32 {
	p.calls.Add(1)
	return p.original(arg)
}

// Invoke calls the site the way the host would.
func (p *FuncPoint) Invoke(arg uintptr) int32 {
	p.mu.RLock()
	entry := p.entry
	p.mu.RUnlock()
	if entry == nil {
		return p.CallOriginal(arg)
	}
	return entry(arg)
}

// OriginalCalls returns how often the original function ran.
func (p *FuncPoint) OriginalCalls() int64 {
	return p.calls.Load()
}
