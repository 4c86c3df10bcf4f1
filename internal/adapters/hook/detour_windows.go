//go:build windows && (386 || amd64)

package hook

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// prologueWindow is how much of the target is read for decoding: the
// largest patch plus one maximum-length instruction.
const prologueWindow = jumpAbs64Size + 15

var procFlushInstructionCache = windows.NewLazySystemDLL("kernel32.dll").NewProc("FlushInstructionCache")

// Detour is an inline patch at the start of a native function.
type Detour struct {
	mu         sync.Mutex
	target     uintptr
	mode       int
	callback   uintptr
	entry      Entry
	trampoline uintptr
	saved      []byte
	installed  bool
}

var _ Point = (*Detour)(nil)

// NewDetour prepares a patch of the function at target.
func NewDetour(target uintptr) *Detour {
	return &Detour{target: target, mode: addressBits}
}

// Install implements Point.
func (d *Detour) Install(entry Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.installed {
		return nil
	}
	d.entry = entry
	if d.callback == 0 {
		d.callback = newCallback(func(arg uintptr) uintptr {
			return uintptr(d.dispatch(arg))
		})
	}
	if d.trampoline == 0 {
		if err := d.relocate(); err != nil {
			return err
		}
	}
	if err := writeCode(d.target, encodeJump(d.mode, d.target, d.callback)); err != nil {
		return fmt.Errorf("patch target: %w", err)
	}
	d.installed = true
	return nil
}

func (d *Detour) relocate() error {
	code := unsafe.Slice((*byte)(unsafe.Pointer(d.target)), prologueWindow)
	n, err := stealLength(code, d.mode, jumpSize(d.mode))
	if err != nil {
		return err
	}
	d.saved = append([]byte(nil), code[:n]...)

	size := uintptr(n + jumpAbs64Size)
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
	if err != nil {
		return fmt.Errorf("allocate trampoline: %w", err)
	}
	body := trampoline(d.mode, addr, d.target, d.saved)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(body)), body)
	flushInstructionCache(addr, uintptr(len(body)))
	d.trampoline = addr
	return nil
}

func (d *Detour) dispatch(arg uintptr) int32 {
	d.mu.Lock()
	entry := d.entry
	d.mu.Unlock()
	if entry == nil {
		return d.CallOriginal(arg)
	}
	return entry(arg)
}

// Remove implements Point. The trampoline stays allocated because a
// diverted call may still be running through it.
func (d *Detour) Remove() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.installed {
		return nil
	}
	if err := writeCode(d.target, d.saved); err != nil {
		return fmt.Errorf("restore target: %w", err)
	}
	d.installed = false
	return nil
}

// Installed implements Point.
func (d *Detour) Installed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.installed
}

// CallOriginal implements Point.
func (d *Detour) CallOriginal(arg uintptr) int32 {
	r, _, _ := syscall.SyscallN(d.trampoline, arg)
	return int32(r)
}

func writeCode(addr uintptr, code []byte) error {
	var old uint32
	if err := windows.VirtualProtect(addr, uintptr(len(code)), windows.PAGE_EXECUTE_READWRITE, &old); err != nil {
		return err
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(code)), code)
	var ignored uint32
	if err := windows.VirtualProtect(addr, uintptr(len(code)), old, &ignored); err != nil {
		return err
	}
	flushInstructionCache(addr, uintptr(len(code)))
	return nil
}

func flushInstructionCache(addr, size uintptr) {
	_, _, _ = procFlushInstructionCache.Call(uintptr(windows.CurrentProcess()), addr, size)
}
