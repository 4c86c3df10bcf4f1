package hook

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// Jump sizes per address width.
const (
	jumpRel32Size = 5
	jumpAbs64Size = 14
)

// jumpSize returns the patch size needed for mode (32 or 64).
func jumpSize(mode int) int {
	if mode == 64 {
		return jumpAbs64Size
	}
	return jumpRel32Size
}

// encodeJump returns an unconditional jump placed at from that lands on to.
// 32-bit code uses a relative jump; 64-bit code an indirect absolute one.
func encodeJump(mode int, from, to uintptr) []byte {
	if mode == 64 {
		b := make([]byte, jumpAbs64Size)
		b[0], b[1] = 0xFF, 0x25
		binary.LittleEndian.PutUint64(b[6:], uint64(to))
		return b
	}
	b := make([]byte, jumpRel32Size)
	b[0] = 0xE9
	binary.LittleEndian.PutUint32(b[1:], uint32(to-(from+jumpRel32Size)))
	return b
}

// stealLength decodes whole instructions from the start of code until at
// least need bytes are covered. Instructions whose meaning depends on
// their address cannot be moved and are rejected.
func stealLength(code []byte, mode, need int) (int, error) {
	n := 0
	for n < need {
		if n >= len(code) {
			return 0, fmt.Errorf("%w: ran out of bytes at offset %d", ErrPrologue, n)
		}
		inst, err := x86asm.Decode(code[n:], mode)
		if err != nil {
			return 0, fmt.Errorf("%w: offset %d: %v", ErrPrologue, n, err)
		}
		if !relocatable(inst) {
			return 0, fmt.Errorf("%w: offset %d: %s", ErrPrologue, n, inst.Op)
		}
		n += inst.Len
	}
	return n, nil
}

func relocatable(inst x86asm.Inst) bool {
	if inst.PCRel != 0 {
		return false
	}
	switch inst.Op {
	case x86asm.RET, x86asm.LRET, x86asm.INT, x86asm.UD2:
		return false
	}
	for _, arg := range inst.Args {
		switch a := arg.(type) {
		case x86asm.Rel:
			return false
		case x86asm.Mem:
			if a.Base == x86asm.RIP || a.Base == x86asm.EIP {
				return false
			}
		}
	}
	return true
}

// trampoline builds the relocated prologue followed by a jump back into
// the target just past the stolen bytes.
func trampoline(mode int, at, target uintptr, stolen []byte) []byte {
	code := make([]byte, 0, len(stolen)+jumpAbs64Size)
	code = append(code, stolen...)
	back := encodeJump(mode, at+uintptr(len(stolen)), target+uintptr(len(stolen)))
	return append(code, back...)
}
