package hook

import "golang.org/x/sys/windows"

const addressBits = 32

// The host exports use the C calling convention on 32-bit builds.
func newCallback(fn func(arg uintptr) uintptr) uintptr {
	return windows.NewCallbackCDecl(fn)
}
