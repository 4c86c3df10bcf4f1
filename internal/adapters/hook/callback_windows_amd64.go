package hook

import "golang.org/x/sys/windows"

const addressBits = 64

func newCallback(fn func(arg uintptr) uintptr) uintptr {
	return windows.NewCallback(fn)
}
