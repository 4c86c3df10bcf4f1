//go:build windows && (386 || amd64)

package main

import "C"

import (
	"context"
	"os"

	"github.com/okian/takure/internal/adapters/avs"
	service "github.com/okian/takure/internal/app"
	"github.com/okian/takure/internal/config"
)

// hook_init is called by the game loader with its configuration node.
//
//export hook_init
func hook_init(ea3 uintptr) int32 {
	ctx := context.Background()
	return entry(ctx, "hook_init", func() error {
		host, err := service.OpenNativeHost()
		if err != nil {
			_, _ = os.Stderr.WriteString("takure: " + err.Error() + "\n")
			return err
		}
		return hookModule.boot(ctx, os.Stdout, config.DefaultPath, host, host.Tree(0), avs.Node(ea3))
	})
}

// hook_release is called by the game loader before unloading the library.
//
//export hook_release
func hook_release() int32 {
	ctx := context.Background()
	return entry(ctx, "hook_release", func() error {
		hookModule.release(ctx)
		return nil
	})
}
