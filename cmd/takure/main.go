// Command takure builds the score hook as a shared library loaded by the
// game. The exported entry points live in exports_windows.go.
package main

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"sync"

	"github.com/okian/takure/internal/adapters/avs"
	service "github.com/okian/takure/internal/app"
	"github.com/okian/takure/internal/config"
	"github.com/okian/takure/pkg/logger"
)

func main() {}

// module holds the single hook instance of the process.
type module struct {
	mu  sync.Mutex
	svc *service.Service
}

var hookModule module

// boot loads configuration, sets up logging and starts the hook. The
// configuration tree is read through ea3 starting at root.
func (m *module) boot(ctx context.Context, sink io.Writer, path string, host service.Host, ea3 avs.Tree, root avs.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.svc != nil {
		return nil
	}

	if err := logger.InitWithWriter(sink); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get().Named("takure")

	cfg, err := config.Load(ctx, path)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return err
	}
	if err := logger.SetLevelString(cfg.General.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.General.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := service.New(cfg, host, service.WithLogger(log))
	if err != nil {
		log.Error(ctx, "failed to create hook", logger.Error(err))
		return err
	}
	if err := svc.Start(ctx, ea3, root); err != nil {
		log.Error(ctx, "failed to start hook", logger.Error(err))
		return err
	}
	m.svc = svc
	return nil
}

// release stops the hook if it was started.
func (m *module) release(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.svc == nil {
		return
	}
	m.svc.Stop(ctx)
	m.svc = nil
	_ = logger.Sync()
}

// entry runs the body of an exported entry point and converts its outcome
// into the status code the loader expects. A panic must not reach the host.
func entry(ctx context.Context, name string, fn func() error) (rc int32) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Named("takure").Error(ctx, "recovered from entry point panic",
				logger.String("entry", name),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())))
			rc = -1
		}
	}()
	if err := fn(); err != nil {
		return -1
	}
	return 0
}
