package hook

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/okian/takure/pkg/logger"
)

// Handler observes a diverted call before the host runs it.
type Handler func(ctx context.Context, arg uintptr)

// Controller owns the lifecycle of a Point and the call contract of
// every diverted call: the handler runs first, then the host's
// implementation runs exactly once whatever the handler did.
type Controller struct {
	mu      sync.Mutex
	point   Point
	handler Handler
	logger  logger.Logger
}

// NewController binds handler to point. Nothing is installed yet.
func NewController(point Point, handler Handler, opts ...Option) *Controller {
	c := &Controller{
		point:   point,
		handler: handler,
		logger:  logger.Get().Named("hook"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Install enables the point. Installing twice is a no-op.
func (c *Controller) Install(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.point.Installed() {
		return nil
	}
	if err := c.point.Install(c.Intercept); err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	c.logger.Debug(ctx, "interception point installed")
	return nil
}

// Remove disables the point if it is installed. Failures are logged
// since the host is shutting down and cannot act on them.
func (c *Controller) Remove(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.point.Installed() {
		return
	}
	if err := c.point.Remove(); err != nil {
		c.logger.Error(ctx, "failed to remove interception point", logger.Error(fmt.Errorf("%w: %w", ErrRemove, err)))
		return
	}
	c.logger.Debug(ctx, "interception point removed")
}

// Installed reports whether the point is enabled.
func (c *Controller) Installed() bool {
	return c.point.Installed()
}

// Intercept is the diverted entry. A nil argument is not observed.
func (c *Controller) Intercept(arg uintptr) int32 {
	if arg != 0 {
		c.observe(arg)
	}
	return c.point.CallOriginal(arg)
}

func (c *Controller) observe(arg uintptr) {
	ctx := context.Background()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(ctx, "recovered from handler panic",
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())))
		}
	}()
	c.handler(ctx, arg)
}
