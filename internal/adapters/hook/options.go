package hook

import "github.com/okian/takure/pkg/logger"

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for recovered handler failures.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}
