package service

import (
	"time"

	"github.com/okian/takure/internal/domain/version"
	"github.com/okian/takure/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRemote replaces the scoring service client built from the config.
func WithRemote(r Remote) Option {
	return func(s *Service) {
		if r != nil {
			s.remote = r
		}
	}
}

// WithVersionGate replaces the default build compatibility gate.
func WithVersionGate(g *version.Gate) Option {
	return func(s *Service) {
		if g != nil {
			s.versions = g
		}
	}
}

// WithClock sets the clock used for capture times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
