// Package service runs the hook inside the game process: it checks the
// game build, installs the interception point and dispatches every
// intercepted call.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/takure/internal/adapters/avs"
	"github.com/okian/takure/internal/adapters/hook"
	"github.com/okian/takure/internal/adapters/tachi"
	"github.com/okian/takure/internal/config"
	"github.com/okian/takure/internal/domain/gate"
	"github.com/okian/takure/internal/domain/scoring"
	"github.com/okian/takure/internal/domain/session"
	"github.com/okian/takure/internal/domain/version"
	"github.com/okian/takure/pkg/logger"
	"github.com/okian/takure/pkg/metrics"
)

// Version identification paths and read widths.
var versionFields = []struct {
	path  string
	width int
}{
	{"/soft/model", 3},
	{"/soft/dest", 1},
	{"/soft/spec", 1},
	{"/soft/rev", 1},
	{"/soft/ext", 10},
}

// Service is the hook module.
type Service struct {
	mu sync.Mutex

	cfg      *config.Config
	host     Host
	remote   Remote
	versions *version.Gate
	now      func() time.Time
	cards    *session.CardSession

	controller *hook.Controller
	dispatcher *Dispatcher
	profile    version.Profile
	user       atomic.Uint64
	started    bool

	stopMetrics context.CancelFunc

	logger logger.Logger
}

// New constructs a Service from configuration. Nothing touches the host
// until Start.
func New(cfg *config.Config, host Host, opts ...Option) (*Service, error) {
	if cfg == nil || host == nil {
		return nil, ErrNotConfigured
	}
	s := &Service{
		cfg:      cfg,
		host:     host,
		versions: version.NewGate(),
		now:      time.Now,
		cards:    session.New(),
		logger:   logger.Get().Named("takure"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.remote == nil {
		client, err := tachi.NewClient(cfg.Tachi.BaseURL, cfg.Tachi.APIKey,
			tachi.WithTimeout(cfg.Timeout()),
			tachi.WithDebug(cfg.General.Debug),
			tachi.WithLogger(s.logger.Named("tachi")),
		)
		if err != nil {
			return nil, err
		}
		s.remote = client
	}
	return s, nil
}

// Start identifies the game from its configuration tree, probes the
// scoring service and installs the interception point. An unsupported
// build leaves the module inactive without an error.
func (s *Service) Start(ctx context.Context, ea3 avs.Tree, root avs.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	if !s.cfg.General.Enable {
		s.logger.Info(ctx, "hook disabled by configuration")
		return nil
	}

	profile := version.DefaultProfile()
	info, err := ReadVersion(avs.NewNavigator(ea3), root)
	switch {
	case err != nil:
		s.logger.Warn(ctx, "could not read game version, hook might not work properly", logger.Error(err))
	default:
		p, err := s.versions.Check(info)
		if errors.Is(err, version.ErrUnsupported) {
			s.logger.Error(ctx, "unsupported game software, hook will not be enabled",
				logger.String("software", info.String()), logger.Error(err))
			return nil
		}
		profile = p
		s.logger.Info(ctx, "detected game software",
			logger.String("software", info.String()),
			logger.String("generation", profile.Generation.String()))
	}

	if s.cfg.General.Debug {
		s.logger.Info(ctx, "debug mode is enabled, not reaching the scoring service")
	} else {
		user, err := s.remote.Status(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStatusProbe, err)
		}
		s.user.Store(user)
		s.logger.Info(ctx, "scoring service reached", logger.Uint64("user", user))
	}

	policy := gate.Policy{Enabled: s.cfg.General.Enable, Whitelist: s.cfg.Cards.Whitelist}
	s.profile = profile
	s.dispatcher = NewDispatcher(profile, s.cards, gate.New(policy), s.remote,
		scoring.NewNormalizer(scoring.WithClock(s.now)), s.logger.Named("dispatcher"))
	s.dispatcher.now = s.now

	point, err := s.host.Point()
	if err != nil {
		return fmt.Errorf("%w: %w", hook.ErrInstall, err)
	}
	s.controller = hook.NewController(point, s.intercept, hook.WithLogger(s.logger.Named("hook")))
	if err := s.controller.Install(ctx); err != nil {
		return err
	}

	if addr := s.cfg.General.MetricsAddr; addr != "" {
		mctx, cancel := context.WithCancel(context.Background())
		s.stopMetrics = cancel
		errs := metrics.Serve(mctx, addr)
		go func() {
			if err := <-errs; err != nil {
				s.logger.Error(mctx, "metrics listener stopped", logger.Error(err))
			}
		}()
	}

	s.started = true
	s.logger.Info(ctx, "hook successfully initialized")
	return nil
}

func (s *Service) intercept(ctx context.Context, prop uintptr) {
	s.dispatcher.Handle(ctx, s.host.Tree(prop))
}

// Stop removes the interception point. Removal failures are logged only.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller != nil {
		s.controller.Remove(ctx)
	}
	if s.stopMetrics != nil {
		s.stopMetrics()
		s.stopMetrics = nil
	}
	s.started = false
}

// Active reports whether calls are being intercepted.
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && s.controller != nil && s.controller.Installed()
}

// User returns the scoring service user id found at start, or 0.
func (s *Service) User() uint64 {
	return s.user.Load()
}

// Profile returns the schema profile selected at start.
func (s *Service) Profile() version.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Cards returns the card session shared by all intercepted calls.
func (s *Service) Cards() *session.CardSession {
	return s.cards
}

// ReadVersion reads the game identification below root.
func ReadVersion(nav *avs.Navigator, root avs.Node) (version.Info, error) {
	values := make([]string, len(versionFields))
	for i, f := range versionFields {
		v, err := nav.ReadString(root, f.path, f.width)
		if err != nil {
			return version.Info{}, fmt.Errorf("%w: %w", version.ErrUnreadable, err)
		}
		values[i] = v
	}
	return version.Info{
		Model:    values[0],
		Dest:     values[1],
		Spec:     values[2],
		Revision: values[3],
		Ext:      version.ParseExt(values[4]),
	}, nil
}
