package replay

import (
	"context"
	"fmt"
	"io"

	service "github.com/okian/takure/internal/app"
	"github.com/okian/takure/internal/domain/gate"
	"github.com/okian/takure/internal/domain/model"
	"github.com/okian/takure/internal/domain/scoring"
	"github.com/okian/takure/internal/domain/session"
	"github.com/okian/takure/internal/domain/version"
	"github.com/okian/takure/pkg/logger"
)

// Result is the outcome of replaying one capture.
type Result struct {
	Path    string
	Outcome service.Outcome
	Err     error
}

// Runner replays captures for one schema generation.
type Runner struct {
	dispatcher *service.Dispatcher
}

// Option configures a Runner.
type Option func(*settings)

type settings struct {
	enabled   bool
	card      string
	whitelist []string
	forward   service.Submitter
	normOpts  []scoring.Option
	logger    logger.Logger
}

// WithCard sets the card the captures are attributed to.
func WithCard(card string) Option {
	return func(s *settings) { s.card = card }
}

// WithEnabled mirrors general.enable; a disabled module skips every save.
func WithEnabled(enabled bool) Option {
	return func(s *settings) { s.enabled = enabled }
}

// WithWhitelist restricts submissions to the listed cards.
func WithWhitelist(cards []string) Option {
	return func(s *settings) { s.whitelist = cards }
}

// WithForward sends every printed import on to sub.
func WithForward(sub service.Submitter) Option {
	return func(s *settings) { s.forward = sub }
}

// WithNormalizer passes options to the score normalizer.
func WithNormalizer(opts ...scoring.Option) Option {
	return func(s *settings) { s.normOpts = append(s.normOpts, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewRunner creates a runner printing each import as a JSON line to out.
func NewRunner(g version.Generation, out io.Writer, opts ...Option) (*Runner, error) {
	profile, ok := version.ProfileFor(g)
	if !ok {
		return nil, fmt.Errorf("%w: generation %d", version.ErrUnsupported, g)
	}
	s := settings{enabled: true, logger: logger.Get().Named("replay")}
	for _, opt := range opts {
		opt(&s)
	}

	cards := session.New()
	if s.card != "" {
		cards.Set(s.card)
	}
	policy := gate.Policy{Enabled: s.enabled, Whitelist: s.whitelist}
	sub := &printer{out: out, next: s.forward}
	d := service.NewDispatcher(profile, cards, gate.New(policy), sub, scoring.NewNormalizer(s.normOpts...), s.logger)
	return &Runner{dispatcher: d}, nil
}

// Run replays every path in order. A capture that cannot be read is
// reported in its result and does not stop the run.
func (r *Runner) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Path: path, Outcome: service.OutcomeFailed, Err: err})
			continue
		}
		payload, err := ReadCapture(path)
		if err != nil {
			results = append(results, Result{Path: path, Outcome: service.OutcomeFailed, Err: err})
			continue
		}
		results = append(results, Result{Path: path, Outcome: r.dispatcher.Process(ctx, payload)})
	}
	return results
}

// printer writes imports to out before handing them on.
type printer struct {
	out  io.Writer
	next service.Submitter
}

func (p *printer) Import(ctx context.Context, imp model.Import) error {
	b, err := imp.Marshal()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(p.out, string(b)); err != nil {
		return err
	}
	if p.next == nil {
		return nil
	}
	return p.next.Import(ctx, imp)
}
