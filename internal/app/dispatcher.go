package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/okian/takure/internal/adapters/avs"
	"github.com/okian/takure/internal/domain/gate"
	"github.com/okian/takure/internal/domain/record"
	"github.com/okian/takure/internal/domain/scoring"
	"github.com/okian/takure/internal/domain/session"
	"github.com/okian/takure/internal/domain/version"
	"github.com/okian/takure/pkg/logger"
	"github.com/okian/takure/pkg/metrics"
)

// Card inquiry call handled next to the player-data call.
const (
	CardCall      = "cardmng"
	CardMethod    = "inquire"
	methodAttr    = "method@"
	cardAttr      = "cardid@"
	reasonNoEntry = "no_qualifying_note"
)

// Outcome is what a dispatched call led to. The host call is passed
// through in every case.
type Outcome string

const (
	OutcomePassthrough Outcome = "passthrough"
	OutcomeCardUpdated Outcome = "card_updated"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeSubmitted   Outcome = "submitted"
	OutcomeFailed      Outcome = "failed"
)

// Dispatcher inspects intercepted property trees and acts on card
// inquiries and score saves.
type Dispatcher struct {
	profile    version.Profile
	session    *session.CardSession
	normalizer *scoring.Normalizer
	gate       *gate.Gate
	submitter  Submitter
	logger     logger.Logger
	now        func() time.Time
}

// NewDispatcher wires a dispatcher for one schema profile.
func NewDispatcher(profile version.Profile, cards *session.CardSession, g *gate.Gate,
	submitter Submitter, normalizer *scoring.Normalizer, log logger.Logger,
) *Dispatcher {
	if log == nil {
		log = logger.Get().Named("dispatcher")
	}
	if normalizer == nil {
		normalizer = scoring.NewNormalizer()
	}
	return &Dispatcher{
		profile:    profile,
		session:    cards,
		normalizer: normalizer,
		gate:       g,
		submitter:  submitter,
		logger:     log,
		now:        time.Now,
	}
}

// Profile returns the schema profile the dispatcher decodes with.
func (d *Dispatcher) Profile() version.Profile { return d.profile }

// Handle dispatches one intercepted call. It never panics on host data
// and never blocks longer than one submission.
func (d *Dispatcher) Handle(ctx context.Context, tree avs.Tree) Outcome {
	log := d.logger.With(logger.String("call_id", uuid.NewString()))
	nav := avs.NewNavigator(tree)

	node, ok := nav.Find(0, "/call/"+d.profile.CallName)
	if !ok {
		node, ok = nav.Find(0, "/call/"+CardCall)
	}
	if !ok {
		nav.ClearError()
		return OutcomePassthrough
	}

	name, err := nav.Name(node)
	if err != nil {
		log.Error(ctx, "failed to read call name", logger.Error(err))
		return OutcomeFailed
	}
	if name != d.profile.CallName && name != CardCall {
		return OutcomePassthrough
	}

	method, err := nav.ReadAttribute(node, methodAttr, avs.MethodWidth)
	if err != nil {
		log.Error(ctx, "failed to read call method", logger.String("call", name), logger.Error(err))
		return OutcomeFailed
	}
	metrics.RecordCallIntercepted(name, method)
	log.Debug(ctx, "intercepted call", logger.String("call", name), logger.String("method", method))

	if name == CardCall {
		if method != CardMethod {
			return OutcomePassthrough
		}
		return d.updateCard(ctx, log, nav, node)
	}

	if method != d.profile.SaveMethod {
		return OutcomePassthrough
	}
	payload, err := nav.Snapshot()
	if err != nil {
		log.Error(ctx, "failed to snapshot property", logger.Error(err))
		return OutcomeFailed
	}
	return d.process(ctx, log, payload)
}

func (d *Dispatcher) updateCard(ctx context.Context, log logger.Logger, nav *avs.Navigator, node avs.Node) Outcome {
	card, err := nav.ReadAttribute(node, cardAttr, avs.CardIDWidth)
	if err != nil {
		log.Error(ctx, "failed to read card id", logger.Error(err))
		return OutcomeFailed
	}
	d.session.Set(card)
	metrics.RecordCardUpdate()
	log.Debug(ctx, "current card updated", logger.String("card", card))
	return OutcomeCardUpdated
}

// Process runs a captured score save through decode, gate and submission.
func (d *Dispatcher) Process(ctx context.Context, payload []byte) Outcome {
	return d.process(ctx, d.logger.With(logger.String("call_id", uuid.NewString())), payload)
}

func (d *Dispatcher) process(ctx context.Context, log logger.Logger, payload []byte) Outcome {
	gen := d.profile.Generation.String()

	mode, err := record.Mode(payload, d.profile.CallName)
	if err != nil {
		metrics.RecordDecodeError(gen)
		log.Error(ctx, "failed to read save mode", logger.Error(err))
		return OutcomeFailed
	}
	if mode != d.profile.SaveMode {
		return OutcomePassthrough
	}

	rec, err := record.Decode(d.profile.Generation, d.profile.CallName, payload)
	if err != nil {
		metrics.RecordDecodeError(gen)
		log.Error(ctx, "failed to decode score record", logger.String("generation", gen), logger.Error(err))
		return OutcomeFailed
	}

	sel, err := d.normalizer.Select(rec)
	if errors.Is(err, scoring.ErrNoQualifyingNote) {
		metrics.RecordSubmissionSkipped(reasonNoEntry)
		log.Info(ctx, "no score to submit", logger.String("reason", reasonNoEntry))
		return OutcomeSkipped
	}
	if err != nil {
		metrics.RecordDecodeError(gen)
		log.Error(ctx, "failed to select score", logger.Error(err))
		return OutcomeFailed
	}

	card, known := d.session.Current()
	verdict := d.gate.Evaluate(gate.Subject{
		Generation: d.profile.Generation,
		Card:       card,
		CardKnown:  known,
		Versus:     sel.Versus(),
		GameOver:   sel.GameOver,
		Guest:      sel.Guest(),
	})
	if !verdict.Passed() {
		metrics.RecordSubmissionSkipped(string(verdict.Reason))
		log.Info(ctx, "score not submitted", logger.String("reason", string(verdict.Reason)))
		return OutcomeSkipped
	}

	imp, err := d.normalizer.Build(sel)
	if err != nil {
		metrics.RecordDecodeError(gen)
		log.Error(ctx, "failed to build import", logger.Error(err))
		return OutcomeFailed
	}

	start := d.now()
	err = d.submitter.Import(ctx, imp)
	metrics.RecordSubmitLatency(float64(d.now().Sub(start).Milliseconds()))
	if err != nil {
		metrics.RecordSubmissionFailed()
		log.Error(ctx, "failed to submit score", logger.Error(err))
		return OutcomeFailed
	}
	metrics.RecordSubmission()
	log.Info(ctx, "score submitted",
		logger.String("identifier", imp.Scores[0].Identifier),
		logger.String("difficulty", string(imp.Scores[0].Difficulty)),
		logger.Int("score", int(imp.Scores[0].Score)))
	return OutcomeSubmitted
}
