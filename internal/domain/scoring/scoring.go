// Package scoring converts decoded score records into the canonical import.
//
// Normalization happens in two steps so the submission gate can run between
// them: Select picks the entry to report and exposes the facts the gate
// filters on, Build maps that entry to a model.Import.
package scoring

import (
	"fmt"
	"time"

	"github.com/okian/takure/internal/domain/model"
	"github.com/okian/takure/internal/domain/record"
	"github.com/okian/takure/internal/domain/version"
)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithClock sets the wall clock used for capture times.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// Normalizer maps any schema generation to the canonical import.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer using the system clock.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Selection is the single entry chosen from a record.
type Selection struct {
	Generation version.Generation
	record.Envelope
	Note      record.Note
	FlareRank uint8
	// CapturedAt is when the payload was selected.
	CapturedAt time.Time
}

// Versus reports whether the selected entry is a versus play.
func (s Selection) Versus() bool {
	return s.Note.PlayStyle == model.PlayStyleVersus
}

// Select chooses the entry to report: the highest nonzero stage of a note
// array, or the embedded result of a result blob.
func (n *Normalizer) Select(rec record.Record) (Selection, error) {
	sel := Selection{
		Generation: rec.Generation,
		Envelope:   rec.Envelope(),
		CapturedAt: n.now(),
	}

	switch {
	case rec.Legacy != nil:
		note, ok := record.SelectNote(rec.Legacy.Notes)
		if !ok {
			return Selection{}, ErrNoQualifyingNote
		}
		sel.Note = note
	case rec.V2 != nil:
		note, ok := record.SelectNote(rec.V2.Notes)
		if !ok {
			return Selection{}, ErrNoQualifyingNote
		}
		sel.Note = note
	case rec.V3 != nil:
		sel.Note = rec.V3.Result.Note
		sel.FlareRank = rec.V3.Result.FlareRank
	default:
		return Selection{}, fmt.Errorf("%w: empty record", record.ErrDecode)
	}

	return sel, nil
}

// Build maps a selection to the canonical import. It refuses selections that
// must never be reported, whatever the caller checked before.
func (n *Normalizer) Build(sel Selection) (model.Import, error) {
	switch {
	case sel.GameOver:
		return model.Import{}, fmt.Errorf("%w: game over", ErrNotEligible)
	case sel.Guest():
		return model.Import{}, fmt.Errorf("%w: guest play", ErrNotEligible)
	case sel.Generation == version.Legacy && sel.Versus():
		return model.Import{}, fmt.Errorf("%w: versus play", ErrNotEligible)
	}

	difficulty, err := model.DifficultyFromCode(sel.Note.NoteType)
	if err != nil {
		return model.Import{}, err
	}
	playType, err := model.PlayTypeFromCode(sel.Note.PlayStyle)
	if err != nil {
		return model.Import{}, err
	}

	score := model.ImportScore{
		Score:        sel.Note.Score,
		Lamp:         model.LampFromCode(sel.Note.ClearKind),
		MatchType:    model.MatchInGameID,
		Identifier:   model.MusicIdentifier(sel.Note.MCode),
		Difficulty:   difficulty,
		TimeAchieved: n.timeAchieved(sel),
		Judgements: model.Judgements{
			Marvelous: sel.Note.Marvelous,
			Perfect:   sel.Note.Perfect,
			Great:     sel.Note.Great,
			Good:      sel.Note.Good,
			Miss:      sel.Note.Miss,
			OK:        sel.Note.OK,
		},
		HitMeta: model.HitMeta{
			Fast:     sel.Note.FastCount,
			Slow:     sel.Note.SlowCount,
			MaxCombo: sel.Note.MaxCombo,
			ExScore:  sel.Note.ExScore,
		},
	}
	if sel.Generation == version.ResultBlobV3 && sel.FlareRank != 0 {
		score.Optional = model.OptionalFlare(model.FlareFromCode(sel.FlareRank))
	}

	return model.NewImport(playType, score), nil
}

// timeAchieved returns unix milliseconds. The v2 end time is not trusted, so
// that generation always uses the capture time.
func (n *Normalizer) timeAchieved(sel Selection) uint64 {
	if sel.Generation != version.NoteArrayV2 && sel.Note.EndTime != 0 {
		return sel.Note.EndTime
	}
	return uint64(sel.CapturedAt.UnixMilli())
}
