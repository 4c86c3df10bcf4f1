package scoring_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/takure/internal/domain/model"
	"github.com/okian/takure/internal/domain/record"
	"github.com/okian/takure/internal/domain/scoring"
	"github.com/okian/takure/internal/domain/version"
	. "github.com/smartystreets/goconvey/convey"
)

var captured = time.UnixMilli(1710000000000)

func newNormalizer() *scoring.Normalizer {
	return scoring.NewNormalizer(scoring.WithClock(func() time.Time { return captured }))
}

func legacyRecord(notes ...record.Note) record.Record {
	return record.Record{
		Generation: version.Legacy,
		Legacy: &record.Legacy{
			Envelope: record.Envelope{Mode: "usersave", RefID: "ABCDEF"},
			Notes:    notes,
		},
	}
}

func TestNormalizerLegacy(t *testing.T) {
	Convey("Given a legacy record with several stages", t, func() {
		n := newNormalizer()
		rec := legacyRecord(
			record.Note{StageNum: 0, MCode: 1, NoteType: 1},
			record.Note{
				StageNum: 2, MCode: 38000, NoteType: 3, ClearKind: 8, Score: 9000,
				ExScore: 1200, MaxCombo: 400, FastCount: 12, SlowCount: 3,
				Judgements: record.Judgements{Marvelous: 380, Perfect: 20, Great: 1, OK: 30},
				EndTime:    1700000000000,
			},
			record.Note{StageNum: 1, MCode: 37000, NoteType: 2},
		)

		sel, err := n.Select(rec)
		So(err, ShouldBeNil)
		imp, err := n.Build(sel)

		Convey("Then the highest stage should become the only score", func() {
			So(err, ShouldBeNil)
			So(imp.Scores, ShouldHaveLength, 1)
			s := imp.Scores[0]
			So(s.Score, ShouldEqual, 9000)
			So(s.Identifier, ShouldEqual, "38000")
			So(s.Difficulty, ShouldEqual, model.DifficultyExpert)
			So(s.Lamp, ShouldEqual, model.LampGreatFullCombo)
			So(s.MatchType, ShouldEqual, "inGameID")
			So(s.Judgements.Marvelous, ShouldEqual, 380)
			So(s.Judgements.OK, ShouldEqual, 30)
			So(s.HitMeta, ShouldResemble, model.HitMeta{Fast: 12, Slow: 3, MaxCombo: 400, ExScore: 1200})
			So(s.Optional, ShouldBeNil)
		})

		Convey("Then the payload end time should be used", func() {
			So(imp.Scores[0].TimeAchieved, ShouldEqual, uint64(1700000000000))
		})

		Convey("Then the metadata should be fixed", func() {
			So(imp.Meta, ShouldResemble, model.ImportMeta{Game: "ddr", PlayType: model.PlayTypeSingles, Service: "Takure"})
		})
	})

	Convey("Given a legacy record where every stage is zero", t, func() {
		n := newNormalizer()
		_, err := n.Select(legacyRecord(record.Note{StageNum: 0}, record.Note{StageNum: 0}))

		Convey("Then no import should be produced", func() {
			So(errors.Is(err, scoring.ErrNoQualifyingNote), ShouldBeTrue)
		})
	})

	Convey("Given a legacy versus play", t, func() {
		n := newNormalizer()
		sel, err := n.Select(legacyRecord(record.Note{StageNum: 1, NoteType: 1, PlayStyle: model.PlayStyleVersus}))
		So(err, ShouldBeNil)
		So(sel.Versus(), ShouldBeTrue)

		Convey("Then building should refuse it", func() {
			_, err := n.Build(sel)
			So(errors.Is(err, scoring.ErrNotEligible), ShouldBeTrue)
		})
	})

	Convey("Given a legacy record without an end time", t, func() {
		n := newNormalizer()
		sel, _ := n.Select(legacyRecord(record.Note{StageNum: 1, NoteType: 1}))
		imp, err := n.Build(sel)

		Convey("Then the capture time should be used", func() {
			So(err, ShouldBeNil)
			So(imp.Scores[0].TimeAchieved, ShouldEqual, uint64(captured.UnixMilli()))
		})
	})
}

func TestNormalizerEligibility(t *testing.T) {
	Convey("Given records that must never be reported", t, func() {
		n := newNormalizer()

		Convey("When the game is over", func() {
			rec := legacyRecord(record.Note{StageNum: 1, NoteType: 1})
			rec.Legacy.GameOver = true
			sel, err := n.Select(rec)
			So(err, ShouldBeNil)
			_, err = n.Build(sel)
			So(errors.Is(err, scoring.ErrNotEligible), ShouldBeTrue)
		})

		Convey("When the player is a guest", func() {
			rec := legacyRecord(record.Note{StageNum: 1, NoteType: 1})
			rec.Legacy.RefID = "X0001234"
			sel, err := n.Select(rec)
			So(err, ShouldBeNil)
			_, err = n.Build(sel)
			So(errors.Is(err, scoring.ErrNotEligible), ShouldBeTrue)
		})
	})
}

func TestNormalizerCodes(t *testing.T) {
	Convey("Given a selection with an unknown difficulty code", t, func() {
		n := newNormalizer()
		sel, _ := n.Select(legacyRecord(record.Note{StageNum: 1, NoteType: 9}))
		_, err := n.Build(sel)

		Convey("Then it should be a decode error, not a default", func() {
			So(errors.Is(err, model.ErrUnknownDifficulty), ShouldBeTrue)
		})
	})

	Convey("Given a selection with an unknown play style code", t, func() {
		n := newNormalizer()
		sel, _ := n.Select(legacyRecord(record.Note{StageNum: 1, NoteType: 1, PlayStyle: 7}))
		_, err := n.Build(sel)

		Convey("Then it should be a decode error", func() {
			So(errors.Is(err, model.ErrUnknownPlayStyle), ShouldBeTrue)
		})
	})

	Convey("Given a selection with difficulty code 6", t, func() {
		n := newNormalizer()
		sel, _ := n.Select(legacyRecord(record.Note{StageNum: 1, NoteType: 6, PlayStyle: 1, ClearKind: 99}))
		imp, err := n.Build(sel)

		Convey("Then it should be a doubles DIFFICULT with the default lamp", func() {
			So(err, ShouldBeNil)
			So(imp.Scores[0].Difficulty, ShouldEqual, model.DifficultyDifficult)
			So(imp.Meta.PlayType, ShouldEqual, model.PlayTypeDoubles)
			So(imp.Scores[0].Lamp, ShouldEqual, model.LampFailed)
		})
	})
}

func TestNormalizerV2(t *testing.T) {
	Convey("Given a note array v2 record with an end time", t, func() {
		n := newNormalizer()
		rec := record.Record{
			Generation: version.NoteArrayV2,
			V2: &record.NoteArrayV2{
				Envelope: record.Envelope{RefID: "R"},
				Notes: []record.Note{
					{StageNum: 1, NoteType: 2, EndTime: 1},
					{StageNum: 3, NoteType: 3, EndTime: 2, PlayStyle: model.PlayStyleVersus},
				},
			},
		}
		sel, err := n.Select(rec)
		So(err, ShouldBeNil)
		imp, err := n.Build(sel)

		Convey("Then the capture time should replace the payload end time", func() {
			So(err, ShouldBeNil)
			So(imp.Scores[0].TimeAchieved, ShouldEqual, uint64(captured.UnixMilli()))
		})

		Convey("Then a versus play should not be refused", func() {
			So(imp.Meta.PlayType, ShouldEqual, model.PlayTypeSingles)
			So(imp.Scores[0].Difficulty, ShouldEqual, model.DifficultyExpert)
		})
	})
}

func TestNormalizerV3(t *testing.T) {
	Convey("Given a result blob v3 record", t, func() {
		n := newNormalizer()
		rec := record.Record{
			Generation: version.ResultBlobV3,
			V3: &record.ResultBlobV3{
				Envelope: record.Envelope{RefID: "R"},
				Result: record.Result{
					Note: record.Note{MCode: 1, NoteType: 4, ClearKind: 10, Score: 1000000, PlayStyle: 2},
				},
			},
		}

		Convey("When the flare rank is zero", func() {
			sel, err := n.Select(rec)
			So(err, ShouldBeNil)
			imp, err := n.Build(sel)
			So(err, ShouldBeNil)

			Convey("Then the import should be singles with no optional block", func() {
				So(imp.Meta.PlayType, ShouldEqual, model.PlayTypeSingles)
				So(imp.Scores[0].Optional, ShouldBeNil)
				body, err := imp.Marshal()
				So(err, ShouldBeNil)
				var raw map[string]any
				So(json.Unmarshal(body, &raw), ShouldBeNil)
				_, present := raw["scores"].([]any)[0].(map[string]any)["optional"]
				So(present, ShouldBeFalse)
			})
		})

		Convey("When the flare rank is set", func() {
			rec.V3.Result.FlareRank = 9
			sel, _ := n.Select(rec)
			imp, err := n.Build(sel)

			Convey("Then the flare should be reported", func() {
				So(err, ShouldBeNil)
				So(imp.Scores[0].Optional, ShouldNotBeNil)
				So(imp.Scores[0].Optional.Flare, ShouldEqual, model.FlareIX)
			})
		})

		Convey("When the payload has no end time", func() {
			sel, _ := n.Select(rec)
			imp, _ := n.Build(sel)

			Convey("Then the capture time should be used", func() {
				So(imp.Scores[0].TimeAchieved, ShouldEqual, uint64(captured.UnixMilli()))
			})
		})
	})

	Convey("Given an empty record", t, func() {
		_, err := newNormalizer().Select(record.Record{})
		So(errors.Is(err, record.ErrDecode), ShouldBeTrue)
	})
}
