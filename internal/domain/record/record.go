// Package record decodes the raw score payloads of each game generation.
//
// A payload is the JSON snapshot of a player data property. Every generation
// nests its data under call.<call name>.data, but the score shape differs:
//
//	Legacy        data.note[]            note array, end time trusted
//	NoteArrayV2   data.note[]            note array, end time ignored
//	ResultBlobV3  data.result            one untyped result object (or JSON string)
//
// Decoding only validates shape and ranges; mapping codes to canonical values
// belongs to the scoring package.
package record

import (
	"github.com/okian/takure/internal/domain/version"
)

// GuestPrefix marks reference ids of plays without a registered profile.
const GuestPrefix = "X000"

// Envelope holds the fields shared by every generation.
type Envelope struct {
	Mode     string
	RefID    string
	GameOver bool
}

// Guest reports whether the play belongs to a guest.
func (e Envelope) Guest() bool {
	return len(e.RefID) >= len(GuestPrefix) && e.RefID[:len(GuestPrefix)] == GuestPrefix
}

// Note is one stage result of the note array generations.
type Note struct {
	StageNum  uint8
	MCode     uint32
	NoteType  uint8
	ClearKind uint8
	Score     uint32
	ExScore   uint32
	MaxCombo  uint32
	FastCount uint32
	SlowCount uint32
	Judgements
	// EndTime is the play end in unix milliseconds, 0 when absent.
	EndTime   uint64
	PlayStyle uint8
}

// Judgements counts notes per judgement.
type Judgements struct {
	Marvelous uint32
	Perfect   uint32
	Great     uint32
	Good      uint32
	Miss      uint32
	OK        uint32
}

// Legacy is the oldest payload shape.
type Legacy struct {
	Envelope
	Notes []Note
}

// NoteArrayV2 extends Legacy with session details.
type NoteArrayV2 struct {
	Envelope
	GameSession uint64
	ShopArea    string
	Notes       []Note
}

// Result is the single result object of ResultBlobV3.
type Result struct {
	Note
	FlareRank uint8
}

// ResultBlobV3 carries one embedded result.
type ResultBlobV3 struct {
	Envelope
	Result Result
}

// Record is a tagged union of the three payload shapes. Exactly one of the
// variant pointers matching Generation is set.
type Record struct {
	Generation version.Generation
	Legacy     *Legacy
	V2         *NoteArrayV2
	V3         *ResultBlobV3
}

// Envelope returns the shared fields of whichever variant is set.
func (r Record) Envelope() Envelope {
	switch {
	case r.Legacy != nil:
		return r.Legacy.Envelope
	case r.V2 != nil:
		return r.V2.Envelope
	case r.V3 != nil:
		return r.V3.Envelope
	default:
		return Envelope{}
	}
}

// SelectNote returns the note with the highest nonzero stage number. On ties
// the first encountered note wins. ok is false when no note qualifies.
func SelectNote(notes []Note) (Note, bool) {
	var best Note
	found := false
	for _, n := range notes {
		if n.StageNum == 0 {
			continue
		}
		if !found || n.StageNum > best.StageNum {
			best = n
			found = true
		}
	}
	return best, found
}
