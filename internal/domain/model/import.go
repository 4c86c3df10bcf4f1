// Package model contains the canonical score import sent to the scoring service.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Fixed import metadata.
const (
	GameDDR       = "ddr"
	ServiceName   = "Takure"
	MatchInGameID = "inGameID"
)

// Import is the canonical score import: metadata plus exactly one score.
type Import struct {
	Meta   ImportMeta    `json:"meta"`
	Scores []ImportScore `json:"scores"`
}

// ImportMeta identifies the game, play type and submitting service.
type ImportMeta struct {
	Game     string   `json:"game"`
	PlayType PlayType `json:"playtype"`
	Service  string   `json:"service"`
}

// NewImport builds an import holding the single score s.
func NewImport(playType PlayType, s ImportScore) Import {
	return Import{
		Meta: ImportMeta{
			Game:     GameDDR,
			PlayType: playType,
			Service:  ServiceName,
		},
		Scores: []ImportScore{s},
	}
}

// ImportScore is one chart result.
type ImportScore struct {
	Score        uint32     `json:"score"`
	Lamp         Lamp       `json:"lamp"`
	MatchType    string     `json:"matchType"`
	Identifier   string     `json:"identifier"`
	Difficulty   Difficulty `json:"difficulty"`
	TimeAchieved uint64     `json:"timeAchieved"`
	Judgements   Judgements `json:"judgements"`
	HitMeta      HitMeta    `json:"hitMeta"`
	// Optional is nil exactly when the flare rank is FlareNone.
	Optional *Optional `json:"optional,omitempty"`
}

// Judgements is the per-judgement note count breakdown.
type Judgements struct {
	Marvelous uint32 `json:"MARVELOUS"`
	Perfect   uint32 `json:"PERFECT"`
	Great     uint32 `json:"GREAT"`
	Good      uint32 `json:"GOOD"`
	Miss      uint32 `json:"MISS"`
	OK        uint32 `json:"OK"`
}

// HitMeta carries timing and combo details.
type HitMeta struct {
	Fast     uint32 `json:"fast"`
	Slow     uint32 `json:"slow"`
	MaxCombo uint32 `json:"maxCombo"`
	ExScore  uint32 `json:"exScore"`
}

// Optional holds fields only newer schemas provide.
type Optional struct {
	Flare Flare `json:"flare"`
}

// OptionalFlare returns the optional block for f, or nil for FlareNone.
func OptionalFlare(f Flare) *Optional {
	if f == FlareNone {
		return nil
	}
	return &Optional{Flare: f}
}

// MusicIdentifier renders a music code as the import identifier.
func MusicIdentifier(mcode uint32) string {
	return strconv.FormatUint(uint64(mcode), 10)
}

// Marshal serializes the import as the request body.
func (i Import) Marshal() ([]byte, error) {
	b, err := json.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("marshal import: %w", err)
	}
	return b, nil
}
