package model

import (
	"encoding/json"
	"fmt"
)

// PlayType is the import play type.
type PlayType string

const (
	PlayTypeSingles PlayType = "SP"
	PlayTypeDoubles PlayType = "DP"
)

// Play style codes reported by the game.
const (
	PlayStyleSingle = 0
	PlayStyleDouble = 1
	PlayStyleVersus = 2
)

// PlayTypeFromCode maps a play style code. Versus plays are single-player charts.
func PlayTypeFromCode(code uint8) (PlayType, error) {
	switch code {
	case PlayStyleSingle, PlayStyleVersus:
		return PlayTypeSingles, nil
	case PlayStyleDouble:
		return PlayTypeDoubles, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownPlayStyle, code)
	}
}

// Difficulty is the chart difficulty.
type Difficulty string

const (
	DifficultyBeginner  Difficulty = "BEGINNER"
	DifficultyBasic     Difficulty = "BASIC"
	DifficultyDifficult Difficulty = "DIFFICULT"
	DifficultyExpert    Difficulty = "EXPERT"
	DifficultyChallenge Difficulty = "CHALLENGE"
)

// DifficultyFromCode maps a chart code; codes 5-8 are the doubles charts.
// Unknown codes are an error, never a default.
func DifficultyFromCode(code uint8) (Difficulty, error) {
	switch code {
	case 0:
		return DifficultyBeginner, nil
	case 1, 5:
		return DifficultyBasic, nil
	case 2, 6:
		return DifficultyDifficult, nil
	case 3, 7:
		return DifficultyExpert, nil
	case 4, 8:
		return DifficultyChallenge, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownDifficulty, code)
	}
}

// Lamp is the clear lamp of a play.
type Lamp string

const (
	LampFailed             Lamp = "FAILED"
	LampAssist             Lamp = "ASSIST"
	LampClear              Lamp = "CLEAR"
	LampLife4              Lamp = "LIFE4"
	LampFullCombo          Lamp = "FULL COMBO"
	LampGreatFullCombo     Lamp = "GREAT FULL COMBO"
	LampPerfectFullCombo   Lamp = "PERFECT FULL COMBO"
	LampMarvelousFullCombo Lamp = "MARVELOUS FULL COMBO"
)

var lampByCode = map[uint8]Lamp{
	1:  LampFailed,
	2:  LampAssist,
	3:  LampClear,
	6:  LampLife4,
	7:  LampFullCombo,
	8:  LampGreatFullCombo,
	9:  LampPerfectFullCombo,
	10: LampMarvelousFullCombo,
}

// LampFromCode maps a clear kind code. Unknown codes fall back to FAILED.
func LampFromCode(code uint8) Lamp {
	if lamp, ok := lampByCode[code]; ok {
		return lamp
	}
	return LampFailed
}

// Flare is the flare rank of newer schemas; FlareNone means absent.
type Flare uint8

const (
	FlareNone Flare = iota
	FlareI
	FlareII
	FlareIII
	FlareIV
	FlareV
	FlareVI
	FlareVII
	FlareVIII
	FlareIX
)

var flareNames = [...]string{"None", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX"}

// FlareFromCode maps a flare rank code; out of range codes map to FlareNone.
func FlareFromCode(code uint8) Flare {
	if int(code) >= len(flareNames) {
		return FlareNone
	}
	return Flare(code)
}

func (f Flare) String() string {
	if int(f) >= len(flareNames) {
		return flareNames[0]
	}
	return flareNames[f]
}

// MarshalJSON renders the rank as its roman numeral.
func (f Flare) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON parses a roman numeral rank.
func (f *Flare) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("flare: %w", err)
	}
	for i, name := range flareNames {
		if name == s {
			*f = Flare(i)
			return nil
		}
	}
	return fmt.Errorf("%w: flare %q", ErrUnknownValue, s)
}
