package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/okian/takure/internal/domain/version"
)

// Mode peeks at data.mode of a snapshot without decoding the rest.
func Mode(payload []byte, callName string) (string, error) {
	if !gjson.ValidBytes(payload) {
		return "", fmt.Errorf("%w: snapshot is not valid JSON", ErrDecode)
	}
	mode := gjson.GetBytes(payload, dataPath(callName)+".mode")
	if !mode.Exists() {
		return "", fmt.Errorf("%w: %s.mode missing", ErrDecode, dataPath(callName))
	}
	return mode.String(), nil
}

// Decode parses a snapshot of callName according to generation g.
func Decode(g version.Generation, callName string, payload []byte) (Record, error) {
	if !gjson.ValidBytes(payload) {
		return Record{}, fmt.Errorf("%w: snapshot is not valid JSON", ErrDecode)
	}
	data := gjson.GetBytes(payload, dataPath(callName))
	if !data.IsObject() {
		return Record{}, fmt.Errorf("%w: %s missing", ErrDecode, dataPath(callName))
	}

	env, err := decodeEnvelope(data)
	if err != nil {
		return Record{}, err
	}

	switch g {
	case version.Legacy:
		notes, err := decodeNotes(data.Get("note"))
		if err != nil {
			return Record{}, err
		}
		return Record{Generation: g, Legacy: &Legacy{Envelope: env, Notes: notes}}, nil

	case version.NoteArrayV2:
		notes, err := decodeNotes(data.Get("note"))
		if err != nil {
			return Record{}, err
		}
		r := fields{obj: data}
		v2 := &NoteArrayV2{
			Envelope:    env,
			GameSession: r.u64("gamesession", false),
			ShopArea:    data.Get("shoparea").String(),
			Notes:       notes,
		}
		if r.err != nil {
			return Record{}, r.err
		}
		return Record{Generation: g, V2: v2}, nil

	case version.ResultBlobV3:
		result, err := decodeResult(data.Get("result"))
		if err != nil {
			return Record{}, err
		}
		return Record{Generation: g, V3: &ResultBlobV3{Envelope: env, Result: result}}, nil

	default:
		return Record{}, fmt.Errorf("%w: %d", ErrUnknownGeneration, g)
	}
}

func dataPath(callName string) string {
	return "call." + gjson.Escape(callName) + ".data"
}

func decodeEnvelope(data gjson.Result) (Envelope, error) {
	mode := data.Get("mode")
	if !mode.Exists() {
		return Envelope{}, fmt.Errorf("%w: mode missing", ErrDecode)
	}
	refID := data.Get("refid")
	if !refID.Exists() {
		return Envelope{}, fmt.Errorf("%w: refid missing", ErrDecode)
	}
	return Envelope{
		Mode:     mode.String(),
		RefID:    refID.String(),
		GameOver: data.Get("isgameover").Bool(),
	}, nil
}

// decodeNotes accepts an array of notes or a single note object, which is how
// the host serializes a one-element list. A missing list is empty.
func decodeNotes(v gjson.Result) ([]Note, error) {
	if !v.Exists() {
		return nil, nil
	}
	var items []gjson.Result
	switch {
	case v.IsArray():
		items = v.Array()
	case v.IsObject():
		items = []gjson.Result{v}
	default:
		return nil, fmt.Errorf("%w: note is neither list nor object", ErrDecode)
	}

	notes := make([]Note, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: note[%d] is not an object", ErrDecode, i)
		}
		r := fields{obj: item}
		n := Note{
			StageNum:   r.u8("stagenum", true),
			MCode:      r.u32("mcode", true),
			NoteType:   r.u8("notetype", true),
			ClearKind:  r.u8("clearkind", true),
			Score:      r.u32("score", true),
			ExScore:    r.u32("exscore", false),
			MaxCombo:   r.u32("maxcombo", false),
			FastCount:  r.u32("fastcount", false),
			SlowCount:  r.u32("slowcount", false),
			Judgements: r.judgements(),
			EndTime:    r.u64("endtime", false),
			PlayStyle:  r.u8("playstyle", true),
		}
		if r.err != nil {
			return nil, fmt.Errorf("note[%d]: %w", i, r.err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// decodeResult performs the second decode of the untyped result member, which
// arrives either inline or as a JSON-encoded string.
func decodeResult(v gjson.Result) (Result, error) {
	if !v.Exists() {
		return Result{}, fmt.Errorf("%w: result missing", ErrDecode)
	}
	obj := v
	if v.Type == gjson.String {
		if !gjson.Valid(v.Str) {
			return Result{}, fmt.Errorf("%w: result blob is not valid JSON", ErrDecode)
		}
		obj = gjson.Parse(v.Str)
	}
	if !obj.IsObject() {
		return Result{}, fmt.Errorf("%w: result is not an object", ErrDecode)
	}

	r := fields{obj: obj}
	res := Result{
		Note: Note{
			StageNum:   r.u8("stagenum", false),
			MCode:      r.u32("mcode", true),
			NoteType:   r.u8("difficulty", true),
			ClearKind:  r.u8("clearkind", true),
			Score:      r.u32("score", true),
			ExScore:    r.u32("exscore", false),
			MaxCombo:   r.u32("maxcombo", false),
			FastCount:  r.u32("fastcount", false),
			SlowCount:  r.u32("slowcount", false),
			Judgements: r.judgements(),
			EndTime:    r.u64("endtime", false),
			PlayStyle:  r.u8("playstyle", true),
		},
		FlareRank: r.u8("flarerank", false),
	}
	if r.err != nil {
		return Result{}, fmt.Errorf("result: %w", r.err)
	}
	return res, nil
}

// fields reads unsigned members of one object, keeping the first error.
type fields struct {
	obj gjson.Result
	err error
}

func (f *fields) unsigned(name string, required bool, limit uint64) uint64 {
	if f.err != nil {
		return 0
	}
	v := f.obj.Get(gjson.Escape(name))
	if !v.Exists() {
		if required {
			f.err = fmt.Errorf("%w: %s missing", ErrDecode, name)
		}
		return 0
	}
	if v.Type != gjson.Number && v.Type != gjson.String {
		f.err = fmt.Errorf("%w: %s is not a number", ErrDecode, name)
		return 0
	}
	if v.Type == gjson.Number && v.Num < 0 {
		f.err = fmt.Errorf("%w: %s is negative", ErrDecode, name)
		return 0
	}
	if v.Type == gjson.Number && v.Num != math.Trunc(v.Num) {
		f.err = fmt.Errorf("%w: %s=%s is not an integer", ErrDecode, name, v.Raw)
		return 0
	}
	n := v.Uint()
	if v.Type == gjson.String {
		parsed, err := strconv.ParseUint(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			f.err = fmt.Errorf("%w: %s=%q is not a number", ErrDecode, name, v.Str)
			return 0
		}
		n = parsed
	}
	if n > limit {
		f.err = fmt.Errorf("%w: %s=%d out of range", ErrDecode, name, n)
		return 0
	}
	return n
}

func (f *fields) u8(name string, required bool) uint8 {
	return uint8(f.unsigned(name, required, math.MaxUint8))
}

func (f *fields) u32(name string, required bool) uint32 {
	return uint32(f.unsigned(name, required, math.MaxUint32))
}

func (f *fields) u64(name string, required bool) uint64 {
	return f.unsigned(name, required, math.MaxUint64)
}

func (f *fields) judgements() Judgements {
	return Judgements{
		Marvelous: f.u32("judge_marvelous", false),
		Perfect:   f.u32("judge_perfect", false),
		Great:     f.u32("judge_great", false),
		Good:      f.u32("judge_good", false),
		Miss:      f.u32("judge_miss", false),
		OK:        f.u32("judge_ok", false),
	}
}
