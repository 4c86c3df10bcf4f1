package service_test

import (
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/okian/takure/internal/adapters/avs"
	"github.com/okian/takure/internal/adapters/hook"
	"github.com/okian/takure/internal/domain/model"
	"github.com/okian/takure/pkg/logger"
)

func init() {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
}

const (
	testCard   = "E004010000000001"
	saveMethod = "usergamedata_advanced"
)

func savePayload(mode, refID string, gameOver bool, playStyle int) string {
	over := "false"
	if gameOver {
		over = "true"
	}
	return `{"call":{"playerdata_2":{"data":{"mode":"` + mode + `","refid":"` + refID + `","isgameover":` + over + `,
		"note":[
			{"stagenum":1,"mcode":37000,"notetype":2,"clearkind":3,"score":800000,"playstyle":` + strconv.Itoa(playStyle) + `},
			{"stagenum":2,"mcode":38000,"notetype":3,"clearkind":8,"score":990000,"exscore":1200,"maxcombo":400,
			 "fastcount":12,"slowcount":3,"judge_marvelous":380,"judge_perfect":20,"judge_great":1,
			 "endtime":1700000000000,"playstyle":` + strconv.Itoa(playStyle) + `}
		]}}}}`
}

// saveTree builds a player-data save call carrying payload.
func saveTree(method, payload string) *avs.MemTree {
	tree := avs.NewMemTree()
	node := tree.Add("/call/playerdata_2")
	tree.SetAttr(node, "method", method)
	tree.SetPayload([]byte(payload))
	return tree
}

// cardTree builds a card inquiry call.
func cardTree(method, card string) *avs.MemTree {
	tree := avs.NewMemTree()
	node := tree.Add("/call/cardmng")
	tree.SetAttr(node, "method", method)
	tree.SetAttr(node, "cardid", card)
	return tree
}

// versionTree builds a game configuration tree.
func versionTree(model, rev, ext string) *avs.MemTree {
	tree := avs.NewMemTree()
	tree.SetValue("/soft/model", model)
	tree.SetValue("/soft/dest", "J")
	tree.SetValue("/soft/spec", "A")
	tree.SetValue("/soft/rev", rev)
	tree.SetValue("/soft/ext", ext)
	return tree
}

// fakeRemote records imports instead of sending them.
type fakeRemote struct {
	mu        sync.Mutex
	imports   []model.Import
	importErr error
	statusErr error
	statuses  int
}

func (r *fakeRemote) Status(context.Context) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses++
	if r.statusErr != nil {
		return 0, r.statusErr
	}
	return 42, nil
}

func (r *fakeRemote) Import(_ context.Context, imp model.Import) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.importErr != nil {
		return r.importErr
	}
	r.imports = append(r.imports, imp)
	return nil
}

func (r *fakeRemote) Imports() []model.Import {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Import(nil), r.imports...)
}

func (r *fakeRemote) Statuses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statuses
}

// fakeHost maps property handles to in-memory trees.
type fakeHost struct {
	mu       sync.Mutex
	trees    map[uintptr]avs.Tree
	point    *hook.FuncPoint
	pointErr error
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		trees: map[uintptr]avs.Tree{},
		point: hook.NewFuncPoint(func(uintptr) int32 { return 0 }),
	}
}

func (h *fakeHost) Put(prop uintptr, tree avs.Tree) {
	h.mu.Lock()
	h.trees[prop] = tree
	h.mu.Unlock()
}

func (h *fakeHost) Tree(prop uintptr) avs.Tree {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.trees[prop]; ok {
		return t
	}
	return avs.NewMemTree()
}

func (h *fakeHost) Point() (hook.Point, error) {
	if h.pointErr != nil {
		return nil, h.pointErr
	}
	return h.point, nil
}
