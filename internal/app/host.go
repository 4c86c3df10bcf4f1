package service

import (
	"context"

	"github.com/okian/takure/internal/adapters/avs"
	"github.com/okian/takure/internal/adapters/hook"
	"github.com/okian/takure/internal/domain/model"
)

// Host is the game process as the hook sees it.
type Host interface {
	// Tree borrows the property handed to an intercepted call.
	Tree(prop uintptr) avs.Tree
	// Point returns the interception site.
	Point() (hook.Point, error)
}

// Remote is the scoring service.
type Remote interface {
	Status(ctx context.Context) (uint64, error)
	Import(ctx context.Context, imp model.Import) error
}

// Submitter receives imports that passed the gate.
type Submitter interface {
	Import(ctx context.Context, imp model.Import) error
}
