package dataapi

import (
	"context"

	"github.com/embercore/battlecore/internal/model"
)

// Store is the engine's only window onto external game data. A battle
// holds one Store for its lifetime; the engine never caches descriptors
// itself beyond a single callback invocation, so a Store implementation is
// free to hot-reload its backing data between battles.
type Store interface {
	Move(ctx context.Context, id string) (MoveDescriptor, error)
	Ability(ctx context.Context, id string) (AbilityDescriptor, error)
	Item(ctx context.Context, id string) (ItemDescriptor, error)
	Condition(ctx context.Context, id string) (ConditionDescriptor, error)
	Species(ctx context.Context, id string) (SpeciesDescriptor, error)
}

// DecisionMaker turns an outstanding model.Request into a model.Choice for
// one non-human-controlled player. The engine core never implements a
// DecisionMaker itself (spec's Non-goals exclude an AI layer from the
// core); this interface only fixes the seam a caller's AI plugs into.
//
// Kept as a thin, separately-importable interface (rather than folded into
// Store) so a battle can be driven by a mix of human players and one or
// more DecisionMakers without either side depending on the other.
type DecisionMaker interface {
	Decide(ctx context.Context, playerID string, request *model.Request) (*model.Choice, error)
}
