// Package demodata is a tiny, hand-authored dataapi.Store good enough to
// drive cmd/battlecore-serve's demo battles. The battle engine core never
// owns game content (spec's data store is explicitly out of scope); this
// package is a sample of the external seam dataapi.Store defines, not part
// of the core itself.
package demodata

import (
	"context"

	"github.com/embercore/battlecore/internal/berrors"
	"github.com/embercore/battlecore/internal/dataapi"
	"github.com/embercore/battlecore/internal/model"
)

// Store serves a fixed roster of two starter species and their signature
// moves out of in-memory tables.
type Store struct{}

// New constructs a demodata Store. Every method is safe for concurrent use
// since the underlying tables are read-only package globals.
func New() *Store { return &Store{} }

var speciesTable = map[string]dataapi.SpeciesDescriptor{
	"squirtle": {
		ID:   "squirtle",
		Name: "Squirtle",
		Types: []string{"water"},
		BaseStats: model.BaseStatLine{
			model.StatHP: 44, model.StatAtk: 48, model.StatDef: 65,
			model.StatSpAtk: 50, model.StatSpDef: 64, model.StatSpeed: 43,
		},
		Abilities: []string{"torrent"},
	},
	"charmander": {
		ID:   "charmander",
		Name: "Charmander",
		Types: []string{"fire"},
		BaseStats: model.BaseStatLine{
			model.StatHP: 39, model.StatAtk: 52, model.StatDef: 43,
			model.StatSpAtk: 60, model.StatSpDef: 50, model.StatSpeed: 65,
		},
		Abilities: []string{"blaze"},
	},
}

var moveTable = map[string]dataapi.MoveDescriptor{
	"tackle": {
		ID: "tackle", Name: "Tackle", Type: "normal", Category: model.CategoryPhysical,
		BasePower: 40, Accuracy: 100, PP: 35, Priority: 0, Target: "normal",
	},
	"watergun": {
		ID: "watergun", Name: "Water Gun", Type: "water", Category: model.CategorySpecial,
		BasePower: 40, Accuracy: 100, PP: 25, Priority: 0, Target: "normal",
	},
	"ember": {
		ID: "ember", Name: "Ember", Type: "fire", Category: model.CategorySpecial,
		BasePower: 40, Accuracy: 100, PP: 25, Priority: 0, Target: "normal",
		SecondaryChance: 10, SecondaryEffect: "brn",
	},
	"withdraw": {
		ID: "withdraw", Name: "Withdraw", Type: "water", Category: model.CategoryStatus,
		Accuracy: 0, PP: 40, Priority: 0, Target: "self",
	},
}

var abilityTable = map[string]dataapi.AbilityDescriptor{
	"torrent": {ID: "torrent", Name: "Torrent"},
	"blaze":   {ID: "blaze", Name: "Blaze"},
}

var conditionTable = map[string]dataapi.ConditionDescriptor{
	"brn": {ID: "brn", Name: "Burn", Kind: "status"},
	"par": {ID: "par", Name: "Paralysis", Kind: "status"},
}

// Species resolves a species ID to its descriptor.
func (Store) Species(_ context.Context, id string) (dataapi.SpeciesDescriptor, error) {
	d, ok := speciesTable[id]
	if !ok {
		return dataapi.SpeciesDescriptor{}, berrors.NotFound("species", id)
	}
	return d, nil
}

// Move resolves a move ID to its descriptor.
func (Store) Move(_ context.Context, id string) (dataapi.MoveDescriptor, error) {
	d, ok := moveTable[id]
	if !ok {
		return dataapi.MoveDescriptor{}, berrors.NotFound("move", id)
	}
	return d, nil
}

// Ability resolves an ability ID to its descriptor.
func (Store) Ability(_ context.Context, id string) (dataapi.AbilityDescriptor, error) {
	d, ok := abilityTable[id]
	if !ok {
		return dataapi.AbilityDescriptor{}, berrors.NotFound("ability", id)
	}
	return d, nil
}

// Item resolves an item ID to its descriptor. The demo roster carries no
// held items.
func (Store) Item(_ context.Context, id string) (dataapi.ItemDescriptor, error) {
	return dataapi.ItemDescriptor{}, berrors.NotFound("item", id)
}

// Condition resolves a condition ID to its descriptor.
func (Store) Condition(_ context.Context, id string) (dataapi.ConditionDescriptor, error) {
	d, ok := conditionTable[id]
	if !ok {
		return dataapi.ConditionDescriptor{}, berrors.NotFound("condition", id)
	}
	return d, nil
}

// DefaultOptions returns a ready-to-build two-side singles BattleOptions
// using this package's roster, for a caller (cmd/battlecore-serve) that
// receives no battle-options payload from its client.
func DefaultOptions() model.BattleOptions {
	return model.BattleOptions{
		Seed:   1,
		Format: "singles",
		Engine: model.DefaultEngineOptions(),
		Sides: []model.SideOptions{
			{
				Name:      "Red",
				SlotCount: 1,
				Players: []model.PlayerOptions{{
					ID: "red",
					Team: []model.TeamMemberIn{{
						Species: "squirtle",
						Level:   50,
						Nature:  "adamant",
						Moves:   []string{"tackle", "watergun", "withdraw"},
					}},
				}},
			},
			{
				Name:      "Blue",
				SlotCount: 1,
				Players: []model.PlayerOptions{{
					ID: "blue",
					Team: []model.TeamMemberIn{{
						Species: "charmander",
						Level:   50,
						Nature:  "timid",
						Moves:   []string{"tackle", "ember"},
					}},
				}},
			},
		},
	}
}
