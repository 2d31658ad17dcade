package setup

import (
	"context"
	"testing"

	"github.com/embercore/battlecore/internal/dataapi"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
)

// fakeStore is a minimal dataapi.Store backed by in-memory tables, enough
// to exercise Build without depending on any real game data set.
type fakeStore struct {
	species map[string]dataapi.SpeciesDescriptor
	moves   map[string]dataapi.MoveDescriptor
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		species: map[string]dataapi.SpeciesDescriptor{
			"squirtle": {
				ID:        "squirtle",
				Name:      "Squirtle",
				Types:     []string{"water"},
				BaseStats: model.BaseStatLine{model.StatHP: 44, model.StatAtk: 48, model.StatDef: 65, model.StatSpAtk: 50, model.StatSpDef: 64, model.StatSpeed: 43},
				Abilities: []string{"torrent"},
			},
			"charmander": {
				ID:        "charmander",
				Name:      "Charmander",
				Types:     []string{"fire"},
				BaseStats: model.BaseStatLine{model.StatHP: 39, model.StatAtk: 52, model.StatDef: 43, model.StatSpAtk: 60, model.StatSpDef: 50, model.StatSpeed: 65},
				Abilities: []string{"blaze"},
			},
		},
		moves: map[string]dataapi.MoveDescriptor{
			"tackle":      {ID: "tackle", Name: "Tackle", Type: "normal", Category: model.CategoryPhysical, BasePower: 40, Accuracy: 100, PP: 35, Priority: 0},
			"watergun":    {ID: "watergun", Name: "Water Gun", Type: "water", Category: model.CategorySpecial, BasePower: 40, Accuracy: 100, PP: 25, Priority: 0},
			"ember":       {ID: "ember", Name: "Ember", Type: "fire", Category: model.CategorySpecial, BasePower: 40, Accuracy: 100, PP: 25, Priority: 0},
		},
	}
}

func (s *fakeStore) Species(_ context.Context, id string) (dataapi.SpeciesDescriptor, error) {
	d, ok := s.species[id]
	if !ok {
		return dataapi.SpeciesDescriptor{}, errNotFound(id)
	}
	return d, nil
}

func (s *fakeStore) Move(_ context.Context, id string) (dataapi.MoveDescriptor, error) {
	d, ok := s.moves[id]
	if !ok {
		return dataapi.MoveDescriptor{}, errNotFound(id)
	}
	return d, nil
}

func (s *fakeStore) Ability(_ context.Context, id string) (dataapi.AbilityDescriptor, error) {
	return dataapi.AbilityDescriptor{ID: id}, nil
}

func (s *fakeStore) Item(_ context.Context, id string) (dataapi.ItemDescriptor, error) {
	return dataapi.ItemDescriptor{ID: id}, nil
}

func (s *fakeStore) Condition(_ context.Context, id string) (dataapi.ConditionDescriptor, error) {
	return dataapi.ConditionDescriptor{ID: id}, nil
}

type notFoundError string

func (e notFoundError) Error() string { return "not found: " + string(e) }

func errNotFound(id string) error { return notFoundError(id) }

func testOptions() model.BattleOptions {
	return model.BattleOptions{
		Seed:   1,
		Format: "singles",
		Engine: model.DefaultEngineOptions(),
		Sides: []model.SideOptions{
			{
				Name:      "Red",
				SlotCount: 1,
				Players: []model.PlayerOptions{{
					ID: "red-1",
					Team: []model.TeamMemberIn{{
						Species: "squirtle",
						Level:   40,
						Nature:  "adamant",
						Moves:   []string{"tackle", "watergun"},
					}},
				}},
			},
			{
				Name:      "Blue",
				SlotCount: 1,
				Players: []model.PlayerOptions{{
					ID: "blue-1",
					Team: []model.TeamMemberIn{{
						Species: "charmander",
						Level:   40,
						Moves:   []string{"tackle", "ember"},
					}},
				}},
			},
		},
	}
}

func TestBuildMaterializesCreaturesAndActiveSlots(t *testing.T) {
	store := newFakeStore()
	loop, err := Build(context.Background(), testOptions(), registry.New(), store)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(loop.Battle.Sides) != 2 {
		t.Fatalf("expected 2 sides, got %d", len(loop.Battle.Sides))
	}
	red := loop.Battle.Sides[0]
	if len(red.Players) != 1 || len(red.Players[0].Team) != 1 {
		t.Fatalf("expected one player with one creature on red side")
	}

	if err := loop.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	handle := red.Active[0]
	if handle == model.NoCreature {
		t.Fatalf("red's active slot was not filled")
	}
	creature, ok := loop.Battle.Creature(handle)
	if !ok {
		t.Fatalf("active handle does not resolve to a creature")
	}
	if creature.Species != model.NormalizeID("squirtle") {
		t.Fatalf("got species %v, want squirtle", creature.Species)
	}
	if creature.CurrentHP != creature.MaxHP || creature.MaxHP <= 0 {
		t.Fatalf("creature should start at full, positive HP, got %d/%d", creature.CurrentHP, creature.MaxHP)
	}
	if len(creature.Moves) != 2 {
		t.Fatalf("expected 2 resolved moves, got %d", len(creature.Moves))
	}
	if creature.Moves[0].PP != creature.Moves[0].MaxPP || creature.Moves[0].PP <= 0 {
		t.Fatalf("move PP not copied from descriptor: %+v", creature.Moves[0])
	}
}

func TestBuildRejectsFewerThanTwoSides(t *testing.T) {
	opts := testOptions()
	opts.Sides = opts.Sides[:1]
	if _, err := Build(context.Background(), opts, registry.New(), newFakeStore()); err == nil {
		t.Fatalf("expected an error for a single-sided battle")
	}
}

func TestBuildPropagatesUnknownSpeciesError(t *testing.T) {
	opts := testOptions()
	opts.Sides[0].Players[0].Team[0].Species = "does-not-exist"
	if _, err := Build(context.Background(), opts, registry.New(), newFakeStore()); err == nil {
		t.Fatalf("expected an error for an unresolvable species")
	}
}
