package turn

import (
	"context"
	"testing"

	"github.com/embercore/battlecore/internal/battlelog"
	"github.com/embercore/battlecore/internal/conditions"
	"github.com/embercore/battlecore/internal/dataapi"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
)

// fakeStore is a minimal dataapi.Store for turn-loop integration tests: two
// single-move creatures, enough to drive a full Resolve cycle without any
// dependency on a real data set.
type fakeStore struct{}

func (fakeStore) Species(_ context.Context, id string) (dataapi.SpeciesDescriptor, error) {
	switch id {
	case "attacker":
		return dataapi.SpeciesDescriptor{
			ID: "attacker", Types: []string{"water"},
			BaseStats: model.BaseStatLine{model.StatHP: 100, model.StatAtk: 80, model.StatDef: 70, model.StatSpAtk: 70, model.StatSpDef: 70, model.StatSpeed: 90},
		}, nil
	case "defender":
		return dataapi.SpeciesDescriptor{
			ID: "defender", Types: []string{"normal"},
			BaseStats: model.BaseStatLine{model.StatHP: 100, model.StatAtk: 60, model.StatDef: 70, model.StatSpAtk: 60, model.StatSpDef: 70, model.StatSpeed: 50},
		}, nil
	}
	return dataapi.SpeciesDescriptor{}, errNotFound(id)
}

func (fakeStore) Move(_ context.Context, id string) (dataapi.MoveDescriptor, error) {
	switch id {
	case "tackle":
		return dataapi.MoveDescriptor{ID: "tackle", Type: "normal", Category: model.CategoryPhysical, BasePower: 40, Accuracy: 100, PP: 35, Target: "normal"}, nil
	case "falseswipe":
		return dataapi.MoveDescriptor{ID: "falseswipe", Type: "normal", Category: model.CategoryPhysical, BasePower: 40, Accuracy: 100, PP: 40, Target: "normal", NeverFaints: true}, nil
	}
	return dataapi.MoveDescriptor{}, errNotFound(id)
}

func (fakeStore) Ability(_ context.Context, id string) (dataapi.AbilityDescriptor, error) {
	return dataapi.AbilityDescriptor{ID: id}, nil
}

func (fakeStore) Item(_ context.Context, id string) (dataapi.ItemDescriptor, error) {
	return dataapi.ItemDescriptor{ID: id}, nil
}

func (fakeStore) Condition(_ context.Context, id string) (dataapi.ConditionDescriptor, error) {
	return dataapi.ConditionDescriptor{ID: id}, nil
}

type errNotFound string

func (e errNotFound) Error() string { return "not found: " + string(e) }

func newTestLoop(t *testing.T, moveName string) *Loop {
	t.Helper()
	battle := model.NewBattle(1)
	battle.BaseDamageRandomization = model.DamageMax

	// The attacker is bulky and fast relative to the defender so repeated
	// turns of a clamped move (TestFalseSwipeNeverFaints) can walk the
	// defender's HP down to 1 without the attacker fainting first; the
	// defender's electric typing keeps Tackle/False Swipe (normal-type)
	// neutral in both directions.
	attacker := &model.Creature{Species: model.NormalizeID("attacker"), Level: 40, Types: []string{"water"},
		BaseStats: model.BaseStatLine{model.StatHP: 300, model.StatAtk: 100, model.StatDef: 100, model.StatSpAtk: 70, model.StatSpDef: 70, model.StatSpeed: 90},
		MaxHP: 300, CurrentHP: 300,
		Moves: []model.MoveSlot{{ID: model.NormalizeID(moveName), PP: 40, MaxPP: 40}},
	}
	defender := &model.Creature{Species: model.NormalizeID("defender"), Level: 40, Types: []string{"electric"},
		BaseStats: model.BaseStatLine{model.StatHP: 100, model.StatAtk: 30, model.StatDef: 60, model.StatSpAtk: 60, model.StatSpDef: 70, model.StatSpeed: 50},
		MaxHP: 100, CurrentHP: 100,
		Moves: []model.MoveSlot{{ID: model.NormalizeID("tackle"), PP: 35, MaxPP: 35}},
	}
	ah := battle.AddCreature(attacker)
	dh := battle.AddCreature(defender)

	redPlayer := &model.Player{ID: "red-1", SideIndex: 0, Team: []model.CreatureHandle{ah}}
	bluePlayer := &model.Player{ID: "blue-1", SideIndex: 1, Team: []model.CreatureHandle{dh}}
	battle.Sides = []*model.Side{
		{Index: 0, Name: "Red", SlotCount: 1, Players: []*model.Player{redPlayer}},
		{Index: 1, Name: "Blue", SlotCount: 1, Players: []*model.Player{bluePlayer}},
	}

	loop := New(battle, registry.New(), fakeStore{}, battlelog.New())
	if err := loop.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return loop
}

// TestResolveTurnAppliesDamageBothWays drives one full turn where both
// sides use Tackle, checking the turn loop threads a choice all the way
// through scheduling, the damage pipeline, and back to AwaitChoices for the
// next turn.
func TestResolveTurnAppliesDamageBothWays(t *testing.T) {
	loop := newTestLoop(t, "tackle")
	ctx := context.Background()

	if err := loop.SubmitChoice("red-1", "move 0"); err != nil {
		t.Fatalf("SubmitChoice red: %v", err)
	}
	if err := loop.SubmitChoice("blue-1", "move 0"); err != nil {
		t.Fatalf("SubmitChoice blue: %v", err)
	}
	if !loop.ReadyToResolve() {
		t.Fatalf("expected both choices to satisfy ReadyToResolve")
	}
	if err := loop.Continue(ctx); err != nil {
		t.Fatalf("Continue: %v", err)
	}

	attacker, _ := loop.Battle.Creature(1)
	defender, _ := loop.Battle.Creature(2)
	if attacker.CurrentHP == attacker.MaxHP {
		t.Fatalf("attacker should have taken damage from defender's Tackle")
	}
	if defender.CurrentHP == defender.MaxHP {
		t.Fatalf("defender should have taken damage from attacker's Tackle")
	}
	if loop.Battle.Turn != 2 {
		t.Fatalf("expected turn counter to advance to 2, got %d", loop.Battle.Turn)
	}
	if loop.Phase() != PhaseAwaitChoices {
		t.Fatalf("expected the loop to return to AwaitChoices, got phase %v", loop.Phase())
	}

	lines := loop.Log.PublicLines()
	if len(lines) == 0 {
		t.Fatalf("expected the battle log to record entries for the turn")
	}
}

// TestFasterCreatureActsFirst checks the scheduler picks the higher-speed
// actor's move first within the same priority class (spec §4.F step 3):
// the attacker (speed 90) should damage the defender (speed 50) even though
// the defender's choice was submitted first.
func TestFasterCreatureActsFirst(t *testing.T) {
	loop := newTestLoop(t, "tackle")
	ctx := context.Background()
	_ = loop.SubmitChoice("blue-1", "move 0")
	_ = loop.SubmitChoice("red-1", "move 0")
	if err := loop.Continue(ctx); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	defender, _ := loop.Battle.Creature(2)
	if defender.CurrentHP == defender.MaxHP {
		t.Fatalf("faster attacker should have hit first this turn")
	}
}

// TestCloudNineSuppressesWeatherDamage mirrors spec §8 scenario 3: a
// Sandstorm ticks chip damage normally, but an active Cloud-Nine-style
// ability suppresses it for as long as that creature is in.
func TestCloudNineSuppressesWeatherDamage(t *testing.T) {
	loop := newTestLoop(t, "tackle")
	ctx := context.Background()
	loop.Battle.Field.Weather = conditions.WeatherSandstorm

	defender, _ := loop.Battle.Creature(2)
	startHP := defender.CurrentHP
	if err := loop.runResiduals(ctx); err != nil {
		t.Fatalf("runResiduals: %v", err)
	}
	if defender.CurrentHP >= startHP {
		t.Fatalf("expected Sandstorm to chip defender HP, got %d (started %d)", defender.CurrentHP, startHP)
	}

	loop.Registry.Register(&registry.Descriptor{
		ID: model.NormalizeID("cloudnine"), Kind: registry.KindAbility,
		Suppresses: registry.SuppressWeatherEffects,
	})
	defender.Ability = model.NormalizeID("cloudnine")
	hpBeforeSuppression := defender.CurrentHP
	if err := loop.runResiduals(ctx); err != nil {
		t.Fatalf("runResiduals: %v", err)
	}
	if defender.CurrentHP != hpBeforeSuppression {
		t.Fatalf("Cloud Nine should suppress Sandstorm damage, HP changed from %d to %d", hpBeforeSuppression, defender.CurrentHP)
	}
}

// TestFalseSwipeNeverFaints drives repeated turns of a NeverFaints move
// (spec §8 scenario 2) until the defender's HP would otherwise be driven to
// 0, checking the damage pipeline's NeverFaints clamp keeps it alive.
func TestFalseSwipeNeverFaints(t *testing.T) {
	loop := newTestLoop(t, "falseswipe")
	ctx := context.Background()
	defender, _ := loop.Battle.Creature(2)

	for turn := 0; turn < 50 && defender.CurrentHP > 1; turn++ {
		if err := loop.SubmitChoice("red-1", "move 0"); err != nil {
			t.Fatalf("SubmitChoice: %v", err)
		}
		if err := loop.SubmitChoice("blue-1", "move 0"); err != nil {
			t.Fatalf("SubmitChoice: %v", err)
		}
		if err := loop.Continue(ctx); err != nil {
			t.Fatalf("Continue: %v", err)
		}
		if loop.Battle.Ended {
			break
		}
	}
	if defender.Fainted {
		t.Fatalf("False Swipe must never cause a faint")
	}
}
