package damage

import (
	"testing"

	"github.com/embercore/battlecore/internal/battlelog"
	"github.com/embercore/battlecore/internal/dispatch"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
)

// newTestPipeline builds a two-creature battle with a pinned DamageMax
// randomization mode, so the formula in spec §4.G can be checked against
// hand-computed expected values without fighting the random factor.
func newTestPipeline(t *testing.T) (*Pipeline, *model.Creature, *model.Creature) {
	t.Helper()
	battle := model.NewBattle(1)
	battle.BaseDamageRandomization = model.DamageMax

	attacker := &model.Creature{
		Level:     40,
		Types:     []string{"water"},
		BaseStats: model.BaseStatLine{model.StatAtk: 100, model.StatSpAtk: 100},
		MaxHP:     100,
		CurrentHP: 100,
	}
	defender := &model.Creature{
		Level:     40,
		Types:     []string{"normal"},
		BaseStats: model.BaseStatLine{model.StatDef: 100, model.StatSpDef: 100},
		MaxHP:     100,
		CurrentHP: 100,
	}
	attacker.Handle = battle.AddCreature(attacker)
	defender.Handle = battle.AddCreature(defender)

	reg := registry.New()
	disp := dispatch.New(battle, reg)
	log := battlelog.New()
	return New(battle, disp, reg, log), attacker, defender
}

func newMove(user model.CreatureHandle, moveType string, category model.MoveCategory, power, accuracy int) *model.ActiveMove {
	return &model.ActiveMove{
		MoveID:    model.NormalizeID("testmove"),
		User:      user,
		Type:      moveType,
		Category:  category,
		BasePower: power,
		Accuracy:  accuracy,
	}
}

// TestBaseDamageFormula checks spec §4.G step 5's exact formula against a
// neutral, non-STAB hit with the random factor pinned to its max (1.0).
func TestBaseDamageFormula(t *testing.T) {
	p, attacker, defender := newTestPipeline(t)
	move := newMove(attacker.Handle, "electric", model.CategorySpecial, 40, 100)

	out, err := p.RunHit(move, defender.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit: %v", err)
	}
	want := baseDamageFormula(40, 40, 100, 100)
	if out.Damage != want {
		t.Fatalf("got damage %d, want %d", out.Damage, want)
	}
	if out.Effectiveness != 1 {
		t.Fatalf("expected neutral effectiveness, got %v", out.Effectiveness)
	}
}

// TestSTABIncreasesDamage mirrors spec §8 scenario 1: a same-type move
// deals 1.5x the damage of an otherwise identical off-type move.
func TestSTABIncreasesDamage(t *testing.T) {
	p1, attacker1, defender1 := newTestPipeline(t)
	offType := newMove(attacker1.Handle, "normal", model.CategoryPhysical, 40, 100)
	offOut, err := p1.RunHit(offType, defender1.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit (off-type): %v", err)
	}

	p2, attacker2, defender2 := newTestPipeline(t)
	sameType := newMove(attacker2.Handle, "water", model.CategoryPhysical, 40, 100)
	stabOut, err := p2.RunHit(sameType, defender2.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit (same-type): %v", err)
	}

	wantSTAB := int(float64(offOut.Damage) * 1.5)
	if stabOut.Damage != wantSTAB {
		t.Fatalf("STAB damage = %d, want %d (1.5x of %d)", stabOut.Damage, wantSTAB, offOut.Damage)
	}
}

// TestAdaptabilityDoublesSTAB exercises the Adaptability carve-out in
// stabMultiplier: 2.0x instead of 1.5x for a same-type move.
func TestAdaptabilityDoublesSTAB(t *testing.T) {
	p, attacker, defender := newTestPipeline(t)
	attacker.Ability = model.NormalizeID("adaptability")
	move := newMove(attacker.Handle, "water", model.CategoryPhysical, 40, 100)

	out, err := p.RunHit(move, defender.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit: %v", err)
	}
	neutral := baseDamageFormula(40, 40, 100, 100)
	want := int(float64(neutral) * 2.0)
	if out.Damage != want {
		t.Fatalf("got %d, want %d (2x Adaptability STAB)", out.Damage, want)
	}
}

// TestSuperEffectiveAndResistedDamage checks step 9's type-chart product
// and that logHit records the matching supereffective/resisted markers.
func TestSuperEffectiveAndResistedDamage(t *testing.T) {
	p, attacker, defender := newTestPipeline(t)
	defender.Types = []string{"grass"}
	move := newMove(attacker.Handle, "fire", model.CategorySpecial, 40, 100)

	out, err := p.RunHit(move, defender.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit: %v", err)
	}
	if out.Effectiveness != 2 {
		t.Fatalf("expected 2x effectiveness fire-vs-grass, got %v", out.Effectiveness)
	}
	found := false
	for _, line := range p.Log.PublicLines() {
		if line == "supereffective|mon:2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a supereffective log entry, got %v", p.Log.PublicLines())
	}
}

// TestImmuneTypeDealsNoDamage checks the step-2 immunity short-circuit: a
// Normal-type move against a Ghost-type target never reaches the formula.
func TestImmuneTypeDealsNoDamage(t *testing.T) {
	p, attacker, defender := newTestPipeline(t)
	defender.Types = []string{"ghost"}
	move := newMove(attacker.Handle, "normal", model.CategoryPhysical, 100, 100)

	out, err := p.RunHit(move, defender.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit: %v", err)
	}
	if !out.Immune || out.Damage != 0 {
		t.Fatalf("expected an immune, zero-damage hit, got %+v", out)
	}
	if defender.CurrentHP != defender.MaxHP {
		t.Fatalf("immune hit must not change target HP")
	}
}

// TestMinimumDamageFloorsAtOne checks step 13: a connecting, non-immune hit
// never deals zero damage even when the formula would round down to it.
func TestMinimumDamageFloorsAtOne(t *testing.T) {
	p, attacker, defender := newTestPipeline(t)
	attacker.BaseStats[model.StatAtk] = 1
	defender.BaseStats[model.StatDef] = 999
	move := newMove(attacker.Handle, "water", model.CategoryPhysical, 1, 100)

	out, err := p.RunHit(move, defender.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit: %v", err)
	}
	if out.Damage < 1 {
		t.Fatalf("connecting damaging hit must deal at least 1 damage, got %d", out.Damage)
	}
}

// TestMissedMoveDealsNoDamage forces an accuracy-roll failure via the PRNG
// override queue and checks the move records a miss rather than a hit.
func TestMissedMoveDealsNoDamage(t *testing.T) {
	p, attacker, defender := newTestPipeline(t)
	move := newMove(attacker.Handle, "water", model.CategoryPhysical, 40, 50)
	// Chance(50, 100) fails when next()%100 >= 50.
	p.Battle.RNG.PushOverride(75)

	out, err := p.RunHit(move, defender.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit: %v", err)
	}
	if !out.Missed || out.Damage != 0 {
		t.Fatalf("expected a missed hit, got %+v", out)
	}
	if defender.CurrentHP != defender.MaxHP {
		t.Fatalf("a missed move must not change target HP")
	}
}

// TestCriticalHitIgnoresDefensiveBoost checks step 4's carve-out: on a
// crit, the defender's positive Def boost stage is ignored.
func TestCriticalHitIgnoresDefensiveBoost(t *testing.T) {
	p, attacker, defender := newTestPipeline(t)
	defender.Boosts.Add(model.StatDef, 2)
	move := newMove(attacker.Handle, "water", model.CategoryPhysical, 40, 100)
	// First Chance call is the accuracy roll (bypassed here since
	// Accuracy=100 short-circuits), so the crit roll is the override
	// consumed first.
	p.Battle.RNG.PushOverride(0) // always satisfies num<den for any stage

	out, err := p.RunHit(move, defender.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit: %v", err)
	}
	if !out.Crit {
		t.Fatalf("expected a forced critical hit")
	}
	// The water attacker using a water move still gets STAB (1.5x); only
	// the +2 Def boost drops out.
	neutral := int(float64(baseDamageFormula(40, 40, 100, 100)) * 1.5)
	if out.Damage != neutral {
		t.Fatalf("crit should ignore defender's +2 Def boost: got %d, want %d", out.Damage, neutral)
	}
}

// TestBurnHalvesPhysicalDamage checks step 10.
func TestBurnHalvesPhysicalDamage(t *testing.T) {
	p, attacker, defender := newTestPipeline(t)
	attacker.Status = model.NormalizeID("brn")
	move := newMove(attacker.Handle, "water", model.CategoryPhysical, 40, 100)

	out, err := p.RunHit(move, defender.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit: %v", err)
	}
	neutral := baseDamageFormula(40, 40, 100, 100)
	// STAB (water attacker, water move) applies before the burn halving.
	want := int(float64(neutral) * 1.5 * 0.5)
	if out.Damage != want {
		t.Fatalf("burned physical damage = %d, want %d", out.Damage, want)
	}
}

// TestHarshSunlightBlocksWaterDamage checks step 7's full block case: Harsh
// Sunlight must reduce a Water move to exactly zero damage rather than
// falling through to the step-13 floor-at-1 (a neutral-effectiveness hit
// would otherwise be mistaken for a connecting, non-blocked one).
func TestHarshSunlightBlocksWaterDamage(t *testing.T) {
	p, attacker, defender := newTestPipeline(t)
	p.Battle.Field.Weather = model.NormalizeID("harshsunlight")
	move := newMove(attacker.Handle, "water", model.CategoryPhysical, 40, 100)

	out, err := p.RunHit(move, defender.Handle, 1, 1)
	if err != nil {
		t.Fatalf("RunHit: %v", err)
	}
	if out.Damage != 0 {
		t.Fatalf("Harsh Sunlight must fully block Water damage, got %d", out.Damage)
	}
	if defender.CurrentHP != defender.MaxHP {
		t.Fatalf("a fully weather-blocked hit must not change target HP")
	}
}

// TestRecoilAndDrain check the simple fractional helpers callers use after
// RunHit returns (step 15).
func TestRecoilAndDrain(t *testing.T) {
	if got := Recoil(30, [2]int{1, 3}); got != 10 {
		t.Fatalf("Recoil(30, 1/3) = %d, want 10", got)
	}
	if got := Drain(30, [2]int{1, 2}); got != 15 {
		t.Fatalf("Drain(30, 1/2) = %d, want 15", got)
	}
	if got := Recoil(30, [2]int{1, 0}); got != 0 {
		t.Fatalf("Recoil with zero denominator must be 0, got %d", got)
	}
}
