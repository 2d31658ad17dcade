// Package damage implements the damage pipeline (component G): the fixed,
// ordered sequence spec §4.G specifies for resolving one hit of a
// damaging move, from targeting through to HP application and the
// post-hit cascade. Every step that the spec calls out as effect-driven
// (TryHit, ModifyAccuracy, BasePower, ModifyAtk/Def/SpA/SpD, ModifyDamage,
// DamagingHit, AfterHit, ...) is expressed as a dispatch.RunEvent call so
// registered abilities/items/statuses/conditions can participate without
// this package knowing about any of them by name.
package damage

import (
	"context"
	"fmt"
	"math"

	"github.com/embercore/battlecore/internal/battlelog"
	"github.com/embercore/battlecore/internal/berrors"
	"github.com/embercore/battlecore/internal/conditions"
	"github.com/embercore/battlecore/internal/diagnostics"
	"github.com/embercore/battlecore/internal/dispatch"
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
)

// Pipeline resolves damaging-move hits against one battle's live state.
type Pipeline struct {
	Battle     *model.Battle
	Dispatch   *dispatch.Dispatcher
	Registry   *registry.Registry
	Log        *battlelog.Log
}

// New constructs a Pipeline bound to one battle's dispatcher, registry, and
// log.
func New(battle *model.Battle, disp *dispatch.Dispatcher, reg *registry.Registry, log *battlelog.Log) *Pipeline {
	return &Pipeline{Battle: battle, Dispatch: disp, Registry: reg, Log: log}
}

// publishInvariant reports a berrors.Invariant condition through the
// pipeline's dispatcher's diagnostics publisher, if one is wired.
func (p *Pipeline) publishInvariant(detail string) {
	if p.Dispatch == nil || p.Dispatch.Diag == nil {
		return
	}
	p.Dispatch.Diag.Publish(context.Background(), diagnostics.InvariantViolationEvent(detail))
}

// HitOutcome is the result of resolving one hit against one target.
type HitOutcome struct {
	Failed        bool
	FailReason    string
	Missed        bool
	Immune        bool
	Crit          bool
	Effectiveness float64
	Damage        int
	TargetFainted bool
	// HPBefore/HPAfter record the target's HP for drain/recoil computation
	// and for the caller's own log entries beyond what RunHit itself emits.
	HPBefore int
	HPAfter  int
}

// RunHit resolves spec §4.G's full ordered pipeline (steps 2-14; targeting
// in step 1 and drain/recoil in step 15 are the caller's responsibility,
// since they operate across every target of a spread move, not within a
// single hit) for one active move against one target creature.
// numTargets is the count of targets this use is hitting in total, used for
// the spread-move multi-hit multiplier (step 6); hitIndex is this hit's
// 1-indexed position within a multi-strike move's own repeated hits.
func (p *Pipeline) RunHit(move *model.ActiveMove, target model.CreatureHandle, numTargets, hitIndex int) (HitOutcome, error) {
	attacker, ok := p.Battle.Creature(move.User)
	if !ok {
		p.publishInvariant("active-move-user: move user handle does not resolve to a creature")
		return HitOutcome{}, berrors.Invariant("active-move-user", "move user handle does not resolve to a creature")
	}
	defender, ok := p.Battle.Creature(target)
	if !ok {
		p.publishInvariant("damage-target: target handle does not resolve to a creature")
		return HitOutcome{}, berrors.Invariant("damage-target", "target handle does not resolve to a creature")
	}

	out := HitOutcome{HPBefore: defender.CurrentHP, HPAfter: defender.CurrentHP}

	// Step 2: TryHit / immunity.
	_, vetoed, reason := p.Dispatch.RunEvent(dispatch.EventTryHit, target, move.User, move, nil)
	if vetoed {
		out.Failed = true
		out.FailReason = reason
		return out, nil
	}
	if move.Category != model.CategoryStatus {
		if IsImmune(move.Type, defender.Types) {
			out.Immune = true
			p.Log.Add("immune").Pair("mon", fmt.Sprintf("%d", target)).Done()
			return out, nil
		}
		// A defender can claim immunity the type chart doesn't grant
		// (Levitate vs. Ground, Water Absorb vs. Water, Volt Absorb vs.
		// Electric, Flash Fire vs. Fire): any registered ability vetoing
		// Immunity marks the hit immune instead of type-ineffective.
		if _, vetoed, reason := p.Dispatch.RunEvent(dispatch.EventImmunity, target, move.User, move, true); vetoed {
			out.Immune = true
			p.Log.Add("immune").Pair("mon", fmt.Sprintf("%d", target)).Pair("from", reason).Done()
			return out, nil
		}
	}

	// Step 3: accuracy.
	if !p.rollAccuracy(move, attacker, defender) {
		out.Missed = true
		p.Log.Add("miss").Pair("mon", fmt.Sprintf("%d", target)).Done()
		return out, nil
	}

	if move.Category == model.CategoryStatus {
		return out, nil
	}

	// Step 4: critical hit.
	out.Crit = p.rollCrit(move, attacker, defender)

	// Step 5: base damage.
	basePower := p.resolveBasePower(move)
	attackStat, defenseStat := p.resolveAttackDefense(move, attacker, defender, out.Crit)
	base := baseDamageFormula(attacker.Level, basePower, attackStat, defenseStat)

	// Step 6: multi-hit / spread multiplier.
	dmg := float64(base)
	if numTargets > 1 {
		dmg *= 0.75
	}

	// Step 7: weather modifier. A weather block (Harsh Sunlight fully
	// negating a Water move) must result in zero damage even though type
	// effectiveness alone is neutral, so it is tracked separately from eff
	// below rather than folded into the same blocked/not-blocked check.
	weatherMult := p.weatherModifier(move, defender)
	dmg *= weatherMult

	// Step 8: STAB.
	dmg *= p.stabMultiplier(move, attacker)

	// Step 9: type effectiveness.
	eff := Effectiveness(move.Type, defender.Types)
	dmg *= eff
	out.Effectiveness = eff

	// Step 10: burn halves physical damage.
	if attacker.Status == conditions.StatusBurn && move.Category == model.CategoryPhysical && !out.Crit {
		dmg *= 0.5
	}

	// Step 11: random factor.
	dmg *= p.randomFactor()

	// Step 12: final ModifyDamage event.
	if relay, vetoed, _ := p.Dispatch.RunEvent(dispatch.EventModifyDamage, target, move.User, move, dmg); !vetoed {
		if f, ok := relay.(float64); ok {
			dmg = f
		}
	}

	final := int(dmg)
	blocked := eff == 0 || weatherMult == 0
	if !blocked && final < 1 {
		final = 1
	}
	if blocked {
		final = 0
	}
	// A NeverFaints move (False Swipe, Hold Back) clamps its own damage so
	// the hit can never bring the target below 1 HP, per spec §8 scenario 2.
	if move.NeverFaints && final >= defender.CurrentHP {
		final = defender.CurrentHP - 1
	}

	// Step 13: apply, clamped to the target's remaining HP.
	out.Damage = p.applyDamage(defender, final)
	out.HPAfter = defender.CurrentHP
	out.TargetFainted = defender.Fainted

	p.logHit(target, move, out)

	// Step 14: post-hit cascade notifications.
	p.Dispatch.RunEvent(dispatch.EventDamagingHit, target, move.User, move, out.Damage)
	p.Dispatch.RunEvent(dispatch.EventHit, target, move.User, move, out.Damage)
	p.Dispatch.RunEvent(dispatch.EventAfterHit, target, move.User, move, out.Damage)

	return out, nil
}

// rollAccuracy resolves spec §4.G step 3: exempt moves always hit;
// everything else accumulates ModifyAccuracy multipliers over the move's
// base accuracy and the attacker/defender accuracy/evasion stages, then
// rolls against it. There is no separate OHKO formula: an OHKO move rolls
// the same way as any other move.
func (p *Pipeline) rollAccuracy(move *model.ActiveMove, attacker, defender *model.Creature) bool {
	if move.Accuracy == 0 {
		return true
	}
	acc := float64(move.Accuracy)
	acc *= model.AccuracyMultiplier(attacker.Boosts.Get(model.StatAccuracy))
	acc /= model.AccuracyMultiplier(defender.Boosts.Get(model.StatEvasion))

	if relay, vetoed, _ := p.Dispatch.RunEvent(dispatch.EventModifyAccuracy, defender.Handle, move.User, move, acc); !vetoed {
		if f, ok := relay.(float64); ok {
			acc = f
		}
	}
	if acc >= 100 {
		return true
	}
	num := uint64(math.Max(0, math.Min(100, acc)))
	return p.Battle.RNG.Chance(num, 100)
}

// critStageChances maps a crit stage to its {numerator, denominator} roll,
// the classic 1/24, 1/8, 1/2, always-hit progression.
var critStageChances = [][2]uint64{{1, 24}, {1, 8}, {1, 2}, {1, 1}}

// rollCrit resolves spec §4.G step 4.
func (p *Pipeline) rollCrit(move *model.ActiveMove, attacker, defender *model.Creature) bool {
	stage := 0
	if relay, vetoed, _ := p.Dispatch.RunEvent(dispatch.EventModifyCritRatio, defender.Handle, move.User, move, stage); !vetoed {
		if n, ok := relay.(int); ok {
			stage = n
		}
	}
	if stage < 0 {
		stage = 0
	}
	if stage > len(critStageChances)-1 {
		stage = len(critStageChances) - 1
	}
	roll := critStageChances[stage]
	hit := p.Battle.RNG.Chance(roll[0], roll[1])
	if hit {
		p.Log.Add("crit").Pair("mon", fmt.Sprintf("%d", defender.Handle)).Done()
	}
	return hit
}

// resolveBasePower fires BasePower so callbacks (Technician, terrain
// boosts, ...) can narrow the move's intrinsic power before the formula
// reads it.
func (p *Pipeline) resolveBasePower(move *model.ActiveMove) int {
	bp := move.BasePower
	if relay, vetoed, _ := p.Dispatch.RunEvent(dispatch.EventBasePower, move.User, model.NoCreature, move, bp); !vetoed {
		if n, ok := relay.(int); ok {
			bp = n
		}
	}
	return bp
}

// resolveAttackDefense picks and computes the attacking/defending stat
// pair the formula uses: physical moves use Atk/Def, special moves use
// SpA/SpD (step 5's "or swapped for moves like Psyshock" carve-out is left
// to a registered BasePower/Category override on the move descriptor
// itself, since it is move-specific rather than a generic pipeline rule).
// A critical hit ignores the defender's positive defensive boosts and the
// attacker's negative offensive boosts (step 4).
func (p *Pipeline) resolveAttackDefense(move *model.ActiveMove, attacker, defender *model.Creature, crit bool) (int, int) {
	var atkStat, defStat model.StatID
	var atkEvent, defEvent dispatch.Event
	if move.Category == model.CategoryPhysical {
		atkStat, defStat = model.StatAtk, model.StatDef
		atkEvent, defEvent = dispatch.EventModifyAtk, dispatch.EventModifyDef
	} else {
		atkStat, defStat = model.StatSpAtk, model.StatSpDef
		atkEvent, defEvent = dispatch.EventModifySpA, dispatch.EventModifySpD
	}

	atkBoost := attacker.Boosts.Get(atkStat)
	if crit && atkBoost < 0 {
		atkBoost = 0
	}
	defBoost := defender.Boosts.Get(defStat)
	if crit && defBoost > 0 {
		defBoost = 0
	}

	atk := float64(attacker.BaseStats.Get(atkStat)) * model.Multiplier(atkBoost)
	def := float64(defender.BaseStats.Get(defStat)) * model.Multiplier(defBoost)

	if relay, vetoed, _ := p.Dispatch.RunEvent(atkEvent, attacker.Handle, model.NoCreature, move, atk); !vetoed {
		if f, ok := relay.(float64); ok {
			atk = f
		}
	}
	if relay, vetoed, _ := p.Dispatch.RunEvent(defEvent, defender.Handle, model.NoCreature, move, def); !vetoed {
		if f, ok := relay.(float64); ok {
			def = f
		}
	}
	if atk < 1 {
		atk = 1
	}
	if def < 1 {
		def = 1
	}
	return int(atk), int(def)
}

// baseDamageFormula implements spec §4.G step 5's exact formula.
func baseDamageFormula(level, power, attack, defense int) int {
	if power <= 0 {
		return 0
	}
	n := (2*level/5 + 2) * power * attack / defense
	return n/50 + 2
}

// weatherModifier implements spec §4.G step 7: Sun/Rain boost or halve
// Fire/Water moves, Harsh Sunlight fully blocks Water-damaging moves, and
// any of this is suppressed if the weather itself is not currently in
// effect on the target (Cloud Nine/Air Lock's suppression is already
// enforced by the dispatcher not delivering weather-linked callbacks, but
// the formula-level weather check here is not itself a callback, so it
// re-checks field.Weather directly rather than relying on dispatch).
func (p *Pipeline) weatherModifier(move *model.ActiveMove, defender *model.Creature) float64 {
	weather := p.Battle.Field.Weather
	if weather == "" || p.WeatherSuppressed() {
		return 1
	}
	switch weather {
	case conditions.WeatherSun, conditions.WeatherHarshSun:
		if move.Type == "fire" {
			return 1.5
		}
		if move.Type == "water" {
			if weather == conditions.WeatherHarshSun {
				return 0
			}
			return 0.5
		}
	case conditions.WeatherRain, conditions.WeatherHeavyRain:
		if move.Type == "water" {
			return 1.5
		}
		if move.Type == "fire" {
			if weather == conditions.WeatherHeavyRain {
				return 0
			}
			return 0.5
		}
	}
	return 1
}

// WeatherSuppressed reports whether any active creature's ability
// suppresses weather (Cloud Nine, Air Lock): spec §8 scenario 3. It is
// exported so both the formula-level weather modifier here and the turn
// loop's residual weather-damage tick (which has no other way to agree with
// the damage pipeline on whether weather is currently "live") share the same
// check.
func (p *Pipeline) WeatherSuppressed() bool {
	for _, c := range p.Battle.ActiveCreatures() {
		if c.Ability == "" {
			continue
		}
		desc, err := p.Registry.Lookup(registry.KindAbility, c.Ability)
		if err != nil {
			continue
		}
		if desc.Suppresses == registry.SuppressWeatherEffects {
			return true
		}
	}
	return false
}

// stabMultiplier implements spec §4.G step 8.
func (p *Pipeline) stabMultiplier(move *model.ActiveMove, attacker *model.Creature) float64 {
	matches := false
	for _, t := range attacker.Types {
		if id.Equal(t, move.Type) {
			matches = true
			break
		}
	}
	if !matches {
		return 1
	}
	if attacker.Ability == id.Normalize("adaptability") {
		return 2.0
	}
	return 1.5
}

// randomFactor implements spec §4.G step 11: a uniform roll in [85,100]/100,
// or a pinned Min/Max value when the battle's damage-randomization mode
// calls for deterministic output.
func (p *Pipeline) randomFactor() float64 {
	switch p.Battle.BaseDamageRandomization {
	case model.DamageMin:
		return 0.85
	case model.DamageMax:
		return 1.0
	default:
		return float64(p.Battle.RNG.Range(85, 101)) / 100
	}
}

// applyDamage subtracts dmg from defender's current HP, clamped so it never
// goes negative, and returns the amount actually removed. Substitute/
// Endure/Focus-Sash-style "survive at 1 HP" overrides are expressed as
// registered TryHit/ModifyDamage callbacks that adjust dmg before this is
// called (Endure clamping the final application to leave 1 HP is itself a
// dedicated callback on the Hit event in a complete data set; the pipeline
// itself only performs the floor-at-zero clamp spec step 13 always
// requires).
func (p *Pipeline) applyDamage(defender *model.Creature, dmg int) int {
	if dmg <= 0 {
		return 0
	}
	if dmg > defender.CurrentHP {
		dmg = defender.CurrentHP
	}
	defender.CurrentHP -= dmg
	if defender.CurrentHP <= 0 {
		defender.CurrentHP = 0
		defender.Fainted = true
	}
	return dmg
}

// Heal restores hp to target, clamped to MaxHP, returning the amount
// actually restored. Used by drain (step 15, computed by the caller) and
// by residual healing effects; recoil is subtracted by the caller directly.
func (p *Pipeline) Heal(target *model.Creature, hp int) int {
	if target.Fainted || hp <= 0 {
		return 0
	}
	if _, vetoed, _ := p.Dispatch.RunEvent(dispatch.EventTryHeal, target.Handle, model.NoCreature, hp, nil); vetoed {
		return 0
	}
	room := target.MaxHP - target.CurrentHP
	if hp > room {
		hp = room
	}
	target.CurrentHP += hp
	return hp
}

// Recoil computes the recoil damage a move's RecoilFraction applies to its
// user from the damage it just dealt, per spec §4.G step 15.
func Recoil(dealt int, fraction [2]int) int {
	if fraction[1] == 0 {
		return 0
	}
	return dealt * fraction[0] / fraction[1]
}

// Drain computes the HP a move's DrainFraction restores to its user from
// the damage it just dealt.
func Drain(dealt int, fraction [2]int) int {
	if fraction[1] == 0 {
		return 0
	}
	return dealt * fraction[0] / fraction[1]
}

func (p *Pipeline) logHit(target model.CreatureHandle, move *model.ActiveMove, out HitOutcome) {
	b := p.Log.Split("damage", p.sideOf(target)).
		Pair("mon", fmt.Sprintf("%d", target)).
		Int("hp", out.HPAfter).
		Int("hp_pct", percent(out.HPAfter, p.maxHP(target))).
		PrivateInt("hp", out.HPAfter).
		PrivateInt("hp_max", p.maxHP(target))
	if out.Crit {
		b.Pair("crit", "1")
	}
	b.Done()
	if out.Effectiveness > 1 {
		p.Log.Add("supereffective").Pair("mon", fmt.Sprintf("%d", target)).Done()
	} else if out.Effectiveness > 0 && out.Effectiveness < 1 {
		p.Log.Add("resisted").Pair("mon", fmt.Sprintf("%d", target)).Done()
	}
}

func (p *Pipeline) sideOf(h model.CreatureHandle) int {
	if c, ok := p.Battle.Creature(h); ok && c.Position != nil {
		return c.Position.Side
	}
	return 0
}

func (p *Pipeline) maxHP(h model.CreatureHandle) int {
	if c, ok := p.Battle.Creature(h); ok {
		return c.MaxHP
	}
	return 0
}

func percent(hp, maxHP int) int {
	if maxHP <= 0 {
		return 0
	}
	pct := hp * 100 / maxHP
	if pct == 0 && hp > 0 {
		pct = 1
	}
	return pct
}
