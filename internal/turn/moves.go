package turn

import (
	"context"
	"fmt"

	"github.com/embercore/battlecore/internal/dataapi"
	"github.com/embercore/battlecore/internal/damage"
	"github.com/embercore/battlecore/internal/dispatch"
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/request"
)

// mustRechargeID is the volatile a recharge move (Hyper Beam, Giga Impact)
// applies to its own user; the request layer (internal/request) already
// reads the same ID to lock a recharging creature's next choice.
var mustRechargeID = id.Normalize("mustrecharge")

// chargingID is the volatile a two-turn move (Solar Beam, Fly, Dig) applies
// to its own user for the charge turn; its effect state carries
// request.LockedMoveKey so the request layer forces the follow-up choice the
// same way any other locked-in move does.
var chargingID = id.Normalize("chargemove")

// executeItem applies a bag-item use action. The core does not own item
// *effects* (those are registered callbacks on the item's own Descriptor,
// invoked through the dispatcher the same way any other effect's callbacks
// are); this only resolves the reference and lets the Hit-family event fire
// for whatever is registered against it.
func (l *Loop) executeItem(ctx context.Context, user model.CreatureHandle, item queuedItem) error {
	l.Log.Add("item").Pair("mon", fmt.Sprintf("%d", user)).Pair("item", string(item.action.ItemID)).Done()
	l.Dispatch.RunEvent(dispatch.EventHit, user, model.NoCreature, item.action, nil)
	return nil
}

// executeMove runs one move use end to end: recharge/PP bookkeeping,
// BeforeMove, target resolution, per-target damage-pipeline hits, drain and
// recoil, and AfterMove, per spec §4.G/§4.I.
func (l *Loop) executeMove(ctx context.Context, user model.CreatureHandle, qm queuedMove) error {
	attacker, ok := l.Battle.Creature(user)
	if !ok || attacker.Fainted {
		return nil
	}
	if attacker.HasVolatile(mustRechargeID) {
		attacker.RemoveVolatile(mustRechargeID)
		l.Dispatch.RunEvent(dispatch.EventMustRecharge, user, model.NoCreature, nil, nil)
		l.Log.Add("cant").Pair("mon", fmt.Sprintf("%d", user)).Pair("reason", "recharge").Done()
		return nil
	}

	moveID := id.Normalize(qm.desc.ID)

	// A creature already mid-charge on this exact move (turn 2 of Solar
	// Beam/Fly/Dig) consumes its charging volatile and falls straight
	// through to the hit below; the locked_into_move request machinery
	// already guaranteed it couldn't have chosen anything else.
	charging := attacker.HasVolatile(chargingID)
	if charging {
		attacker.RemoveVolatile(chargingID)
		l.Battle.Effects.End(model.CreatureLocation(user), chargingID)
	} else if locked, lockedID := l.Requests.LockedMove(attacker); locked && lockedID == moveID {
		l.Dispatch.RunEvent(dispatch.EventLockMove, user, model.NoCreature, moveID, nil)
	}
	if qm.action.MoveSlot >= 0 && qm.action.MoveSlot < len(attacker.Moves) {
		slot := &attacker.Moves[qm.action.MoveSlot]
		if slot.PP > 0 {
			slot.PP--
		}
		slot.LastUsedAt = l.Battle.Turn
	}
	attacker.LastMove = moveID

	active := model.ActiveMove{
		MoveID:      moveID,
		User:        user,
		Target:      model.TargetSpec{Explicit: qm.action.Target},
		BasePower:   qm.desc.BasePower,
		Accuracy:    qm.desc.Accuracy,
		Category:    qm.desc.Category,
		Type:        qm.desc.Type,
		Flags:       qm.desc.Flags,
		HitNumber:   1,
		TotalHits:   1,
		NeverFaints: qm.desc.NeverFaints,
	}
	handle := l.Battle.NewActiveMove(active)
	activeMove, _ := l.Battle.ActiveMove(handle)

	l.Log.Add("move").Pair("mon", fmt.Sprintf("%d", user)).Pair("move", string(moveID)).Done()

	if _, vetoed, reason := l.Dispatch.RunEvent(dispatch.EventBeforeMove, user, model.NoCreature, activeMove, nil); vetoed {
		l.Log.Add("fail").Pair("mon", fmt.Sprintf("%d", user)).Pair("reason", reason).Done()
		return nil
	}

	// A two-turn move's first use only charges: EventChargeMove lets a
	// registered effect (Power Herb) veto the charge and hit immediately
	// instead, the same way it skips the wait in the games this mirrors.
	if !charging && qm.desc.Flags.Has(model.FlagCharge) {
		if _, vetoed, _ := l.Dispatch.RunEvent(dispatch.EventChargeMove, user, model.NoCreature, activeMove, nil); !vetoed {
			if _, vetoed, _ := l.Dispatch.RunEvent(dispatch.EventTryAddVolatile, user, model.NoCreature, chargingID, nil); !vetoed {
				state := l.Battle.Effects.Apply(model.CreatureLocation(user), chargingID)
				state.Set(request.LockedMoveKey, moveID)
				attacker.AddVolatile(chargingID)
				l.Log.Add("prepare").Pair("mon", fmt.Sprintf("%d", user)).Pair("move", string(moveID)).Done()
				return nil
			}
		}
	}

	targets := l.resolveTargets(attacker, qm.action.Target, qm.desc.Target)
	if len(targets) == 0 {
		l.Log.Add("fail").Pair("mon", fmt.Sprintf("%d", user)).Pair("reason", "no target").Done()
		l.Dispatch.RunEvent(dispatch.EventAfterMove, user, model.NoCreature, activeMove, nil)
		return nil
	}

	var totalDealt int
	for _, target := range targets {
		outcome, err := l.Damage.RunHit(activeMove, target, len(targets), 1)
		if err != nil {
			return err
		}
		totalDealt += outcome.Damage
		if outcome.TargetFainted {
			l.handleFaint(target)
		}
		if outcome.Damage > 0 && qm.desc.SecondaryChance > 0 {
			l.rollSecondary(target, qm.desc)
		}
	}

	if totalDealt > 0 && !attacker.Fainted {
		if qm.desc.RecoilFraction[1] != 0 {
			recoil := damage.Recoil(totalDealt, qm.desc.RecoilFraction)
			if recoil > 0 {
				attacker.CurrentHP -= recoil
				if attacker.CurrentHP <= 0 {
					attacker.CurrentHP = 0
					attacker.Fainted = true
				}
				l.Log.Add("recoil").Pair("mon", fmt.Sprintf("%d", user)).Int("hp", attacker.CurrentHP).Done()
				if attacker.Fainted {
					l.handleFaint(user)
				}
			}
		}
		if qm.desc.DrainFraction[1] != 0 {
			drained := damage.Drain(totalDealt, qm.desc.DrainFraction)
			l.Damage.Heal(attacker, drained)
		}
	}

	if !attacker.Fainted && (qm.desc.SelfDestruct == model.SelfDestructAlways ||
		(qm.desc.SelfDestruct == model.SelfDestructIfHits && totalDealt > 0)) {
		attacker.CurrentHP = 0
		attacker.Fainted = true
		l.handleFaint(user)
	}

	if !attacker.Fainted && qm.desc.Flags.Has(model.FlagRecharge) {
		if _, vetoed, _ := l.Dispatch.RunEvent(dispatch.EventTryAddVolatile, user, model.NoCreature, mustRechargeID, nil); !vetoed {
			attacker.AddVolatile(mustRechargeID)
		}
	}

	l.Dispatch.RunEvent(dispatch.EventAfterMove, user, model.NoCreature, activeMove, nil)
	return nil
}

// resolveTargets turns a move's explicit signed slot (or lack of one) and
// its descriptor target class into the concrete creatures it hits this use,
// following the same signed-slot convention request.Builder.legalTargets
// enumerates from: a positive number is an opposing side's slot, a negative
// number is an ally slot other than the user's own.
func (l *Loop) resolveTargets(attacker *model.Creature, explicit int, targetClass string) []model.CreatureHandle {
	if attacker.Position == nil {
		return nil
	}
	switch targetClass {
	case "self":
		return []model.CreatureHandle{attacker.Handle}
	case "all_adjacent_foes", "all_adjacent", "all":
		var out []model.CreatureHandle
		for _, side := range l.Battle.Sides {
			if targetClass == "all_adjacent_foes" && side.Index == attacker.Position.Side {
				continue
			}
			for _, h := range side.Active {
				if h == model.NoCreature || h == attacker.Handle {
					continue
				}
				if c, ok := l.Battle.Creature(h); ok && !c.Fainted {
					out = append(out, h)
				}
			}
		}
		return out
	}

	if explicit != 0 {
		if h, ok := l.resolveSignedSlot(attacker, explicit); ok {
			return []model.CreatureHandle{l.redirectTarget(attacker, h)}
		}
		return nil
	}

	for _, side := range l.Battle.Sides {
		if side.Index == attacker.Position.Side {
			continue
		}
		for _, h := range side.Active {
			if h == model.NoCreature {
				continue
			}
			if c, ok := l.Battle.Creature(h); ok && !c.Fainted {
				return []model.CreatureHandle{l.redirectTarget(attacker, h)}
			}
		}
	}
	return nil
}

// redirectTarget runs spec §4.G step 1's RedirectTarget event for a
// single-target move's resolved target, letting a registered effect on
// candidate (Follow Me, Lightning Rod, Storm Drain) or its side claim the
// hit instead by returning a different CreatureHandle as the relay value.
// Spread/self targeting bypasses this entirely, matching the games this
// mirrors (redirection only ever applies to single-target moves).
func (l *Loop) redirectTarget(attacker *model.Creature, candidate model.CreatureHandle) model.CreatureHandle {
	result, vetoed, _ := l.Dispatch.RunEvent(dispatch.EventRedirectTarget, candidate, attacker.Handle, nil, candidate)
	if vetoed {
		return candidate
	}
	if redirected, ok := result.(model.CreatureHandle); ok && redirected != model.NoCreature {
		if c, ok := l.Battle.Creature(redirected); ok && !c.Fainted {
			return redirected
		}
	}
	return candidate
}

func (l *Loop) resolveSignedSlot(attacker *model.Creature, signed int) (model.CreatureHandle, bool) {
	if signed > 0 {
		for _, side := range l.Battle.Sides {
			if side.Index == attacker.Position.Side {
				continue
			}
			idx := signed - 1
			if idx < 0 || idx >= len(side.Active) {
				continue
			}
			h := side.Active[idx]
			if c, ok := l.Battle.Creature(h); ok && !c.Fainted {
				return h, true
			}
		}
		return model.NoCreature, false
	}
	if signed < 0 {
		side := l.Battle.Sides[attacker.Position.Side]
		idx := -signed - 1
		if idx < 0 || idx >= len(side.Active) {
			return model.NoCreature, false
		}
		h := side.Active[idx]
		if h == attacker.Handle {
			return model.NoCreature, false
		}
		if c, ok := l.Battle.Creature(h); ok && !c.Fainted {
			return h, true
		}
	}
	return model.NoCreature, false
}

// rollSecondary resolves a move descriptor's simple probabilistic secondary
// effect (spec §3's "secondary effect" glossary entry): a status condition
// applied with SecondaryChance/100 probability on a successful hit. Richer
// secondary behaviour (boosts, flinch, volatile application) is expressed
// through the move's own registered AfterHit/DamagingHit callbacks rather
// than this field.
func (l *Loop) rollSecondary(target model.CreatureHandle, desc dataapi.MoveDescriptor) {
	if desc.SecondaryEffect == "" {
		return
	}
	if !l.Battle.RNG.Chance(uint64(desc.SecondaryChance), 100) {
		return
	}
	c, ok := l.Battle.Creature(target)
	if !ok || c.Fainted || c.Status != "" {
		return
	}
	effectID := id.Normalize(desc.SecondaryEffect)
	if _, vetoed, _ := l.Dispatch.RunEvent(dispatch.EventTryAddStatus, target, model.NoCreature, effectID, nil); vetoed {
		return
	}
	c.Status = effectID
	l.Dispatch.RunEvent(dispatch.EventSetStatus, target, model.NoCreature, effectID, nil)
	l.Log.Add("status").Pair("mon", fmt.Sprintf("%d", target)).Pair("status", string(effectID)).Done()
}
