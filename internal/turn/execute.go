package turn

import (
	"context"
	"fmt"

	"github.com/embercore/battlecore/internal/dispatch"
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/scheduler"
)

// resolveTurn executes ExecuteActions -> ResolveFaints -> (ForceReplacements?
// | Residuals) for the current turn, per spec §4.I. It assumes
// ReadyToResolve() already returned true.
func (l *Loop) resolveTurn(ctx context.Context) error {
	if err := l.buildTurnActions(ctx); err != nil {
		return err
	}
	l.Scheduler.Order(l.Battle)

	for {
		action, ok := l.Scheduler.Pop()
		if !ok {
			break
		}
		if c, ok := l.Battle.Creature(action.User); !ok || c.Fainted {
			continue
		}
		if err := l.executeAction(ctx, action); err != nil {
			return err
		}
		// Spec's "recomputed after every executed action" rule: a
		// mid-turn boost, status, or weather change can reorder
		// still-pending actions, so the scheduler re-reads every
		// remaining action's speed and re-sorts before the next pop.
		l.refreshPendingSpeeds()
		l.Scheduler.Order(l.Battle)
	}

	l.Battle.PruneActiveMoves()
	return l.afterActions(ctx)
}

// refreshPendingSpeeds re-reads each pending action's Speed field in place,
// since scheduler.Action values are stored by value in the scheduler's
// internal slice.
func (l *Loop) refreshPendingSpeeds() {
	pending := l.Scheduler.Pending()
	l.Scheduler.Reset()
	for _, a := range pending {
		a.Speed = l.effectiveSpeed(a.User)
		l.Scheduler.Add(a)
	}
}

func (l *Loop) executeAction(ctx context.Context, action scheduler.Action) error {
	switch payload := action.Payload.(type) {
	case queuedSwitch:
		return l.executeSwitch(payload)
	case queuedItem:
		return l.executeItem(ctx, action.User, payload)
	case queuedMove:
		return l.executeMove(ctx, action.User, payload)
	default:
		return nil
	}
}

// executeSwitch implements one side's replacement of its active creature at
// localSlot with the player's chosen bench member: SwitchOut fires for the
// outgoing creature (if any), then the incoming creature takes the
// position and SwitchIn fires for it.
func (l *Loop) executeSwitch(sw queuedSwitch) error {
	player := sw.player
	if sw.teamIndex < 0 || sw.teamIndex >= len(player.Team) {
		return nil
	}
	incomingHandle := player.Team[sw.teamIndex]
	incoming, ok := l.Battle.Creature(incomingHandle)
	if !ok || incoming.Fainted || incoming.IsActive() {
		return nil
	}

	globalSlot, ok := player.GlobalSlots[sw.localSlot]
	if !ok {
		return nil
	}
	outgoingHandle := player.ActiveSlots[sw.localSlot]
	if outgoing, ok := l.Battle.Creature(outgoingHandle); ok && outgoing.Position != nil {
		l.Dispatch.RunEvent(dispatch.EventSwitchOut, outgoingHandle, model.NoCreature, nil, nil)
		l.clearVolatilesOnSwitch(outgoing)
		outgoing.Position = nil
	}

	incoming.Position = &model.Position{Side: player.SideIndex, Slot: globalSlot}
	player.Side.Active[globalSlot] = incomingHandle
	player.ActiveSlots[sw.localSlot] = incomingHandle

	l.Log.Add("switch").Pair("player", player.ID).Int("slot", globalSlot).Done()
	l.Dispatch.RunEvent(dispatch.EventSwitchIn, incomingHandle, model.NoCreature, nil, nil)
	return nil
}

// clearVolatilesOnSwitch drops every volatile condition from a creature
// leaving the field (spec glossary: "a transient per-creature state that
// ends on switch-out, faint, or explicit removal"), ending each through the
// links manager so any linked partner (e.g. a Leech-Seed-style tether) ends
// with it.
func (l *Loop) clearVolatilesOnSwitch(c *model.Creature) {
	for _, v := range append([]id.ID(nil), c.Volatiles...) {
		loc := model.CreatureLocation(c.Handle)
		l.Links.Remove(l.Battle.Effects, loc, v, func(loc model.EffectLocation, effectID id.ID) {
			l.Dispatch.RunEvent(dispatch.EventEndVolatile, loc.Creature, model.NoCreature, effectID, nil)
			l.Battle.Effects.End(loc, effectID)
			if loc.Kind == model.LocationCreature {
				if owner, ok := l.Battle.Creature(loc.Creature); ok {
					owner.RemoveVolatile(effectID)
				}
			}
		})
	}
}

// handleFaint marks a creature as fainted (idempotent: a creature already
// handled this turn is skipped), fires Faint, vacates its field position,
// and drops its volatiles the same way a switch-out does.
func (l *Loop) handleFaint(h model.CreatureHandle) {
	c, ok := l.Battle.Creature(h)
	if !ok || c.FaintedThisTurn {
		return
	}
	c.Fainted = true
	c.FaintedThisTurn = true
	l.Log.Add("faint").Pair("mon", fmt.Sprintf("%d", h)).Done()
	l.Dispatch.RunEvent(dispatch.EventFaint, h, model.NoCreature, nil, nil)
	l.clearVolatilesOnSwitch(c)
	if c.Position != nil {
		side := l.Battle.Sides[c.Position.Side]
		side.Active[c.Position.Slot] = model.NoCreature
		c.Position = nil
	}
}

// afterActions implements ResolveFaints: any active slot left empty by a
// faint this turn needs a forced replacement before the turn can proceed to
// residuals. A player with no eligible bench member left simply leaves that
// slot empty; spec §4.A's win condition is what ultimately ends the battle,
// not an inability to fill every slot.
func (l *Loop) afterActions(ctx context.Context) error {
	for _, c := range l.Battle.AllCreatures() {
		c.FaintedThisTurn = false
	}

	var slots []forcedSlot
	for _, side := range l.Battle.Sides {
		for _, player := range side.Players {
			for _, local := range sortedPlayerSlots(player) {
				handle := player.ActiveSlots[local]
				c, ok := l.Battle.Creature(handle)
				if !ok || !c.Fainted {
					continue
				}
				if !hasEligibleBench(l.Battle, player) {
					continue
				}
				slots = append(slots, forcedSlot{player: player, slot: local})
			}
		}
	}

	if len(slots) > 0 {
		l.forcedSlots = slots
		for _, side := range l.Battle.Sides {
			for _, player := range side.Players {
				player.Choice = nil
				player.Request = nil
			}
		}
		for _, fs := range slots {
			fs.player.Request = l.Requests.BuildSwitchRequest(fs.player, fs.slot)
		}
		l.phase = PhaseAwaitChoices
		return nil
	}

	return l.runResiduals(ctx)
}

// resolveForcedReplacements applies every submitted forced-switch choice
// (spec §4.I's ForceReplacements node), then proceeds straight to residuals:
// a faint-triggered replacement never re-opens ordinary move/switch choices
// for the rest of the side, it only fills the vacated slots.
func (l *Loop) resolveForcedReplacements(ctx context.Context) error {
	for _, fs := range l.forcedSlots {
		player := fs.player
		if player.Choice == nil {
			continue
		}
		for _, action := range player.Choice.Actions {
			if action.Kind != model.ChoiceSwitch {
				continue
			}
			if err := l.executeSwitch(queuedSwitch{player: player, localSlot: fs.slot, teamIndex: action.SwitchIndex, forced: true}); err != nil {
				return err
			}
			break
		}
	}
	l.forcedSlots = nil
	return l.runResiduals(ctx)
}

// hasEligibleBench reports whether player has any non-fainted, non-active
// bench member left to fill a vacated slot.
func hasEligibleBench(battle *model.Battle, player *model.Player) bool {
	for _, h := range player.Team {
		c, ok := battle.Creature(h)
		if !ok || c.Fainted || c.IsActive() {
			continue
		}
		return true
	}
	return false
}
