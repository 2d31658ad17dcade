package turn

import (
	"context"

	"github.com/embercore/battlecore/internal/dataapi"
	"github.com/embercore/battlecore/internal/dispatch"
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/scheduler"
)

// queuedMove carries the data execute.go needs to run a ClassMove action
// beyond what scheduler.Action itself tracks generically.
type queuedMove struct {
	action model.ChoiceAction
	desc   dataapi.MoveDescriptor
}

// queuedSwitch carries the data execute.go needs to run a switch action.
type queuedSwitch struct {
	player      *model.Player
	localSlot   int
	teamIndex   int
	forced      bool
}

// queuedItem carries the data execute.go needs to run an item-use action.
type queuedItem struct {
	action model.ChoiceAction
}

// buildTurnActions converts every player's submitted Choice into scheduler
// actions and enqueues them, per spec §4.F's action-class/priority rules.
// A player whose choice is missing contributes nothing.
func (l *Loop) buildTurnActions(ctx context.Context) error {
	l.Scheduler.Reset()
	for _, side := range l.Battle.Sides {
		for _, player := range side.Players {
			if player.Choice == nil {
				continue
			}
			for i, action := range player.Choice.Actions {
				if err := l.enqueueAction(ctx, player, i, action); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (l *Loop) enqueueAction(ctx context.Context, player *model.Player, slotIdx int, action model.ChoiceAction) error {
	localSlots := sortedPlayerSlots(player)
	var localSlot int
	if slotIdx < len(localSlots) {
		localSlot = localSlots[slotIdx]
	}
	handle := player.ActiveSlots[localSlot]

	switch action.Kind {
	case model.ChoicePass, model.ChoiceForfeit, model.ChoiceLearnMove, model.ChoiceTeamOrder:
		return nil
	case model.ChoiceSwitch:
		l.Scheduler.Add(scheduler.Action{
			Class: scheduler.ClassSwitch,
			User:  handle,
			Speed: l.effectiveSpeed(handle),
			Payload: queuedSwitch{player: player, localSlot: localSlot, teamIndex: action.SwitchIndex},
		})
		return nil
	case model.ChoiceItem:
		l.Scheduler.Add(scheduler.Action{
			Class:   scheduler.ClassItem,
			User:    handle,
			Speed:   l.effectiveSpeed(handle),
			Payload: queuedItem{action: action},
		})
		return nil
	case model.ChoiceMove:
		return l.enqueueMove(ctx, handle, action)
	default:
		return nil
	}
}

func (l *Loop) enqueueMove(ctx context.Context, handle model.CreatureHandle, action model.ChoiceAction) error {
	c, ok := l.Battle.Creature(handle)
	if !ok || c.Fainted {
		return nil
	}
	if action.MoveSlot < 0 || action.MoveSlot >= len(c.Moves) {
		return nil
	}
	moveID := c.Moves[action.MoveSlot].ID
	desc, err := l.Store.Move(ctx, string(moveID))
	if err != nil {
		return err
	}
	l.Scheduler.Add(scheduler.Action{
		Class:        scheduler.ClassMove,
		User:         handle,
		MovePriority: desc.Priority,
		Speed:        l.effectiveSpeed(handle),
		Payload:      queuedMove{action: action, desc: desc},
	})
	return nil
}

// effectiveSpeed computes a creature's current speed stat after boosts and
// paralysis, matching the figure dispatch uses for its own speed-based tie
// order (internal/dispatch.effectiveSpeed), plus the paralysis and Choice
// Scarf style multipliers this package's own callers are responsible for
// registering via ModifySpe (read here through the dispatcher so the
// scheduler's ordering agrees with every other speed-dependent decision).
func (l *Loop) effectiveSpeed(h model.CreatureHandle) int {
	c, ok := l.Battle.Creature(h)
	if !ok {
		return 0
	}
	base := float64(c.BaseStats.Get(model.StatSpeed)) * model.Multiplier(c.Boosts.Get(model.StatSpeed))
	if c.Status == paralysisID {
		base *= 0.5
	}
	if relay, vetoed, _ := l.Dispatch.RunEvent(dispatch.EventModifySpe, h, model.NoCreature, nil, base); !vetoed {
		if f, ok := relay.(float64); ok {
			base = f
		}
	}
	return int(base)
}

var paralysisID = id.Normalize("par")
