// Package scheduler implements the action scheduler (component F): it
// takes every action a turn's choices produced and returns the order the
// turn loop should execute them in, honoring the fixed priority classes,
// move-priority bracket, and effective-speed tiebreak spec §4.F defines.
package scheduler

import (
	"context"
	"sort"

	"github.com/embercore/battlecore/internal/diagnostics"
	"github.com/embercore/battlecore/internal/model"
)

// ActionClass is the coarse priority bracket an action belongs to, ordered
// highest-first: forced replacement actions always resolve before any item
// use, which always resolves before any switch, which always resolves
// before mega evolution/form changes, which always resolve before moves,
// which always resolve before residual/end-of-turn bookkeeping actions (the
// scheduler never actually orders residuals against each other here —
// internal/turn invokes them directly once every action-class above has
// resolved).
type ActionClass int

const (
	ClassForcedReplacement ActionClass = iota
	ClassItem
	ClassSwitch
	ClassMegaOrForm
	ClassMove
	ClassResidual
)

// Action is one scheduled unit of work: who acts, what class it belongs to,
// and (for ClassMove) the move's priority bracket and the user's effective
// speed at the moment the action was picked.
type Action struct {
	Class ActionClass
	User  model.CreatureHandle

	// MovePriority is the move's priority value (-7..+5 in the reference
	// game data); meaningless outside ClassMove, where it defaults to 0.
	MovePriority int

	// Speed is the user's effective speed as the caller last set it; Order
	// compares this field and never recomputes it. The turn loop
	// (internal/turn's refreshPendingSpeeds) re-reads every pending actor's
	// speed before each re-Order, so a boost, status, or new weather from
	// an action already resolved this turn is taken into account.
	Speed int

	// InsertOrder is the order actions were originally added in, the
	// scheduler's final tiebreak under TieKeep/TieReverse.
	InsertOrder int

	// Payload is scheduler-opaque data the turn loop attaches (e.g. the
	// model.ChoiceAction or model.ActiveMove this Action executes); the
	// scheduler only ever reads Class/User/MovePriority/Speed.
	Payload any
}

// Scheduler orders a turn's actions. It holds no battle reference itself;
// Order reads the *model.Battle it is passed only for the tie-resolution
// mode and the RNG behind random tie resolution.
type Scheduler struct {
	actions []Action
	next    int

	// Diag, if set, receives an EventSchedulerReorder event every time a
	// TieRandom coin flip actually swaps two actions out of their natural
	// insertion order. Nil is valid and simply means nothing is reported.
	Diag diagnostics.Publisher
}

// New constructs an empty Scheduler.
func New() *Scheduler { return &Scheduler{} }

// Add appends an action, stamping its InsertOrder.
func (s *Scheduler) Add(a Action) {
	a.InsertOrder = s.next
	s.next++
	s.actions = append(s.actions, a)
}

// Insert adds an action that should be considered alongside actions already
// scheduled this turn (e.g. a move that causes another creature to act
// immediately, like Dancer, Instruct, or Pursuit's redirection) rather than
// only at the next turn's scheduling pass. Insert gives the new action a
// fresh InsertOrder so Keep-mode ties still place it after everything
// already queued.
func (s *Scheduler) Insert(a Action) { s.Add(a) }

// Remove drops every not-yet-resolved action belonging to user, used when a
// creature faints or becomes otherwise unable to act before its turn comes
// up (spec's "cancel pending actions on faint" rule).
func (s *Scheduler) Remove(user model.CreatureHandle) {
	kept := s.actions[:0]
	for _, a := range s.actions {
		if a.User != user {
			kept = append(kept, a)
		}
	}
	s.actions = kept
}

// Pending returns the not-yet-popped actions, for inspection (e.g. request
// validation deciding whether a switch is still legal).
func (s *Scheduler) Pending() []Action {
	return append([]Action(nil), s.actions...)
}

// Order sorts the scheduler's pending actions into final execution order
// per spec §4.F: ascending ActionClass (forced replacement first), then
// descending move priority (ClassMove only — every other class compares
// equal on this axis), then descending effective speed, then the
// configured TieResolution for any actions still tied after all of the
// above. Order does not pop actions; call Pop to consume them one at a
// time as the turn loop executes each and may need to Remove others
// in response (a faint, a forced switch).
func (s *Scheduler) Order(battle *model.Battle) {
	tie := battle.SpeedTieResolution
	rng := battle.RNG

	// A Random tiebreak is resolved once per pair of InsertOrder values
	// using a value drawn the first time that pair is compared, cached here
	// rather than rerolled on every comparison a less-than-total sort might
	// perform. The cache lives for this Order call only: when the turn loop
	// re-orders after a resolved action, a still-tied pair is rolled again.
	randomTiebreak := make(map[[2]int]bool)
	tiebreak := func(a, b Action) bool {
		switch tie {
		case model.TieReverse:
			return a.InsertOrder > b.InsertOrder
		case model.TieRandom:
			key := [2]int{a.InsertOrder, b.InsertOrder}
			if v, ok := randomTiebreak[key]; ok {
				return v
			}
			v := rng.Chance(1, 2)
			randomTiebreak[key] = v
			randomTiebreak[[2]int{b.InsertOrder, a.InsertOrder}] = !v
			if s.Diag != nil && v == (a.InsertOrder > b.InsertOrder) {
				first, second := a, b
				if !v {
					first, second = b, a
				}
				s.Diag.Publish(context.Background(), diagnostics.SchedulerReorderEvent(first.User, second.User))
			}
			return v
		default: // TieKeep
			return a.InsertOrder < b.InsertOrder
		}
	}

	sort.SliceStable(s.actions, func(i, j int) bool {
		a, b := s.actions[i], s.actions[j]
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if a.Class == ClassMove && a.MovePriority != b.MovePriority {
			return a.MovePriority > b.MovePriority
		}
		if a.Speed != b.Speed {
			return a.Speed > b.Speed
		}
		return tiebreak(a, b)
	})
}

// Pop removes and returns the first pending action, or ok=false if none
// remain.
func (s *Scheduler) Pop() (Action, bool) {
	if len(s.actions) == 0 {
		return Action{}, false
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, true
}

// Len reports how many actions remain pending.
func (s *Scheduler) Len() int { return len(s.actions) }

// Reset clears the scheduler for the next turn.
func (s *Scheduler) Reset() {
	s.actions = nil
	s.next = 0
}
