package dispatch

import (
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
)

// Frame is the scoped context one event dispatch runs inside. It is the
// Go re-architecture of the borrow-checked context-cache the original
// simulator used to make repeated "resolve this handle to its live struct"
// lookups cheap inside a single call stack: instead of an interior-mutable
// borrow cache, Frame holds a battle/registry pair for the dispatch's
// duration and exposes resolver helpers callbacks use instead of reaching
// into model.Battle directly. A Frame is created per RunEvent call and
// discarded when it returns; it never outlives the call that created it.
type Frame struct {
	Battle   *model.Battle
	Registry *registry.Registry
	Event    Event

	// RelayValue carries a modifier-chain event's running value (e.g. the
	// damage figure ModifyDamage callbacks progressively narrow) between
	// successive callback invocations within one RunEvent call.
	RelayValue any

	// Vetoed is set by a TryX-family callback that wants to cancel the
	// action outright; once true, RunEvent stops invoking further
	// callbacks and returns the zero relay value.
	Vetoed bool
	// VetoReason records why, for the battle log's "fail"/"miss" line.
	VetoReason string
}

// Creature resolves a handle through the frame's battle, surfaced here so
// callback bodies have one obvious place to do it without importing model
// directly for the common case.
func (f *Frame) Creature(h model.CreatureHandle) (*model.Creature, bool) {
	return f.Battle.Creature(h)
}

// Veto marks the current action cancelled. Safe to call more than once;
// only the first reason sticks.
func (f *Frame) Veto(reason string) {
	if f.Vetoed {
		return
	}
	f.Vetoed = true
	f.VetoReason = reason
}

// EffectStateStore is a convenience accessor.
func (f *Frame) EffectStateStore() *model.EffectStateStore {
	return f.Battle.Effects
}

// listener is one collected (location, effect, callback) tuple awaiting
// invocation, plus the speed of the creature it is anchored to (for tie
// order recomputation).
type listener struct {
	location model.EffectLocation
	effectID id.ID
	kind     registry.Kind
	cb       registry.Callback
	speed    int
}
