// Package dispatch implements the event dispatcher (component E): the
// machinery that collects every registered callback relevant to a named
// event along a target's (and, where applicable, a source's) ownership
// chain, orders them deterministically, and invokes them in turn while
// honoring veto/accumulate/relay-value semantics and ability-suppression
// predicates. This is the busiest machinery in the engine; almost every
// other component (damage, scheduler, turn) calls into it rather than
// mutating battle state directly, so that every rule change only has to be
// expressed once, as a registered callback.
package dispatch

import (
	"context"
	"sort"

	"github.com/embercore/battlecore/internal/diagnostics"
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
)

// Dispatcher runs events against one battle's registry. It holds no
// per-call state itself (that lives in the Frame created per RunEvent); a
// single Dispatcher is reused for a battle's entire lifetime.
type Dispatcher struct {
	Battle   *model.Battle
	Registry *registry.Registry

	// Diag, if set, receives EventDispatchVeto and EventDispatchCallbackError
	// diagnostics events as RunEvent processes callbacks. Nil is valid and
	// simply means nothing is reported.
	Diag diagnostics.Publisher
}

// New constructs a Dispatcher bound to one battle and registry.
func New(battle *model.Battle, reg *registry.Registry) *Dispatcher {
	return &Dispatcher{Battle: battle, Registry: reg}
}

// RunEvent collects and invokes every callback registered for event along
// target's ownership chain (and source's, if source is set and differs from
// target), in priority order, passing relayValue through a ModifyX-family
// chain or stopping early if a TryX-family callback vetoes. It returns the
// final relay value (unchanged from the input if no callback touched it)
// and whether the event was vetoed.
func (d *Dispatcher) RunEvent(event Event, target, source model.CreatureHandle, arg any, relayValue any) (result any, vetoed bool, reason string) {
	frame := &Frame{Battle: d.Battle, Registry: d.Registry, Event: event, RelayValue: relayValue}

	listeners := d.collect(frame, target, source)
	d.order(listeners)

	for _, l := range listeners {
		if d.suppressed(frame, l) {
			continue
		}
		out, panicked := d.invoke(frame, l, arg, target)
		if panicked {
			return nil, true, "callback panic"
		}
		if frame.Vetoed {
			d.publishVeto(target, string(event), frame.VetoReason)
			return nil, true, frame.VetoReason
		}
		if out != nil {
			frame.RelayValue = out
		}
	}
	return frame.RelayValue, false, ""
}

// invoke calls l's callback, recovering a panic rather than letting one
// mis-scripted effect (a Lua callback with a nil-pointer bug, say) take the
// whole turn loop down with it. A panicking callback is reported and
// treated the same as an explicit veto: the event did not complete.
func (d *Dispatcher) invoke(frame *Frame, l listener, arg any, target model.CreatureHandle) (out any, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			d.publishCallbackError(target, string(frame.Event), r)
		}
	}()
	return l.cb.Handler(frame, l.effectID, arg), false
}

func (d *Dispatcher) publishVeto(target model.CreatureHandle, eventName, reason string) {
	if d.Diag == nil {
		return
	}
	d.Diag.Publish(context.Background(), diagnostics.DispatchVetoEvent(target, eventName, reason))
}

func (d *Dispatcher) publishCallbackError(target model.CreatureHandle, eventName string, recovered any) {
	if d.Diag == nil {
		return
	}
	d.Diag.Publish(context.Background(), diagnostics.DispatchCallbackErrorEvent(target, eventName, recovered))
}

// collect gathers every callback registered for frame.Event along the
// target's ownership chain: the target creature's ability, item, primary
// status, and volatiles (in that priority-relevant order), its side's
// conditions, the field's weather/terrain/pseudo-weathers, and — when
// source is set and distinct from target — the same chain rooted at
// source. A single creature/side/field is only ever visited once per call
// even if target == source (e.g. a self-targeted move), since the chain
// walk is driven by location, not by how many times a handle appears.
func (d *Dispatcher) collect(frame *Frame, target, source model.CreatureHandle) []listener {
	var out []listener
	visited := make(map[model.EffectLocation]bool)

	appendChain := func(h model.CreatureHandle) {
		c, ok := frame.Creature(h)
		if !ok {
			return
		}
		loc := model.CreatureLocation(h)
		if !visited[loc] {
			visited[loc] = true
			out = append(out, d.creatureListeners(frame, c, loc)...)
		}
		if c.Position != nil {
			sideLoc := model.SideLocation(c.Position.Side)
			if !visited[sideLoc] {
				visited[sideLoc] = true
				out = append(out, d.locationListeners(frame, sideLoc, registry.KindSideCondition)...)
			}
		}
		if !visited[model.FieldLocation] {
			visited[model.FieldLocation] = true
			out = append(out, d.fieldListeners(frame)...)
		}
	}

	appendChain(target)
	if source != model.NoCreature && source != target {
		appendChain(source)
	}
	return out
}

func (d *Dispatcher) creatureListeners(frame *Frame, c *model.Creature, loc model.EffectLocation) []listener {
	var out []listener
	add := func(kind registry.Kind, effectID id.ID) {
		if effectID == "" {
			return
		}
		desc, err := d.Registry.Lookup(kind, effectID)
		if err != nil {
			return
		}
		for _, cb := range desc.CallbacksFor(string(frame.Event)) {
			out = append(out, listener{location: loc, effectID: effectID, kind: kind, cb: cb, speed: effectiveSpeed(c)})
		}
	}
	add(registry.KindAbility, c.Ability)
	add(registry.KindItem, c.Item)
	add(registry.KindStatus, c.Status)
	for _, v := range c.Volatiles {
		add(registry.KindVolatile, v)
	}
	return out
}

func (d *Dispatcher) locationListeners(frame *Frame, loc model.EffectLocation, kind registry.Kind) []listener {
	var out []listener
	for _, effectID := range frame.EffectStateStore().ActiveAt(loc) {
		desc, err := d.Registry.Lookup(kind, effectID)
		if err != nil {
			continue
		}
		for _, cb := range desc.CallbacksFor(string(frame.Event)) {
			out = append(out, listener{location: loc, effectID: effectID, kind: kind, cb: cb})
		}
	}
	sortByID(out)
	return out
}

func (d *Dispatcher) fieldListeners(frame *Frame) []listener {
	var out []listener
	field := &frame.Battle.Field
	add := func(kind registry.Kind, effectID id.ID) {
		if effectID == "" {
			return
		}
		desc, err := d.Registry.Lookup(kind, effectID)
		if err != nil {
			return
		}
		for _, cb := range desc.CallbacksFor(string(frame.Event)) {
			out = append(out, listener{location: model.FieldLocation, effectID: effectID, kind: kind, cb: cb})
		}
	}
	add(registry.KindWeather, field.Weather)
	add(registry.KindTerrain, field.Terrain)
	for _, pw := range field.PseudoWeather {
		add(registry.KindPseudoWeather, pw)
	}
	return out
}

// sortByID imposes a deterministic order on listeners gathered from a map
// iteration (EffectStateStore.ActiveAt does not guarantee one), breaking
// ties by effect ID so two otherwise-equal-priority side conditions always
// fire in the same order across runs with identical state.
func sortByID(ls []listener) {
	sort.SliceStable(ls, func(i, j int) bool { return ls[i].effectID < ls[j].effectID })
}

// order imposes the final cross-chain invocation order: by callback
// priority descending, then sub-order ascending, then — for ties the
// registrations themselves don't break — by the anchor creature's
// effective speed descending. That speed is the figure collect recorded
// when RunEvent gathered the listeners, and RunEvent orders them once,
// before the first callback runs: a speed change made by a callback during
// the event does not reorder the callbacks still to run.
func (d *Dispatcher) order(ls []listener) {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].cb.Priority != ls[j].cb.Priority {
			return ls[i].cb.Priority > ls[j].cb.Priority
		}
		if ls[i].cb.SubOrder != ls[j].cb.SubOrder {
			return ls[i].cb.SubOrder < ls[j].cb.SubOrder
		}
		return ls[i].speed > ls[j].speed
	})
}

// suppressed reports whether l's callback should be skipped because some
// other active ability currently suppresses it: Neutralizing Gas suppresses
// every other ability's callbacks, Cloud Nine/Air Lock suppress
// weather-linked callbacks, for as long as they are active. The
// SuppressAbilitiesIgnoringThis scope (Mold Breaker) is not checked here,
// and no other code in the engine reads it: an ability declaring it does
// not cause target abilities to be bypassed.
func (d *Dispatcher) suppressed(frame *Frame, l listener) bool {
	if l.kind != registry.KindAbility && l.kind != registry.KindWeather {
		return false
	}
	for _, c := range frame.Battle.ActiveCreatures() {
		if c.Ability == "" {
			continue
		}
		desc, err := d.Registry.Lookup(registry.KindAbility, c.Ability)
		if err != nil {
			continue
		}
		switch desc.Suppresses {
		case registry.SuppressOtherAbilities:
			if l.kind == registry.KindAbility && !(l.location.Kind == model.LocationCreature && l.location.Creature == c.Handle) {
				return true
			}
		case registry.SuppressWeatherEffects:
			if l.kind == registry.KindWeather {
				return true
			}
		}
	}
	return false
}

// effectiveSpeed computes a creature's current speed stat after boosts.
// The speed the turn loop hands the scheduler (internal/turn's
// effectiveSpeed) additionally applies paralysis and ModifySpe callbacks,
// so the two figures differ when either is in play.
func effectiveSpeed(c *model.Creature) int {
	base := c.BaseStats.Get(model.StatSpeed)
	boost := c.Boosts.Get(model.StatSpeed)
	return int(float64(base) * model.Multiplier(boost))
}
