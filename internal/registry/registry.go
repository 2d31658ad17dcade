// Package registry is the effect registry (component D): it holds one
// Descriptor per move/ability/item/status/volatile/side-condition/
// pseudo-weather/weather/terrain/clause known to a battle, each carrying the
// event callbacks dispatch invokes when that effect is active. Descriptors
// are read-only once registered; per-application runtime state lives in
// model.EffectStateStore, not here.
package registry

import (
	"sort"

	"github.com/embercore/battlecore/internal/berrors"
	"github.com/embercore/battlecore/internal/id"
)

// Kind classifies a Descriptor the same way model.LocationKind classifies an
// EffectLocation, plus the kinds that never get applied anywhere (moves,
// abilities, items, clauses, formats) and so never need a location at all.
type Kind int

const (
	KindMove Kind = iota
	KindAbility
	KindItem
	KindStatus
	KindVolatile
	KindSideCondition
	KindPseudoWeather
	KindWeather
	KindTerrain
	KindClause
	KindFormat
)

// Handler is one registered event callback. It receives the dispatch frame
// (as an opaque any to avoid an import cycle with internal/dispatch, which
// imports registry) cast by the caller to its concrete frame type, plus the
// event's own argument and the handle of the effect invoking it.
type Handler func(frame any, self id.ID, args any) any

// Callback is one entry in a Descriptor's event table: a handler plus the
// ordering and suppression metadata dispatch's collection phase needs.
type Callback struct {
	// Priority orders callbacks across different effects reacting to the
	// same event; higher runs first. Ties break by SubOrder, then by the
	// ownership-chain order dispatch's collection phase already imposes.
	Priority int
	// SubOrder breaks a Priority tie between callbacks of the same handler
	// kind (e.g. two abilities both at priority 0).
	SubOrder int
	Handler  Handler
}

// Descriptor is the registry's one record per known effect: its identity,
// its kind, and every event it has a callback for.
type Descriptor struct {
	ID   id.ID
	Kind Kind
	Name string

	// Callbacks maps an event name (see internal/dispatch's event catalogue)
	// to every callback this effect registers for it. Most effects register
	// for only a handful of events; an empty or nil map is valid (e.g. a
	// status move with no listed secondary effect, fully handled by the
	// damage pipeline alone).
	Callbacks map[string][]Callback

	// Suppresses names Cloud-Nine/Air-Lock/Neutralizing-Gas/Mold-Breaker
	// style suppression: when true, dispatch's collection phase skips
	// weather-linked callbacks (Cloud Nine/Air Lock) or every other active
	// ability's callbacks (Neutralizing Gas) for as long as this effect is
	// applied. The exact scope is decided by Kind and is documented on each
	// built-in descriptor, not generalized further here.
	Suppresses SuppressionScope
}

// SuppressionScope names what a suppressing effect suppresses.
type SuppressionScope int

const (
	SuppressNone SuppressionScope = iota
	SuppressWeatherEffects
	SuppressOtherAbilities
	SuppressAbilitiesIgnoringThis // Mold Breaker: this effect's own user ignores others' abilities
)

// Registry is the battle-lifetime store of every known Descriptor, keyed by
// normalized ID within its Kind (a move and an ability may legally share an
// ID string, e.g. a Z-move named after its base move).
type Registry struct {
	byKind map[Kind]map[id.ID]*Descriptor
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{byKind: make(map[Kind]map[id.ID]*Descriptor)}
}

// Register adds or replaces a Descriptor. Re-registering the same (Kind, ID)
// overwrites the prior entry, which lets built-in descriptors be overridden
// by a caller supplying a custom data set.
func (r *Registry) Register(d *Descriptor) {
	if r.byKind[d.Kind] == nil {
		r.byKind[d.Kind] = make(map[id.ID]*Descriptor)
	}
	r.byKind[d.Kind][d.ID] = d
}

// Lookup resolves a (Kind, ID) pair to its Descriptor.
func (r *Registry) Lookup(kind Kind, effectID id.ID) (*Descriptor, error) {
	byID := r.byKind[kind]
	if byID == nil {
		return nil, berrors.NotFound("effect", string(effectID))
	}
	d, ok := byID[effectID]
	if !ok {
		return nil, berrors.NotFound("effect", string(effectID))
	}
	return d, nil
}

// MustLookup resolves a (Kind, ID) pair, panicking on failure. Only valid
// where the caller has already validated the ID belongs to a registered
// effect (e.g. it was drawn from a request the validator already accepted);
// using it on unchecked input is itself an invariant violation.
func (r *Registry) MustLookup(kind Kind, effectID id.ID) *Descriptor {
	d, err := r.Lookup(kind, effectID)
	if err != nil {
		panic(err)
	}
	return d
}

// Has reports whether a (Kind, ID) pair is registered.
func (r *Registry) Has(kind Kind, effectID id.ID) bool {
	_, err := r.Lookup(kind, effectID)
	return err == nil
}

// CallbacksFor collects every callback a Descriptor registers for the named
// event, sorted by (Priority desc, SubOrder asc) so a single effect's own
// multiple registrations for one event fire in a deterministic order before
// dispatch's collection phase interleaves them with other effects along the
// ownership chain.
func (d *Descriptor) CallbacksFor(event string) []Callback {
	cbs := d.Callbacks[event]
	if len(cbs) == 0 {
		return nil
	}
	out := make([]Callback, len(cbs))
	copy(out, cbs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].SubOrder < out[j].SubOrder
	})
	return out
}
