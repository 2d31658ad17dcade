package model

import "github.com/embercore/battlecore/internal/id"

// LocationKind discriminates which kind of entity an EffectLocation
// addresses.
type LocationKind int

const (
	// LocationCreature locates an effect on a specific creature (its
	// primary status, or one of its volatile conditions).
	LocationCreature LocationKind = iota
	// LocationSide locates a side condition.
	LocationSide
	// LocationField locates weather, terrain, or a pseudo-weather.
	LocationField
	// LocationMove locates state scoped to a single active-move instance,
	// e.g. a charge-move's "must complete" flag.
	LocationMove
)

// EffectLocation identifies where an effect is applied. It is a value type
// so it can be used directly as a map key.
type EffectLocation struct {
	Kind     LocationKind
	Creature CreatureHandle // valid when Kind == LocationCreature
	Side     int            // valid when Kind == LocationSide
	Move     MoveHandle     // valid when Kind == LocationMove
}

// FieldLocation is the single EffectLocation value addressing the field.
var FieldLocation = EffectLocation{Kind: LocationField}

// CreatureLocation addresses the given creature.
func CreatureLocation(h CreatureHandle) EffectLocation {
	return EffectLocation{Kind: LocationCreature, Creature: h}
}

// SideLocation addresses the given side index.
func SideLocation(side int) EffectLocation {
	return EffectLocation{Kind: LocationSide, Side: side}
}

// MoveLocation addresses the given active-move instance.
func MoveLocation(h MoveHandle) EffectLocation {
	return EffectLocation{Kind: LocationMove, Move: h}
}

// EffectState is the arbitrary key/value bag attached to one applied effect
// (an ability, item, status, volatile, side condition, field condition, or
// active move). Fields used by the generic machinery (turns, duration,
// linking) are named; anything effect-specific goes in Extra.
type EffectState struct {
	// Turns counts how many residual ticks the effect has been active for.
	Turns int
	// Duration is the effect's total lifetime in turns, or 0 for
	// indefinite/condition-defined lifetimes.
	Duration int
	// Source identifies the creature that caused the effect to be applied,
	// used by effects whose behaviour depends on their source (e.g. Leech
	// Seed draining HP to its source).
	Source CreatureHandle
	// SourceEffect names the effect (move, ability, item) that caused this
	// effect to be applied, distinct from the entity that triggered it.
	SourceEffect id.ID
	// LinkedID is this effect's vertex identity in the Linked Effects
	// Manager's graph, assigned lazily on first link. Zero until linked.
	LinkedID LinkID
	// LinkedTo holds the LinkIDs of every effect this one is linked to.
	LinkedTo []LinkID
	// Extra carries effect-specific counters and flags (e.g. a Substitute's
	// remaining HP, Outrage's turns-remaining-before-confusion).
	Extra map[string]any
}

// NewEffectState constructs an empty EffectState ready for use.
func NewEffectState() *EffectState {
	return &EffectState{Extra: make(map[string]any)}
}

// Get returns the named extra value and whether it was present.
func (s *EffectState) Get(key string) (any, bool) {
	if s == nil || s.Extra == nil {
		return nil, false
	}
	v, ok := s.Extra[key]
	return v, ok
}

// Set stores a named extra value, allocating Extra lazily.
func (s *EffectState) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Extra == nil {
		s.Extra = make(map[string]any)
	}
	s.Extra[key] = value
}

// EffectStateStore is the Battle-owned map from (location, effect ID) to
// effect state, the single source of truth backing invariant 5: an entry
// exists if and only if the corresponding effect currently applies.
type EffectStateStore struct {
	byLocation map[EffectLocation]map[id.ID]*EffectState
}

// NewEffectStateStore constructs an empty store.
func NewEffectStateStore() *EffectStateStore {
	return &EffectStateStore{byLocation: make(map[EffectLocation]map[id.ID]*EffectState)}
}

// Apply creates (or replaces) the effect state for (loc, effectID) and
// returns it. Applying an effect that is already applied at that location
// overwrites its prior state, matching e.g. a status move re-triggering a
// volatile condition's setup.
func (store *EffectStateStore) Apply(loc EffectLocation, effectID id.ID) *EffectState {
	if store.byLocation[loc] == nil {
		store.byLocation[loc] = make(map[id.ID]*EffectState)
	}
	state := NewEffectState()
	store.byLocation[loc][effectID] = state
	return state
}

// Get returns the effect state for (loc, effectID), or nil if not applied.
func (store *EffectStateStore) Get(loc EffectLocation, effectID id.ID) *EffectState {
	byID := store.byLocation[loc]
	if byID == nil {
		return nil
	}
	return byID[effectID]
}

// Has reports whether (loc, effectID) is currently applied.
func (store *EffectStateStore) Has(loc EffectLocation, effectID id.ID) bool {
	return store.Get(loc, effectID) != nil
}

// End removes the effect state for (loc, effectID). It is a no-op if not
// applied. Callers are responsible for running the effect's own end-of-life
// callbacks (EndVolatile, etc.) before or after calling End; the store only
// tracks presence.
func (store *EffectStateStore) End(loc EffectLocation, effectID id.ID) {
	byID := store.byLocation[loc]
	if byID == nil {
		return
	}
	delete(byID, effectID)
	if len(byID) == 0 {
		delete(store.byLocation, loc)
	}
}

// ActiveAt enumerates the effect IDs currently applied at loc, in no
// particular order (insertion order is not tracked by the underlying map, so callers
// needing determinism should sort the result or rely on a separate ordered
// index; the engine's dispatch collection phase does the former).
func (store *EffectStateStore) ActiveAt(loc EffectLocation) []id.ID {
	byID := store.byLocation[loc]
	if len(byID) == 0 {
		return nil
	}
	ids := make([]id.ID, 0, len(byID))
	for effectID := range byID {
		ids = append(ids, effectID)
	}
	return ids
}
