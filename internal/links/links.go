// Package links implements the Linked Effects Manager (component K): two
// applied effects can be linked so that ending either one ends both, used
// by effect pairs that must share a lifetime (a substitute-like effect and
// the visual/state tracker riding alongside it, a future-sight-style
// delayed hit and its scheduling marker). A link is symmetric and
// propagates exactly one hop: ending effect A ends everything directly
// linked to A, but does not chase further outward from those, which is
// what keeps a link graph with a cycle in it from recursing forever.
package links

import (
	"context"

	"github.com/google/uuid"

	"github.com/embercore/battlecore/internal/diagnostics"
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
)

// Manager tracks which model.LinkID values are currently live and which
// applied effect each one belongs to, so Remove can find an effect's
// linked partners starting from nothing but its own location and ID.
type Manager struct {
	byLink map[model.LinkID]appliedEffect

	// Diag, if set, receives an EventLinkRemoved event for every linked
	// partner Remove ends as a side effect of ending the effect it was
	// called on. Nil is valid and simply means nothing is reported.
	Diag diagnostics.Publisher
}

type appliedEffect struct {
	location model.EffectLocation
	effectID id.ID
}

// New constructs an empty Manager.
func New() *Manager { return &Manager{byLink: make(map[model.LinkID]appliedEffect)} }

// linkIDFor returns the effect's existing LinkID, assigning and recording a
// fresh one on first use. Returns ok=false if the effect has no applied
// state at all (it was never applied, or has already ended).
func (m *Manager) linkIDFor(store *model.EffectStateStore, loc model.EffectLocation, effectID id.ID) (model.LinkID, bool) {
	state := store.Get(loc, effectID)
	if state == nil {
		return "", false
	}
	if state.LinkedID != model.NoLink {
		return state.LinkedID, true
	}
	newID := model.LinkID(uuid.NewString())
	state.LinkedID = newID
	m.byLink[newID] = appliedEffect{location: loc, effectID: effectID}
	return newID, true
}

// Link connects two applied effects so that ending either ends the other.
// Returns false if either side has no applied state to link (the caller is
// expected to have just applied both, so this should not normally happen;
// when it does, nothing is linked and both effects keep their independent
// lifetimes).
func (m *Manager) Link(store *model.EffectStateStore, locA model.EffectLocation, idA id.ID, locB model.EffectLocation, idB id.ID) bool {
	aID, ok := m.linkIDFor(store, locA, idA)
	if !ok {
		return false
	}
	bID, ok := m.linkIDFor(store, locB, idB)
	if !ok {
		return false
	}
	store.Get(locA, idA).LinkedTo = append(store.Get(locA, idA).LinkedTo, bID)
	store.Get(locB, idB).LinkedTo = append(store.Get(locB, idB).LinkedTo, aID)
	return true
}

// EndFunc ends one applied effect: runs its own end-of-life callback (the
// registry's EventEnd, typically) and removes it from the EffectStateStore.
// Remove calls this once for the primary effect and once per directly
// linked partner; it never calls it twice for the same (location, id) pair
// within one Remove call even if a pathological link graph would otherwise
// revisit one.
type EndFunc func(loc model.EffectLocation, effectID id.ID)

// Remove ends the applied effect at (loc, effectID) via end, then ends
// every effect directly linked to it (also via end), without chasing links
// beyond that first hop. If the effect was never linked, only it itself is
// ended.
func (m *Manager) Remove(store *model.EffectStateStore, loc model.EffectLocation, effectID id.ID, end EndFunc) {
	state := store.Get(loc, effectID)
	if state == nil {
		return
	}

	var toPropagate []model.LinkID
	if state.LinkedID != model.NoLink {
		toPropagate = append([]model.LinkID(nil), state.LinkedTo...)
		delete(m.byLink, state.LinkedID)
	}

	end(loc, effectID)

	for _, linkID := range toPropagate {
		partner, ok := m.byLink[linkID]
		if !ok {
			// Already removed by an earlier step in this same call (a
			// mutual link between the two effects we started from), or
			// never existed; either way there is nothing left to end.
			continue
		}
		delete(m.byLink, linkID)
		end(partner.location, partner.effectID)
		if m.Diag != nil {
			m.Diag.Publish(context.Background(), diagnostics.LinkRemovedEvent(partner.location, string(partner.effectID), string(linkID)))
		}
	}
}
