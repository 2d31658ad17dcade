package model

import "github.com/embercore/battlecore/internal/id"

// Side is a coalition of one or more players sharing a win/loss condition
// and a shared bank of side conditions (Reflect, Stealth Rock, Tailwind,
// ...). Index is the side's position in Battle.Sides and doubles as its
// EffectLocation.Side key and the slot-targeting origin used by the choice
// grammar's signed target integers.
type Side struct {
	Name  string
	Index int

	Players []*Player

	// SlotCount is how many creatures this side can have active
	// simultaneously (1 for singles, 2 for doubles, ...).
	SlotCount int

	// Conditions records which side-condition IDs are currently applied, in
	// application order. State (turns, counters, source) lives in the
	// battle's EffectStateStore at SideLocation(Index).
	Conditions []id.ID

	// Active holds the creature occupying each slot, or NoCreature for an
	// empty slot (fainted and not yet replaced, or a format with fewer
	// active creatures than SlotCount).
	Active []CreatureHandle
}

// HasCondition reports whether cid is currently applied to this side.
func (s *Side) HasCondition(cid id.ID) bool {
	for _, c := range s.Conditions {
		if c == cid {
			return true
		}
	}
	return false
}

// AddCondition records cid as applied if not already present.
func (s *Side) AddCondition(cid id.ID) {
	if s.HasCondition(cid) {
		return
	}
	s.Conditions = append(s.Conditions, cid)
}

// RemoveCondition drops cid from the applied set.
func (s *Side) RemoveCondition(cid id.ID) {
	for i, c := range s.Conditions {
		if c == cid {
			s.Conditions = append(s.Conditions[:i], s.Conditions[i+1:]...)
			return
		}
	}
}

// AllFainted reports whether every creature on every player's team on this
// side has fainted, the per-side win/loss condition.
func (s *Side) AllFainted(battle *Battle) bool {
	for _, p := range s.Players {
		for _, h := range p.Team {
			c, ok := battle.Creature(h)
			if !ok {
				continue
			}
			if !c.Fainted {
				return false
			}
		}
	}
	return true
}
