package model

import "github.com/embercore/battlecore/internal/id"

// Position is a creature's place on the field: a side and a slot within
// that side. A benched creature has no Position (Creature.Position is nil).
type Position struct {
	Side int
	Slot int
}

// MoveSlot is one of a creature's known moves.
type MoveSlot struct {
	ID         id.ID
	PP         int
	MaxPP      int
	Disabled   bool
	LastUsedAt int // turn number the move was last selected, 0 if never
}

// Creature is a single "mon" instance participating in the battle. Exactly
// one of these exists per team member for the life of the battle; it is
// never destroyed, only benched or fainted.
type Creature struct {
	Handle CreatureHandle

	Species id.ID
	Level   int
	Gender  string
	Nature  id.ID

	BaseStats BaseStatLine
	EVs       BaseStatLine
	IVs       BaseStatLine
	Boosts    Boosts

	CurrentHP int
	MaxHP     int
	Fainted   bool

	// Status is the creature's single primary status condition, or "" for
	// none (invariant 3: at most one primary status per creature).
	Status id.ID
	// Volatiles is the set of currently-applied volatile condition IDs. The
	// condition's actual state lives in the battle's EffectStateStore at
	// CreatureLocation(Handle); this set only records which IDs apply, in
	// application order, for deterministic enumeration.
	Volatiles []id.ID

	Item        id.ID // "" = no item held
	Ability     id.ID
	BaseAbility id.ID // the species' original ability, for Role Play/Skill Swap style recovery
	Types       []string

	Moves []MoveSlot

	// Position is nil when benched; otherwise the creature occupies exactly
	// one (side, slot) position (invariant 1).
	Position *Position

	// SpeedOrderCounter breaks speed ties deterministically in insertion
	// order when two creatures share identical effective speed and the
	// engine's tie-resolution mode is Keep.
	SpeedOrderCounter int

	Transformed       bool
	TransformedFromID id.ID

	LastMove        id.ID
	HiddenPowerType string
	Friendship      int

	// FaintedThisTurn marks a creature that fainted during the current
	// turn's resolution, before residuals ran; the scheduler uses it to
	// cancel any of that creature's still-pending actions.
	FaintedThisTurn bool
}

// HasVolatile reports whether id is currently in the creature's volatile set.
func (c *Creature) HasVolatile(vid id.ID) bool {
	for _, v := range c.Volatiles {
		if v == vid {
			return true
		}
	}
	return false
}

// AddVolatile appends vid to the volatile set if not already present.
func (c *Creature) AddVolatile(vid id.ID) {
	if c.HasVolatile(vid) {
		return
	}
	c.Volatiles = append(c.Volatiles, vid)
}

// RemoveVolatile drops vid from the volatile set.
func (c *Creature) RemoveVolatile(vid id.ID) {
	for i, v := range c.Volatiles {
		if v == vid {
			c.Volatiles = append(c.Volatiles[:i], c.Volatiles[i+1:]...)
			return
		}
	}
}

// IsActive reports whether the creature currently occupies a field position.
func (c *Creature) IsActive() bool { return c.Position != nil }

// HPPercent returns the creature's current HP as a percentage of its max,
// rounded the way the battle log reports it (floor, minimum 1 if HP > 0).
func (c *Creature) HPPercent() int {
	if c.MaxHP <= 0 {
		return 0
	}
	pct := c.CurrentHP * 100 / c.MaxHP
	if pct == 0 && c.CurrentHP > 0 {
		pct = 1
	}
	return pct
}

// MoveSlotByID finds the creature's move slot with the given ID.
func (c *Creature) MoveSlotByID(moveID id.ID) (*MoveSlot, bool) {
	for i := range c.Moves {
		if c.Moves[i].ID == moveID {
			return &c.Moves[i], true
		}
	}
	return nil, false
}
