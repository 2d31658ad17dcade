package model

import (
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/prng"
)

// EndReason names why a battle transitioned to Ended.
type EndReason string

const (
	EndNone      EndReason = ""
	EndWin       EndReason = "win"
	EndTie       EndReason = "tie"
	EndCancelled EndReason = "cancelled"
	EndForfeit   EndReason = "forfeit"
)

// Battle owns every sub-entity for one simulated match: sides, players,
// creatures, the field, the PRNG, the effect-state store, and the turn
// counter. Nothing outside the engine holds a mutable reference into a
// Battle's internals; all access goes through the owning packages
// (registry, dispatch, damage, scheduler, request, turn) that take a *Battle.
type Battle struct {
	Seed uint64
	RNG  *prng.Source

	Sides []*Side

	creatures *creatureArena

	Field Field

	Effects *EffectStateStore

	activeMoves    map[MoveHandle]*ActiveMove
	nextMoveHandle MoveHandle

	Turn int

	Ended     bool
	EndReason EndReason
	Winner    int // side index, or -1 for a tie/no winner

	// SpeedTieResolution governs how the scheduler breaks identical
	// effective-speed ties: Keep (insertion order), Reverse, or Random.
	SpeedTieResolution TieResolution

	// BaseDamageRandomization governs whether the damage pipeline's random
	// factor is rolled normally, or pinned to its minimum/maximum value for
	// deterministic testing.
	BaseDamageRandomization DamageRandomization

	nextSpeedOrder int
}

// TieResolution names how the scheduler breaks identical-speed ties.
type TieResolution int

const (
	TieKeep TieResolution = iota
	TieReverse
	TieRandom
)

// DamageRandomization names how the damage pipeline's random factor (§4.G
// step 11) is resolved.
type DamageRandomization int

const (
	DamageRandomized DamageRandomization = iota
	DamageMin
	DamageMax
)

// creatureArena is a thin wrapper so Battle can expose handle-stable
// creature storage without leaking the underlying arena type.
type creatureArena struct {
	entries []*Creature
}

// NewBattle constructs an empty Battle ready to have sides/creatures added
// by the caller (normally the options-loading code in internal/setup).
func NewBattle(seed uint64) *Battle {
	return &Battle{
		Seed:        seed,
		RNG:         prng.NewFromSeed(seed),
		creatures:   &creatureArena{},
		Effects:     NewEffectStateStore(),
		activeMoves: make(map[MoveHandle]*ActiveMove),
		Winner:      -1,
	}
}

// AddCreature registers a new creature and returns its stable handle.
func (b *Battle) AddCreature(c *Creature) CreatureHandle {
	b.creatures.entries = append(b.creatures.entries, c)
	h := CreatureHandle(len(b.creatures.entries))
	c.Handle = h
	b.nextSpeedOrder++
	c.SpeedOrderCounter = b.nextSpeedOrder
	return h
}

// Creature resolves a handle to its creature, or ok=false for an invalid
// handle.
func (b *Battle) Creature(h CreatureHandle) (*Creature, bool) {
	if h <= 0 || int(h) > len(b.creatures.entries) {
		return nil, false
	}
	return b.creatures.entries[h-1], true
}

// AllCreatures returns every registered creature, bench included, in
// registration order.
func (b *Battle) AllCreatures() []*Creature {
	return append([]*Creature(nil), b.creatures.entries...)
}

// ActiveCreatures returns every creature currently occupying a field
// position, in side/slot order.
func (b *Battle) ActiveCreatures() []*Creature {
	var out []*Creature
	for _, side := range b.Sides {
		for _, h := range side.Active {
			if h == NoCreature {
				continue
			}
			if c, ok := b.Creature(h); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// NewActiveMove creates a fresh ActiveMove instance for this turn's use and
// returns its handle.
func (b *Battle) NewActiveMove(m ActiveMove) MoveHandle {
	b.nextMoveHandle++
	h := b.nextMoveHandle
	m.Handle = h
	m.CreatedTurn = b.Turn
	entry := m
	b.activeMoves[h] = &entry
	return h
}

// ActiveMove resolves a move handle to its instance, valid for the current
// turn or the turn it was created on.
func (b *Battle) ActiveMove(h MoveHandle) (*ActiveMove, bool) {
	m, ok := b.activeMoves[h]
	return m, ok
}

// PruneActiveMoves disposes active-move instances created before the
// current turn, matching the lifecycle rule in spec §3 ("disposed at the
// end of the turn they were used on").
func (b *Battle) PruneActiveMoves() {
	for h, m := range b.activeMoves {
		if m.CreatedTurn < b.Turn {
			delete(b.activeMoves, h)
		}
	}
}

// CheckWinner evaluates whether exactly one side has any non-fainted
// creature remaining and, if so, sets Ended/EndReason/Winner. A battle with
// two or more sides still standing, or zero sides standing (a draw), is not
// yet decided by this check alone; the caller distinguishes draw from
// ongoing.
func (b *Battle) CheckWinner() {
	if b.Ended {
		return
	}
	standing := 0
	lastStanding := -1
	for _, side := range b.Sides {
		if !side.AllFainted(b) {
			standing++
			lastStanding = side.Index
		}
	}
	switch standing {
	case 0:
		b.Ended = true
		b.EndReason = EndTie
		b.Winner = -1
	case 1:
		b.Ended = true
		b.EndReason = EndWin
		b.Winner = lastStanding
	}
}

// Cancel transitions the battle to Ended with reason "cancelled", per spec
// §5's cancellation-at-any-suspension-point rule. Any outstanding request is
// implicitly invalidated: callers must stop waiting on it once Cancel
// returns.
func (b *Battle) Cancel() {
	if b.Ended {
		return
	}
	b.Ended = true
	b.EndReason = EndCancelled
	b.Winner = -1
}

// NormalizeID is a convenience re-export so callers building model values
// don't need a separate import of the id package for the common case.
func NormalizeID(s string) id.ID { return id.Normalize(s) }
