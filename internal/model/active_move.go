package model

import "github.com/embercore/battlecore/internal/id"

// TargetSpec resolves a move's declared target class into concrete handles
// at the moment it is used.
type TargetSpec struct {
	// Explicit is the player-chosen target slot, following the choice
	// grammar's signed-slot convention (positive = opposing slot, negative =
	// ally slot). Zero means "no explicit target was chosen" (single-target
	// auto-resolution, or a non-targeted move class).
	Explicit int
}

// ActiveMove is the transient, per-use instance created when a creature
// selects a move action. It carries the values the damage pipeline mutates
// as event callbacks fire (BasePower, Accuracy, Flags) and a link back to
// its own effect-state entry (MoveLocation(Handle)) for callbacks that need
// move-scoped storage, e.g. a charge move's "must complete" state.
type ActiveMove struct {
	Handle MoveHandle

	MoveID id.ID
	User   CreatureHandle
	Target TargetSpec

	BasePower int
	Accuracy  int // 0 means "always hits" (exempt)
	Category  MoveCategory
	Type      string

	Flags MoveFlags

	HitNumber    int // 1-indexed count of hits landed so far this use
	TotalHits    int // resolved multi-hit count, 0 until MultiHitType resolves it
	SourceEffect id.ID

	// NeverFaints marks a move (False Swipe, Hold Back) whose damage the
	// pipeline clamps so it can never reduce its target below 1 HP.
	NeverFaints bool

	// Used turn-indexes when this active move was created, so pruning can
	// identify entries from a prior turn.
	CreatedTurn int
}

// MoveCategory distinguishes physical, special, and status moves.
type MoveCategory int

const (
	CategoryPhysical MoveCategory = iota
	CategorySpecial
	CategoryStatus
)

// MoveFlags is a bitset of move metadata consumed by the damage pipeline and
// ability/item interactions (contact-triggered abilities, sound-move
// immunities, etc.), grounded on the original battler-data move_flag.rs
// shape.
type MoveFlags uint32

const (
	FlagContact MoveFlags = 1 << iota
	FlagSound
	FlagPunch
	FlagBite
	FlagPulse
	FlagBallistic
	FlagPowder
	FlagProtectable
	FlagReflectable // bounced by Magic Bounce/Magic Coat
	FlagMirror      // copyable by Mirror Move
	FlagHeal
	FlagDance
	FlagBypassSub
	// FlagCharge marks a two-turn move (Solar Beam, Fly, Dig): the first use
	// only charges (EventChargeMove fires, the locked-in follow-up use hits).
	FlagCharge
	// FlagRecharge marks a move (Hyper Beam, Giga Impact) whose user must
	// spend its entire next turn recharging (EventMustRecharge fires when
	// that volatile is imposed).
	FlagRecharge
)

// Has reports whether flag is set.
func (f MoveFlags) Has(flag MoveFlags) bool { return f&flag != 0 }

// MultiHitType describes how many times a multi-hit move strikes.
type MultiHitType struct {
	// Fixed, when non-zero, is an exact hit count (e.g. Double Hit = 2,
	// Triple Kick uses escalating power but fixed progression handled by the
	// move's own callbacks rather than this field).
	Fixed int
	// WeightedTwoToFive indicates the classic 2/5-2/5-1/5-1/5-1/5 hit-count
	// distribution used by moves like Bullet Seed.
	WeightedTwoToFive bool
}

// SelfDestructType describes whether using a move faints its user.
type SelfDestructType int

const (
	SelfDestructNever SelfDestructType = iota
	SelfDestructAlways
	SelfDestructIfHits
)
