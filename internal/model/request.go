package model

import "github.com/embercore/battlecore/internal/id"

// RequestKind identifies which of the four request shapes a player is being
// asked to respond to.
type RequestKind int

const (
	RequestTeamOrder RequestKind = iota
	RequestTurn
	RequestSwitch
	RequestWait
)

// LegalMove describes one move a player may select in a turn request.
type LegalMove struct {
	ID             id.ID
	Slot           int
	PP             int
	MaxPP          int
	Disabled       bool
	Targets        []int // legal target slot numbers, signed per the choice grammar
	CanMega        bool
	CanDynamax     bool
	CanTera        bool
	CanZMove       bool
	CanUltraBurst  bool
}

// LegalSwitch describes one bench creature a player may switch into an
// active slot.
type LegalSwitch struct {
	TeamIndex int
	Creature  CreatureHandle
}

// SlotRequest is the per-active-slot content of a Turn request: the legal
// moves and whether switching out of this slot is currently legal.
type SlotRequest struct {
	Slot            int
	Creature        CreatureHandle
	Moves           []LegalMove
	CanSwitch       bool
	TrappedReason   id.ID // non-empty names the effect trapping the creature
	LockedIntoMove  bool  // true if Moves lists exactly one forced choice
	MustRecharge    bool
	LegalSwitches   []LegalSwitch
}

// Request is what the engine hands a player when it needs input. Exactly
// one of its fields is meaningful, selected by Kind.
type Request struct {
	Kind RequestKind

	// Turn request content, one entry per active slot the player controls.
	Slots []SlotRequest

	// Switch request content (forced mid-turn replacement after a faint, or
	// a move like U-turn/Roar).
	SwitchSlot      int
	LegalSwitches   []LegalSwitch
	ForcedSwitch    bool

	// TeamOrder request content: every team member the player may place
	// into the opening order.
	TeamMembers []CreatureHandle
}

// ChoiceAction is one directive within a semicolon-separated Choice, one per
// active slot the player controls.
type ChoiceAction struct {
	Kind ChoiceActionKind

	MoveSlot   int    // for ChoiceMove: index into the creature's Moves
	Target     int    // signed slot target, 0 = unspecified/auto
	Mega       bool
	Dynamax    bool
	Tera       bool
	ZMove      bool
	UltraBurst bool

	SwitchIndex int // for ChoiceSwitch: index into the player's Team

	ItemID id.ID // for ChoiceItem
}

// ChoiceActionKind names the kind of a single ChoiceAction.
type ChoiceActionKind int

const (
	ChoiceMove ChoiceActionKind = iota
	ChoiceSwitch
	ChoiceItem
	ChoicePass
	ChoiceForfeit
	ChoiceLearnMove
	ChoiceTeamOrder
)

// Choice is a player's full response to a Request: one ChoiceAction per slot
// it controls (or a single administrative action such as Forfeit/TeamOrder).
type Choice struct {
	Actions     []ChoiceAction
	TeamOrder   []int // for ChoiceTeamOrder: 1-indexed positions
	SubmittedAt int   // turn number the choice was submitted for
}
