// Package request implements the choice/request machine (component H): it
// builds the per-player Request a turn loop hands out whenever a player
// must act, parses the wire choice grammar spec §4.H defines into a
// model.Choice, and validates a submitted choice against the request it
// answers before the turn loop is allowed to turn it into scheduled
// actions.
package request

import (
	"sort"
	"strconv"
	"strings"

	"github.com/embercore/battlecore/internal/berrors"
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
)

// LockedMoveKey is the EffectState.Extra key a volatile condition sets to
// pin a creature's next choice to exactly one move slot (Outrage, Thrash,
// Rollout, Bide, Encore). The value is the move's normalized ID. Exported so
// internal/turn can consult the same convention when it fires EventLockMove
// for the move a locked-in creature is about to use.
const LockedMoveKey = "locked_move_id"

// trappedKey is the EffectState.Extra key whatever applies a trap (Mean
// Look, Arena Trap's runtime marker, ...) sets to true on one of the
// trapped creature's own volatile states; trapReason reports that
// volatile's ID as the reason switching is currently illegal. The request
// builder only reads it.
const trappedKey = "traps_creature"

// Builder constructs Requests for one battle.
type Builder struct {
	Battle *model.Battle
}

// New constructs a Builder bound to battle.
func New(battle *model.Battle) *Builder {
	return &Builder{Battle: battle}
}

// BuildTurnRequest builds the Turn-kind request for every active slot a
// player controls, per spec §4.H: legal moves (with PP, disable status,
// target specifier, locked_into_move), whether switching is legal, and
// which bench creatures are eligible.
func (b *Builder) BuildTurnRequest(player *model.Player) *model.Request {
	req := &model.Request{Kind: model.RequestTurn}
	for _, slot := range sortedSlots(player) {
		handle := player.ActiveSlots[slot]
		c, ok := b.Battle.Creature(handle)
		if !ok || c.Fainted {
			continue
		}
		req.Slots = append(req.Slots, b.buildSlot(player, slot, c))
	}
	return req
}

func (b *Builder) buildSlot(player *model.Player, slot int, c *model.Creature) model.SlotRequest {
	sr := model.SlotRequest{Slot: slot, Creature: c.Handle}

	locked, lockedID := b.LockedMove(c)
	mustRecharge := c.HasVolatile(id.Normalize("mustrecharge"))
	sr.MustRecharge = mustRecharge

	for i, ms := range c.Moves {
		if locked && ms.ID != lockedID {
			continue
		}
		sr.Moves = append(sr.Moves, model.LegalMove{
			ID:       ms.ID,
			Slot:     i,
			PP:       ms.PP,
			MaxPP:    ms.MaxPP,
			Disabled: ms.Disabled || ms.PP <= 0,
			Targets:  b.legalTargets(player, c),
		})
	}
	sr.LockedIntoMove = locked

	trapReason := b.trapReason(c)
	sr.TrappedReason = trapReason
	sr.CanSwitch = trapReason == "" && !mustRecharge

	if sr.CanSwitch {
		sr.LegalSwitches = b.legalSwitches(player)
	}
	return sr
}

// LockedMove reports whether c's choice this turn is pinned to a single
// move, and which one, by consulting every volatile's effect state for the
// shared LockedMoveKey.
func (b *Builder) LockedMove(c *model.Creature) (bool, id.ID) {
	for _, v := range c.Volatiles {
		state := b.Battle.Effects.Get(model.CreatureLocation(c.Handle), v)
		if state == nil {
			continue
		}
		if raw, ok := state.Get(LockedMoveKey); ok {
			if mid, ok := raw.(id.ID); ok && mid != "" {
				return true, mid
			}
		}
	}
	return false, ""
}

// trapReason returns the name of whichever applied effect currently traps
// c, or "" if none does.
func (b *Builder) trapReason(c *model.Creature) id.ID {
	for _, v := range c.Volatiles {
		state := b.Battle.Effects.Get(model.CreatureLocation(c.Handle), v)
		if state == nil {
			continue
		}
		if trapped, ok := state.Get(trappedKey); ok {
			if b, ok := trapped.(bool); ok && b {
				return v
			}
		}
	}
	return ""
}

// legalTargets enumerates the signed target slots valid for c's moves
// given the current field shape: every occupied opposing slot as a
// positive number, every occupied ally slot other than c's own as a
// negative number. Move-specific target-class narrowing (self-only,
// all-adjacent, ...) is applied by the caller consulting the move
// descriptor; this only enumerates what the field geometry allows at all.
func (b *Builder) legalTargets(player *model.Player, c *model.Creature) []int {
	if c.Position == nil {
		return nil
	}
	var out []int
	for _, side := range b.Battle.Sides {
		for slot, h := range side.Active {
			if h == model.NoCreature {
				continue
			}
			other, ok := b.Battle.Creature(h)
			if !ok || other.Fainted {
				continue
			}
			if side.Index == c.Position.Side {
				if h == c.Handle {
					continue
				}
				out = append(out, -(slot + 1))
			} else {
				out = append(out, slot+1)
			}
		}
	}
	return out
}

// legalSwitches enumerates player's non-fainted, non-active bench members.
func (b *Builder) legalSwitches(player *model.Player) []model.LegalSwitch {
	var out []model.LegalSwitch
	for i, h := range player.Team {
		c, ok := b.Battle.Creature(h)
		if !ok || c.Fainted || c.IsActive() {
			continue
		}
		out = append(out, model.LegalSwitch{TeamIndex: i, Creature: h})
	}
	return out
}

// BuildSwitchRequest builds a forced mid-turn replacement request for one
// slot (after a faint, or a move like Roar/U-turn), naming which bench
// members are eligible.
func (b *Builder) BuildSwitchRequest(player *model.Player, slot int) *model.Request {
	return &model.Request{
		Kind:          model.RequestSwitch,
		SwitchSlot:    slot,
		LegalSwitches: b.legalSwitches(player),
		ForcedSwitch:  true,
	}
}

// BuildTeamOrderRequest builds the opening team-preview request, listing
// every team member the player may place into the opening order.
func (b *Builder) BuildTeamOrderRequest(player *model.Player) *model.Request {
	return &model.Request{Kind: model.RequestTeamOrder, TeamMembers: append([]model.CreatureHandle(nil), player.Team...)}
}

// sortedSlots returns a player's ActiveSlots keys ascending by slot index,
// so BuildTurnRequest's output slot order never depends on map iteration.
func sortedSlots(player *model.Player) []int {
	out := make([]int, 0, len(player.ActiveSlots))
	for k := range player.ActiveSlots {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// ParseChoice parses one player's semicolon-separated choice string per
// spec §4.H's grammar into a model.Choice. It performs only syntactic
// parsing; Validate checks the result against the request it answers.
func ParseChoice(raw string, turn int) (*model.Choice, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, berrors.Validation("choice", "empty choice")
	}
	choice := &model.Choice{SubmittedAt: turn}
	for _, directive := range strings.Split(raw, ";") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}
		action, teamOrder, err := parseDirective(directive)
		if err != nil {
			return nil, err
		}
		if teamOrder != nil {
			choice.TeamOrder = teamOrder
			continue
		}
		choice.Actions = append(choice.Actions, *action)
	}
	if len(choice.Actions) == 0 && choice.TeamOrder == nil {
		return nil, berrors.Validation("choice", "no directives parsed")
	}
	return choice, nil
}

func parseDirective(directive string) (*model.ChoiceAction, []int, error) {
	parts := strings.Split(directive, ",")
	head := strings.Fields(parts[0])
	if len(head) == 0 {
		return nil, nil, berrors.Validation("choice", "empty directive")
	}
	verb := strings.ToLower(head[0])

	switch verb {
	case "pass":
		return &model.ChoiceAction{Kind: model.ChoicePass}, nil, nil
	case "forfeit":
		return &model.ChoiceAction{Kind: model.ChoiceForfeit}, nil, nil
	case "switch":
		if len(head) < 2 {
			return nil, nil, berrors.Validation("choice", "switch requires a bench index")
		}
		idx, err := strconv.Atoi(head[1])
		if err != nil {
			return nil, nil, berrors.Validation("choice", "switch index must be an integer")
		}
		return &model.ChoiceAction{Kind: model.ChoiceSwitch, SwitchIndex: idx}, nil, nil
	case "item":
		if len(head) < 2 {
			return nil, nil, berrors.Validation("choice", "item requires an item id")
		}
		action := &model.ChoiceAction{Kind: model.ChoiceItem, ItemID: id.Normalize(head[1])}
		if len(parts) > 1 {
			target, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				action.Target = target
			}
		}
		return action, nil, nil
	case "team":
		if len(head) < 2 {
			return nil, nil, berrors.Validation("choice", "team requires an order")
		}
		var order []int
		for _, tok := range strings.Fields(strings.Join(head[1:], " ")) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, nil, berrors.Validation("choice", "team order must be integers")
			}
			order = append(order, n)
		}
		return nil, order, nil
	case "move":
		if len(head) < 2 {
			return nil, nil, berrors.Validation("choice", "move requires a slot index")
		}
		slot, err := strconv.Atoi(head[1])
		if err != nil {
			return nil, nil, berrors.Validation("choice", "move slot must be an integer")
		}
		action := &model.ChoiceAction{Kind: model.ChoiceMove, MoveSlot: slot}
		for _, mod := range parts[1:] {
			mod = strings.TrimSpace(mod)
			if mod == "" {
				continue
			}
			if n, err := strconv.Atoi(mod); err == nil {
				action.Target = n
				continue
			}
			switch strings.ToLower(mod) {
			case "mega":
				action.Mega = true
			case "dyna", "dynamax":
				action.Dynamax = true
			case "tera", "terastallize":
				action.Tera = true
			case "zmove", "z-move":
				action.ZMove = true
			case "ultra", "ultraburst":
				action.UltraBurst = true
			default:
				return nil, nil, berrors.Validation("choice", "unknown move modifier "+mod)
			}
		}
		return action, nil, nil
	case "learnmove":
		return &model.ChoiceAction{Kind: model.ChoiceLearnMove}, nil, nil
	default:
		return nil, nil, berrors.Validation("choice", "unknown directive verb "+verb)
	}
}
