package request

import (
	"fmt"

	"github.com/embercore/battlecore/internal/berrors"
	"github.com/embercore/battlecore/internal/model"
)

// Validate checks choice against the request it is meant to answer,
// rejecting unknown moves, out-of-PP moves, disabled moves, illegal
// switches (trapped, fainted target), and illegal targets for the move's
// target class, per spec §4.H. It does not mutate battle state; a
// ValidationErr return leaves the player's request slot untouched (spec
// §7's error policy), so the caller can re-prompt the same player.
func Validate(req *model.Request, choice *model.Choice) error {
	switch req.Kind {
	case model.RequestTeamOrder:
		return validateTeamOrder(req, choice)
	case model.RequestSwitch:
		return validateForcedSwitch(req, choice)
	case model.RequestTurn:
		return validateTurn(req, choice)
	case model.RequestWait:
		if len(choice.Actions) != 0 {
			return berrors.Validation("choice", "no action expected this phase")
		}
		return nil
	default:
		return berrors.Invariant("request-kind", fmt.Sprintf("unknown request kind %d", req.Kind))
	}
}

func validateTeamOrder(req *model.Request, choice *model.Choice) error {
	if len(choice.TeamOrder) == 0 {
		return berrors.Validation("choice", "team order is required")
	}
	seen := make(map[int]bool, len(choice.TeamOrder))
	for _, pos := range choice.TeamOrder {
		if pos < 1 || pos > len(req.TeamMembers) {
			return berrors.Validation("choice", fmt.Sprintf("team position %d out of range", pos))
		}
		if seen[pos] {
			return berrors.Validation("choice", fmt.Sprintf("team position %d listed twice", pos))
		}
		seen[pos] = true
	}
	return nil
}

func validateForcedSwitch(req *model.Request, choice *model.Choice) error {
	if len(choice.Actions) != 1 || choice.Actions[0].Kind != model.ChoiceSwitch {
		return berrors.Validation("choice", "a forced switch requires exactly one switch directive")
	}
	return validateSwitchIndex(req.LegalSwitches, choice.Actions[0].SwitchIndex)
}

func validateTurn(req *model.Request, choice *model.Choice) error {
	if len(choice.Actions) != len(req.Slots) {
		if len(choice.Actions) == 1 && choice.Actions[0].Kind == model.ChoiceForfeit {
			return nil
		}
		return berrors.Validation("choice", fmt.Sprintf("expected %d directive(s), got %d", len(req.Slots), len(choice.Actions)))
	}
	for i, action := range choice.Actions {
		slotReq := req.Slots[i]
		if err := validateSlotAction(slotReq, action); err != nil {
			return err
		}
	}
	return nil
}

func validateSlotAction(slotReq model.SlotRequest, action model.ChoiceAction) error {
	switch action.Kind {
	case model.ChoicePass:
		return nil
	case model.ChoiceForfeit:
		return nil
	case model.ChoiceMove:
		return validateMoveAction(slotReq, action)
	case model.ChoiceSwitch:
		if !slotReq.CanSwitch {
			reason := "switching is not legal this turn"
			if slotReq.TrappedReason != "" {
				reason = fmt.Sprintf("trapped by %s", slotReq.TrappedReason)
			}
			return berrors.Validation("choice", reason)
		}
		return validateSwitchIndex(slotReq.LegalSwitches, action.SwitchIndex)
	case model.ChoiceItem:
		return nil
	default:
		return berrors.Validation("choice", "unsupported action for a turn request")
	}
}

func validateMoveAction(slotReq model.SlotRequest, action model.ChoiceAction) error {
	if slotReq.MustRecharge {
		return berrors.Validation("choice", "must recharge this turn")
	}
	var chosen *model.LegalMove
	for i := range slotReq.Moves {
		if slotReq.Moves[i].Slot == action.MoveSlot {
			chosen = &slotReq.Moves[i]
			break
		}
	}
	if chosen == nil {
		return berrors.Validation("choice", fmt.Sprintf("move slot %d is not a legal choice", action.MoveSlot))
	}
	if chosen.Disabled {
		return berrors.Validation("choice", fmt.Sprintf("move %s is disabled or out of PP", chosen.ID))
	}
	if action.Target != 0 && len(chosen.Targets) > 0 {
		ok := false
		for _, t := range chosen.Targets {
			if t == action.Target {
				ok = true
				break
			}
		}
		if !ok {
			return berrors.Validation("choice", fmt.Sprintf("target %d is not legal for this move", action.Target))
		}
	}
	if slotReq.LockedIntoMove && len(slotReq.Moves) == 1 && chosen.ID != slotReq.Moves[0].ID {
		return berrors.Validation("choice", "locked into a single move this turn")
	}
	return nil
}

func validateSwitchIndex(legal []model.LegalSwitch, idx int) error {
	for _, ls := range legal {
		if ls.TeamIndex == idx {
			return nil
		}
	}
	return berrors.Validation("choice", fmt.Sprintf("bench index %d is not a legal switch", idx))
}
