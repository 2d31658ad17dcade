package request

import (
	"testing"

	"github.com/embercore/battlecore/internal/model"
)

func TestParseChoiceMoveWithTargetAndModifier(t *testing.T) {
	choice, err := ParseChoice("move 1,2,mega", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(choice.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(choice.Actions))
	}
	a := choice.Actions[0]
	if a.Kind != model.ChoiceMove || a.MoveSlot != 1 || a.Target != 2 || !a.Mega {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestParseChoiceMultiSlotSemicolon(t *testing.T) {
	choice, err := ParseChoice("move 0; switch 2", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(choice.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(choice.Actions))
	}
	if choice.Actions[1].Kind != model.ChoiceSwitch || choice.Actions[1].SwitchIndex != 2 {
		t.Fatalf("unexpected second action: %+v", choice.Actions[1])
	}
}

func TestParseChoiceRejectsUnknownVerb(t *testing.T) {
	if _, err := ParseChoice("flee", 1); err == nil {
		t.Fatal("expected an error for an unknown directive verb")
	}
}

func TestValidateRejectsDisabledMove(t *testing.T) {
	req := &model.Request{
		Kind: model.RequestTurn,
		Slots: []model.SlotRequest{
			{Slot: 0, Moves: []model.LegalMove{{ID: "tackle", Slot: 0, Disabled: true}}},
		},
	}
	choice := &model.Choice{Actions: []model.ChoiceAction{{Kind: model.ChoiceMove, MoveSlot: 0}}}
	if err := Validate(req, choice); err == nil {
		t.Fatal("expected validation to reject a disabled move")
	}
}

func TestValidateRejectsOutOfPPViaDisabledFlag(t *testing.T) {
	req := &model.Request{
		Kind: model.RequestTurn,
		Slots: []model.SlotRequest{
			{Slot: 0, Moves: []model.LegalMove{{ID: "tackle", Slot: 0, PP: 0, Disabled: true}}},
		},
	}
	choice := &model.Choice{Actions: []model.ChoiceAction{{Kind: model.ChoiceMove, MoveSlot: 0}}}
	if err := Validate(req, choice); err == nil {
		t.Fatal("expected validation to reject an out-of-PP move")
	}
}

func TestValidateRejectsIllegalSwitchWhenTrapped(t *testing.T) {
	req := &model.Request{
		Kind: model.RequestTurn,
		Slots: []model.SlotRequest{
			{Slot: 0, CanSwitch: false, TrappedReason: "meanlook"},
		},
	}
	choice := &model.Choice{Actions: []model.ChoiceAction{{Kind: model.ChoiceSwitch, SwitchIndex: 1}}}
	if err := Validate(req, choice); err == nil {
		t.Fatal("expected validation to reject a switch while trapped")
	}
}

func TestValidateAcceptsLegalMove(t *testing.T) {
	req := &model.Request{
		Kind: model.RequestTurn,
		Slots: []model.SlotRequest{
			{Slot: 0, Moves: []model.LegalMove{{ID: "tackle", Slot: 0, PP: 10, Targets: []int{1}}}},
		},
	}
	choice := &model.Choice{Actions: []model.ChoiceAction{{Kind: model.ChoiceMove, MoveSlot: 0, Target: 1}}}
	if err := Validate(req, choice); err != nil {
		t.Fatalf("expected a legal move to validate, got %v", err)
	}
}

func TestValidateTeamOrderRejectsDuplicatePosition(t *testing.T) {
	req := &model.Request{Kind: model.RequestTeamOrder, TeamMembers: []model.CreatureHandle{1, 2, 3}}
	choice := &model.Choice{TeamOrder: []int{1, 1, 2}}
	if err := Validate(req, choice); err == nil {
		t.Fatal("expected validation to reject a duplicate team position")
	}
}
