package ws

import (
	"testing"

	"github.com/embercore/battlecore/internal/model"
)

func TestDirectiveForSlotPrefersFirstUsableMove(t *testing.T) {
	slot := model.SlotRequest{
		Slot: 1,
		Moves: []model.LegalMove{
			{Slot: 0, Disabled: true},
			{Slot: 1, PP: 0},
			{Slot: 2, PP: 10},
		},
	}
	if got := directiveForSlot(slot); got != "move 2" {
		t.Fatalf("got %q, want %q", got, "move 2")
	}
}

func TestDirectiveForSlotFallsBackToSwitchThenPass(t *testing.T) {
	noMoves := model.SlotRequest{CanSwitch: true, LegalSwitches: []model.LegalSwitch{{TeamIndex: 3}}}
	if got := directiveForSlot(noMoves); got != "switch 3" {
		t.Fatalf("got %q, want %q", got, "switch 3")
	}

	nothingLegal := model.SlotRequest{}
	if got := directiveForSlot(nothingLegal); got != "pass" {
		t.Fatalf("got %q, want %q", got, "pass")
	}

	recharging := model.SlotRequest{MustRecharge: true, Moves: []model.LegalMove{{Slot: 0, PP: 10}}}
	if got := directiveForSlot(recharging); got != "pass" {
		t.Fatalf("got %q, want %q", got, "pass")
	}
}

func TestTurnDirectiveJoinsSlotsInOrder(t *testing.T) {
	req := &model.Request{
		Kind: model.RequestTurn,
		Slots: []model.SlotRequest{
			{Slot: 1, Moves: []model.LegalMove{{Slot: 0, PP: 5}}},
			{Slot: 0, Moves: []model.LegalMove{{Slot: 1, PP: 5}}},
		},
	}
	got := turnDirective(req)
	want := "move 1; move 0"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDirectiveForSwitchRequest(t *testing.T) {
	req := &model.Request{Kind: model.RequestSwitch, LegalSwitches: []model.LegalSwitch{{TeamIndex: 2}}}
	if got := directiveFor(req); got != "switch 2" {
		t.Fatalf("got %q, want %q", got, "switch 2")
	}

	forced := &model.Request{Kind: model.RequestSwitch}
	if got := directiveFor(forced); got != "pass" {
		t.Fatalf("got %q, want %q", got, "pass")
	}
}
