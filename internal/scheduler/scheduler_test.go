package scheduler

import (
	"testing"

	"github.com/embercore/battlecore/internal/model"
)

func TestOrderClassBeforePriorityBeforeSpeed(t *testing.T) {
	b := model.NewBattle(1)
	s := New()
	s.Add(Action{Class: ClassMove, User: 1, MovePriority: 0, Speed: 50})
	s.Add(Action{Class: ClassSwitch, User: 2, Speed: 10})
	s.Add(Action{Class: ClassMove, User: 3, MovePriority: 1, Speed: 5})
	s.Order(b)

	got := s.Pending()
	if got[0].Class != ClassSwitch {
		t.Fatalf("expected switch first (lower class value), got %+v", got[0])
	}
	if got[1].User != 3 {
		t.Fatalf("expected higher move-priority action before higher-speed one, got %+v", got[1])
	}
}

func TestOrderTieKeepPreservesInsertionOrder(t *testing.T) {
	b := model.NewBattle(1)
	b.SpeedTieResolution = model.TieKeep
	s := New()
	s.Add(Action{Class: ClassMove, User: 1, Speed: 50})
	s.Add(Action{Class: ClassMove, User: 2, Speed: 50})
	s.Order(b)
	got := s.Pending()
	if got[0].User != 1 || got[1].User != 2 {
		t.Fatalf("expected insertion order preserved on tie, got %+v", got)
	}
}

func TestRemoveDropsPendingActionsForUser(t *testing.T) {
	b := model.NewBattle(1)
	s := New()
	s.Add(Action{Class: ClassMove, User: 1, Speed: 10})
	s.Add(Action{Class: ClassMove, User: 2, Speed: 5})
	s.Remove(1)
	s.Order(b)
	if s.Len() != 1 || s.Pending()[0].User != 2 {
		t.Fatalf("expected only user 2's action to remain, got %+v", s.Pending())
	}
}
