package dispatch

import (
	"testing"

	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
)

func newTestBattle() (*model.Battle, model.CreatureHandle) {
	b := model.NewBattle(1)
	b.Sides = []*model.Side{{Index: 0, SlotCount: 1}, {Index: 1, SlotCount: 1}}
	c := &model.Creature{BaseStats: model.BaseStatLine{model.StatSpeed: 100}, MaxHP: 100, CurrentHP: 100}
	h := b.AddCreature(c)
	c.Position = &model.Position{Side: 0, Slot: 0}
	b.Sides[0].Active = []model.CreatureHandle{h}
	return b, h
}

func TestRunEventInvokesRegisteredCallbackInPriorityOrder(t *testing.T) {
	b, h := newTestBattle()
	c, _ := b.Creature(h)
	c.Ability = "intimidate"
	c.AddVolatile("confusion")

	reg := registry.New()
	var order []string
	reg.Register(&registry.Descriptor{
		ID: "intimidate", Kind: registry.KindAbility,
		Callbacks: map[string][]registry.Callback{
			string(EventModifyAtk): {{Priority: 0, Handler: func(f any, self id.ID, arg any) any {
				order = append(order, "ability")
				return nil
			}}},
		},
	})
	reg.Register(&registry.Descriptor{
		ID: "confusion", Kind: registry.KindVolatile,
		Callbacks: map[string][]registry.Callback{
			string(EventModifyAtk): {{Priority: 5, Handler: func(f any, self id.ID, arg any) any {
				order = append(order, "volatile")
				return nil
			}}},
		},
	})

	d := New(b, reg)
	_, vetoed, _ := d.RunEvent(EventModifyAtk, h, model.NoCreature, nil, 100)
	if vetoed {
		t.Fatal("unexpected veto")
	}
	if len(order) != 2 || order[0] != "volatile" || order[1] != "ability" {
		t.Fatalf("expected higher-priority volatile callback first, got %v", order)
	}
}

func TestRunEventVetoStopsFurtherCallbacks(t *testing.T) {
	b, h := newTestBattle()
	c, _ := b.Creature(h)
	c.Status = "freeze"

	called := false
	reg := registry.New()
	reg.Register(&registry.Descriptor{
		ID: "freeze", Kind: registry.KindStatus,
		Callbacks: map[string][]registry.Callback{
			string(EventTryMove): {{Priority: 10, Handler: func(f any, self id.ID, arg any) any {
				f.(*Frame).Veto("frz")
				return nil
			}}},
		},
	})
	reg.Register(&registry.Descriptor{
		ID: "ignored", Kind: registry.KindAbility,
		Callbacks: map[string][]registry.Callback{
			string(EventTryMove): {{Priority: -10, Handler: func(f any, self id.ID, arg any) any {
				called = true
				return nil
			}}},
		},
	})
	c.Ability = "ignored"

	d := New(b, reg)
	_, vetoed, reason := d.RunEvent(EventTryMove, h, model.NoCreature, nil, nil)
	if !vetoed || reason != "frz" {
		t.Fatalf("expected veto with reason frz, got vetoed=%v reason=%q", vetoed, reason)
	}
	if called {
		t.Fatal("lower-priority callback after the vetoing one must not run")
	}
}

func TestModifyDamageRelayValueChains(t *testing.T) {
	b, h := newTestBattle()
	c, _ := b.Creature(h)
	c.Item = "life-orb"

	reg := registry.New()
	reg.Register(&registry.Descriptor{
		ID: "life-orb", Kind: registry.KindItem,
		Callbacks: map[string][]registry.Callback{
			string(EventModifyDamage): {{Handler: func(f any, self id.ID, arg any) any {
				dmg := f.(*Frame).RelayValue.(int)
				return dmg * 13 / 10
			}}},
		},
	})
	d := New(b, reg)
	result, vetoed, _ := d.RunEvent(EventModifyDamage, h, model.NoCreature, nil, 100)
	if vetoed {
		t.Fatal("unexpected veto")
	}
	if result.(int) != 130 {
		t.Fatalf("expected relay value 130, got %v", result)
	}
}
