package links

import (
	"testing"

	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/model"
)

func TestLinkPropagatesEndOneHop(t *testing.T) {
	store := model.NewEffectStateStore()
	locA := model.CreatureLocation(1)
	locB := model.CreatureLocation(2)
	store.Apply(locA, id.ID("future-sight"))
	store.Apply(locB, id.ID("future-sight-marker"))

	m := New()
	if !m.Link(store, locA, "future-sight", locB, "future-sight-marker") {
		t.Fatal("expected link to succeed")
	}

	var ended []string
	m.Remove(store, locA, "future-sight", func(loc model.EffectLocation, effectID id.ID) {
		ended = append(ended, string(effectID))
		store.End(loc, effectID)
	})

	if len(ended) != 2 {
		t.Fatalf("expected both linked effects ended, got %v", ended)
	}
	if store.Has(locA, "future-sight") || store.Has(locB, "future-sight-marker") {
		t.Fatal("expected both effects removed from store")
	}
}

func TestRemoveWithoutLinkOnlyEndsItself(t *testing.T) {
	store := model.NewEffectStateStore()
	loc := model.CreatureLocation(1)
	store.Apply(loc, id.ID("leech-seed"))

	m := New()
	var ended []string
	m.Remove(store, loc, "leech-seed", func(l model.EffectLocation, e id.ID) {
		ended = append(ended, string(e))
		store.End(l, e)
	})
	if len(ended) != 1 || ended[0] != "leech-seed" {
		t.Fatalf("expected only the single effect ended, got %v", ended)
	}
}
