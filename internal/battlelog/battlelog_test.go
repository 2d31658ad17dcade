package battlelog

import (
	"reflect"
	"testing"
)

func TestPlainEntryRenders(t *testing.T) {
	log := New()
	log.Add("move").Pair("mon", "p1a: Squirtle").Pair("move", "Tackle").Done()

	got := log.Lines()
	want := []string{"move|mon:p1a: Squirtle|move:Tackle"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitEntryThreeLines(t *testing.T) {
	log := New()
	log.Split("damage", 1).
		Int("hp", 42).
		PrivateInt("hp", 84).
		Done()

	got := log.Lines()
	want := []string{
		"split|side:1",
		"damage|hp:84",
		"damage|hp:42",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLinesForSideSeesOwnPrivateView(t *testing.T) {
	log := New()
	log.Split("damage", 0).Int("hp", 50).PrivateInt("hp", 120).Done()
	log.Add("turn").Int("number", 1).Done()

	side0 := log.LinesForSide(0)
	side1 := log.LinesForSide(1)

	if side0[0] != "damage|hp:120" {
		t.Fatalf("side 0 should see its private view, got %q", side0[0])
	}
	if side1[0] != "damage|hp:50" {
		t.Fatalf("side 1 should see the public view, got %q", side1[0])
	}
}

func TestPublicLinesNeverIncludesPrivateOrSplitMarker(t *testing.T) {
	log := New()
	log.Split("damage", 0).Int("hp", 50).PrivateInt("hp", 120).Done()

	got := log.PublicLines()
	want := []string{"damage|hp:50"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAppendOnlyNoMutationOfPriorEntries(t *testing.T) {
	log := New()
	log.Add("turn").Int("number", 1).Done()
	first := log.Entries()
	log.Add("turn").Int("number", 2).Done()

	if len(first) != 1 {
		t.Fatalf("snapshot should be unaffected by later appends, got %d entries", len(first))
	}
	if log.Len() != 2 {
		t.Fatalf("expected 2 entries total, got %d", log.Len())
	}
}

func TestSidesReportsDistinctSplitTargets(t *testing.T) {
	log := New()
	log.Split("damage", 1).Int("hp", 1).PrivateInt("hp", 1).Done()
	log.Split("damage", 0).Int("hp", 1).PrivateInt("hp", 1).Done()
	log.Split("damage", 1).Int("hp", 1).PrivateInt("hp", 1).Done()

	got := log.Sides()
	want := []int{0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
