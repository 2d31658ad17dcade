package model

import "testing"

func TestComputeStatLineAdamantSquirtleLevel40(t *testing.T) {
	// Base stats for Squirtle: HP 44, Atk 48, Def 65, SpA 50, SpD 64, Spe 43.
	base := BaseStatLine{StatHP: 44, StatAtk: 48, StatDef: 65, StatSpAtk: 50, StatSpDef: 64, StatSpeed: 43}
	ivs := BaseStatLine{31, 31, 31, 31, 31, 31, 0, 0}
	evs := BaseStatLine{}

	stats := ComputeStatLine(base, ivs, evs, 40, NormalizeID("adamant"))

	if stats.Get(StatHP) != (2*44+31)*40/100+40+10 {
		t.Fatalf("HP = %d", stats.Get(StatHP))
	}
	adamantUp, adamantDown := 1.1, 0.9
	wantAtk := int(float64((2*48+31)*40/100+5) * adamantUp)
	if stats.Get(StatAtk) != wantAtk {
		t.Fatalf("Atk = %d, want %d (Adamant raises Atk)", stats.Get(StatAtk), wantAtk)
	}
	wantSpA := int(float64((2*50+31)*40/100+5) * adamantDown)
	if stats.Get(StatSpAtk) != wantSpA {
		t.Fatalf("SpA = %d, want %d (Adamant lowers SpA)", stats.Get(StatSpAtk), wantSpA)
	}
}

func TestNatureMultiplierNeutralForUnknownAndHP(t *testing.T) {
	if m := NatureMultiplier(NormalizeID("hardy"), StatAtk); m != 1.0 {
		t.Fatalf("neutral nature Hardy should be 1.0, got %v", m)
	}
	if m := NatureMultiplier(NormalizeID("adamant"), StatHP); m != 1.0 {
		t.Fatalf("HP is never nature-modified, got %v", m)
	}
}

func TestHPStatHandlesShedinjaBaseOne(t *testing.T) {
	base := BaseStatLine{StatHP: 1}
	stats := ComputeStatLine(base, BaseStatLine{}, BaseStatLine{}, 100, "")
	if stats.Get(StatHP) != 1 {
		t.Fatalf("base-1-HP species should always have exactly 1 max HP, got %d", stats.Get(StatHP))
	}
}
