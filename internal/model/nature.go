package model

import "github.com/embercore/battlecore/internal/id"

// natureModifier names which stat a nature raises and lowers, the same
// fixed ±10% rule the type chart in internal/damage encodes for type
// effectiveness: a small table of game rule constants, not externally
// sourced content, so it lives beside the other stat machinery rather than
// behind the dataapi.Store seam.
type natureModifier struct {
	raised  StatID
	lowered StatID
}

// natureTable lists the 20 stat-altering natures; the remaining 5 (Hardy,
// Docile, Serious, Bashful, Quirky) are neutral and simply absent here, so
// any nature not found in this table is treated as neutral by
// ComputeStatLine.
var natureTable = map[id.ID]natureModifier{
	NormalizeID("lonely"):  {raised: StatAtk, lowered: StatDef},
	NormalizeID("brave"):   {raised: StatAtk, lowered: StatSpeed},
	NormalizeID("adamant"): {raised: StatAtk, lowered: StatSpAtk},
	NormalizeID("naughty"): {raised: StatAtk, lowered: StatSpDef},

	NormalizeID("bold"):    {raised: StatDef, lowered: StatAtk},
	NormalizeID("relaxed"): {raised: StatDef, lowered: StatSpeed},
	NormalizeID("impish"):  {raised: StatDef, lowered: StatSpAtk},
	NormalizeID("lax"):     {raised: StatDef, lowered: StatSpDef},

	NormalizeID("timid"):  {raised: StatSpeed, lowered: StatAtk},
	NormalizeID("hasty"):  {raised: StatSpeed, lowered: StatDef},
	NormalizeID("jolly"):  {raised: StatSpeed, lowered: StatSpAtk},
	NormalizeID("naive"):  {raised: StatSpeed, lowered: StatSpDef},

	NormalizeID("modest"): {raised: StatSpAtk, lowered: StatAtk},
	NormalizeID("mild"):   {raised: StatSpAtk, lowered: StatDef},
	NormalizeID("quiet"):  {raised: StatSpAtk, lowered: StatSpeed},
	NormalizeID("rash"):   {raised: StatSpAtk, lowered: StatSpDef},

	NormalizeID("calm"):    {raised: StatSpDef, lowered: StatAtk},
	NormalizeID("gentle"):  {raised: StatSpDef, lowered: StatDef},
	NormalizeID("sassy"):   {raised: StatSpDef, lowered: StatSpeed},
	NormalizeID("careful"): {raised: StatSpDef, lowered: StatSpAtk},
}

// NatureMultiplier returns the ±10%/neutral multiplier a nature applies to
// stat, 1.0 for a neutral nature, an unrecognized nature, or the HP/
// accuracy/evasion stats natures never touch.
func NatureMultiplier(nature id.ID, stat StatID) float64 {
	mod, ok := natureTable[nature]
	if !ok || stat == StatHP || stat == StatAccuracy || stat == StatEvasion {
		return 1.0
	}
	switch stat {
	case mod.raised:
		return 1.1
	case mod.lowered:
		return 0.9
	default:
		return 1.0
	}
}

// ComputeStatLine applies the standard base/IV/EV/level/nature stat formula
// to produce the final stat line a Creature's BaseStatLine field stores and
// the damage pipeline reads directly (spec §3's "stats (base/ev/iv/
// boosts)" collapsed, at construction time, into the single computed line
// the rest of the engine treats as current-before-stage-boosts).
func ComputeStatLine(base, ivs, evs BaseStatLine, level int, nature id.ID) BaseStatLine {
	var out BaseStatLine
	out[StatHP] = hpStat(base.Get(StatHP), ivs.Get(StatHP), evs.Get(StatHP), level)
	for _, stat := range []StatID{StatAtk, StatDef, StatSpAtk, StatSpDef, StatSpeed} {
		raw := otherStat(base.Get(stat), ivs.Get(stat), evs.Get(stat), level)
		out[stat] = int(float64(raw) * NatureMultiplier(nature, stat))
	}
	return out
}

func hpStat(base, iv, ev, level int) int {
	if base == 1 { // Shedinja-style single-HP species, preserved by convention
		return 1
	}
	return (2*base+iv+ev/4)*level/100 + level + 10
}

func otherStat(base, iv, ev, level int) int {
	return (2*base+iv+ev/4)*level/100 + 5
}
