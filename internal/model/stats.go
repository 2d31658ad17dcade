package model

// StatID names one of the six core stats used throughout the damage
// pipeline and stat-stage boosts.
type StatID int

const (
	StatHP StatID = iota
	StatAtk
	StatDef
	StatSpAtk
	StatSpDef
	StatSpeed
	// StatAccuracy and StatEvasion are boost-only stages (no base/EV/IV
	// component; a creature has no "base accuracy stat", only a current
	// accuracy stage), kept in the same StatID space as the other six so
	// Boosts can index them uniformly.
	StatAccuracy
	StatEvasion
	numStats
)

// BaseStatLine holds one set of per-stat integers: base stats, EVs, or IVs,
// depending on context.
type BaseStatLine [int(numStats)]int

// Get returns the value for the named stat.
func (l BaseStatLine) Get(stat StatID) int { return l[stat] }

// Boosts holds stat-stage modifiers, clamped to [-6, +6] per spec. HP is
// never boosted; index StatHP is unused but kept so StatID indexes both
// types uniformly.
type Boosts [int(numStats)]int

const (
	minBoost = -6
	maxBoost = 6
)

// Add applies delta to the named stat's boost, clamping the result to
// [-6, +6], and returns the amount actually applied (which may be less than
// delta if the clamp was hit).
func (b *Boosts) Add(stat StatID, delta int) int {
	before := b[stat]
	after := before + delta
	if after > maxBoost {
		after = maxBoost
	}
	if after < minBoost {
		after = minBoost
	}
	b[stat] = after
	return after - before
}

// Get returns the current boost stage for the named stat.
func (b Boosts) Get(stat StatID) int { return b[stat] }

// Multiplier returns the conventional boost multiplier for a stage: stages
// above zero scale the numerator, stages below zero scale the denominator,
// both by 2 plus the magnitude, over a base of 2. Accuracy/evasion callers
// use a 3-based variant (AccuracyMultiplier) instead.
func Multiplier(stage int) float64 {
	switch {
	case stage > 0:
		return float64(2+stage) / 2
	case stage < 0:
		return 2 / float64(2-stage)
	default:
		return 1
	}
}

// AccuracyMultiplier returns the 3-based stage multiplier used for accuracy
// and evasion stages, which scale more gently than the other five stats.
func AccuracyMultiplier(stage int) float64 {
	switch {
	case stage > 0:
		return float64(3+stage) / 3
	case stage < 0:
		return 3 / float64(3-stage)
	default:
		return 1
	}
}
