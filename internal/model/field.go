package model

import "github.com/embercore/battlecore/internal/id"

// Field holds the battle-wide conditions not scoped to any one side:
// weather, terrain, pseudo-weathers, and the environment tag used by a few
// grounding/terrain-eligibility checks. The authoritative turns/duration/
// source state for whichever condition is active lives in the battle's
// EffectStateStore at FieldLocation; the ID fields here are a denormalized
// read of "what is currently active", mirrored whenever the store entry is
// created or removed so callers can check `field.Weather != ""` without a
// store lookup.
type Field struct {
	Weather       id.ID
	WeatherSource CreatureHandle

	Terrain       id.ID
	TerrainSource CreatureHandle

	// PseudoWeather records which pseudo-weather IDs are currently active.
	// Unlike Weather/Terrain, several can be active simultaneously (they are
	// not mutually exclusive with each other or with Weather/Terrain).
	PseudoWeather []id.ID

	Environment string
}

// HasPseudoWeather reports whether pw is currently active.
func (f *Field) HasPseudoWeather(pw id.ID) bool {
	for _, id := range f.PseudoWeather {
		if id == pw {
			return true
		}
	}
	return false
}

// AddPseudoWeather records pw as active if not already present.
func (f *Field) AddPseudoWeather(pw id.ID) {
	if f.HasPseudoWeather(pw) {
		return
	}
	f.PseudoWeather = append(f.PseudoWeather, pw)
}

// RemovePseudoWeather drops pw from the active set.
func (f *Field) RemovePseudoWeather(pw id.ID) {
	for i, id := range f.PseudoWeather {
		if id == pw {
			f.PseudoWeather = append(f.PseudoWeather[:i], f.PseudoWeather[i+1:]...)
			return
		}
	}
}
