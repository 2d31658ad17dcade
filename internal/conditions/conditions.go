// Package conditions names the small set of canonical effect IDs the core
// engine itself must recognize by identity rather than purely through
// registered callbacks: the weather/terrain/status names the damage
// pipeline's fixed-formula steps (§4.G steps 7 and 10) reference directly,
// and the primary status IDs the turn loop's residual step ticks. Every
// other effect (abilities, items, moves, volatiles, side/pseudo-weather
// conditions) is opaque data the engine only ever touches through the
// registry's callback table; these few are canonical the same way the type
// chart is, because the spec's damage formula names them by rule rather
// than by registered behaviour.
package conditions

import "github.com/embercore/battlecore/internal/id"

// Weather IDs, normalized the same way any other ID in a BattleOptions
// request is.
var (
	WeatherSun       = id.Normalize("sun")
	WeatherRain      = id.Normalize("rain")
	WeatherSandstorm = id.Normalize("sandstorm")
	WeatherHail      = id.Normalize("hail")
	WeatherHarshSun  = id.Normalize("harshsunlight")
	WeatherHeavyRain = id.Normalize("heavyrain")
	WeatherStrongWinds = id.Normalize("strongwinds")
)

// Terrain IDs.
var (
	TerrainElectric = id.Normalize("electricterrain")
	TerrainGrassy   = id.Normalize("grassyterrain")
	TerrainMisty    = id.Normalize("mistyterrain")
	TerrainPsychic  = id.Normalize("psychicterrain")
)

// Primary status IDs.
var (
	StatusBurn      = id.Normalize("brn")
	StatusParalysis = id.Normalize("par")
	StatusPoison    = id.Normalize("psn")
	StatusBadPoison = id.Normalize("tox")
	StatusSleep     = id.Normalize("slp")
	StatusFreeze    = id.Normalize("frz")
)
