package model

// BattleOptions is the complete, JSON-serializable configuration needed to
// start a battle: its format, every side's players and teams, and the
// engine-level knobs spec §6 calls out by name. A JSON Schema for this type
// is generated by cmd/battlecore-schema so external callers can validate a
// request before sending it.
type BattleOptions struct {
	// Seed is the PRNG's initial seed. Two BattleOptions with the same Seed
	// and the same Sides produce byte-identical battle logs.
	Seed uint64 `json:"seed" jsonschema:"description=Initial PRNG seed. An omitted seed is 0; the engine does not draw one from an entropy source."`

	Format string `json:"format" jsonschema:"description=Named ruleset identifier (e.g. singles/doubles/vgc)."`

	Sides []SideOptions `json:"sides" jsonschema:"minItems=2"`

	Engine EngineOptions `json:"engine_options"`
}

// SideOptions configures one side of a BattleOptions: its players and each
// player's team.
type SideOptions struct {
	Name      string          `json:"name,omitempty"`
	SlotCount int             `json:"slot_count" jsonschema:"minimum=1,description=Number of simultaneously active creatures, e.g. 1 for singles, 2 for doubles."`
	Players   []PlayerOptions `json:"players" jsonschema:"minItems=1"`
}

// PlayerOptions configures one player within a side.
type PlayerOptions struct {
	ID   string         `json:"id"`
	Name string         `json:"name,omitempty"`
	Team []TeamMemberIn `json:"team" jsonschema:"minItems=1"`
}

// TeamMemberIn is one creature as submitted in a BattleOptions request,
// before it is materialized into a model.Creature (which requires resolving
// Species/Ability/Item/Moves against a data.Store).
type TeamMemberIn struct {
	Species string   `json:"species"`
	Level   int      `json:"level" jsonschema:"minimum=1,maximum=100"`
	Gender  string   `json:"gender,omitempty"`
	Nature  string   `json:"nature,omitempty"`
	Ability string   `json:"ability,omitempty"`
	Item    string   `json:"item,omitempty"`
	Moves   []string `json:"moves" jsonschema:"minItems=1,maxItems=4"`

	EVs *StatLineIn `json:"evs,omitempty"`
	IVs *StatLineIn `json:"ivs,omitempty"`

	Friendship int    `json:"friendship,omitempty"`
	Nickname   string `json:"nickname,omitempty"`
}

// StatLineIn is the wire shape of a six-stat line (EVs or IVs).
type StatLineIn struct {
	HP    int `json:"hp"`
	Atk   int `json:"atk"`
	Def   int `json:"def"`
	SpAtk int `json:"sp_atk"`
	SpDef int `json:"sp_def"`
	Speed int `json:"speed"`
}

// ToBaseStatLine converts the wire stat line into the internal fixed array
// form, defaulting a nil receiver to all zeroes.
func (s *StatLineIn) ToBaseStatLine() BaseStatLine {
	if s == nil {
		return BaseStatLine{}
	}
	return BaseStatLine{
		StatHP:    s.HP,
		StatAtk:   s.Atk,
		StatDef:   s.Def,
		StatSpAtk: s.SpAtk,
		StatSpDef: s.SpDef,
		StatSpeed: s.Speed,
	}
}

// EngineOptions are the simulation-behaviour knobs that don't describe the
// match itself: how deterministic, verbose, or automatic the engine should
// be.
type EngineOptions struct {
	// AutoContinue is copied onto turn.Loop.AutoContinue by setup.Build, but
	// the turn loop does not read it: with either value, each phase
	// advances only when the caller calls Continue once every outstanding
	// choice is in.
	AutoContinue bool `json:"auto_continue"`

	// RevealActualHealth is carried in the options, but nothing in the
	// engine reads it: battle log HP payloads are the same whatever its
	// value (a damage entry's public view carries exact HP and a
	// percentage, its private view exact current/max HP).
	RevealActualHealth bool `json:"reveal_actual_health"`

	// ControlledRNG lets a caller pre-seed the override queue described in
	// spec §2 so a test or replay can pin specific rolls without needing to
	// reverse-engineer a seed. Consumed once, in order, before the engine
	// falls back to the seeded LCG.
	ControlledRNG []uint64 `json:"controlled_rng,omitempty"`

	// BaseDamageRandomization selects how the damage pipeline's random
	// factor (step 11 of the ordered pipeline) is resolved: normal roll, or
	// pinned to its minimum/maximum for deterministic testing.
	BaseDamageRandomization DamageRandomization `json:"base_damage_randomization" jsonschema:"enum=0,enum=1,enum=2"`

	// SpeedTieResolution selects how the scheduler breaks identical
	// effective-speed ties.
	SpeedTieResolution TieResolution `json:"speed_sort_tie_resolution" jsonschema:"enum=0,enum=1,enum=2"`

	AllowPass    bool `json:"allow_pass"`
	AllowForfeit bool `json:"allow_forfeit"`
}

// DefaultEngineOptions returns the engine's out-of-the-box behaviour: manual
// stepping, exact HP reporting, normal damage randomization, insertion-order
// tie resolution, and both pass and forfeit permitted.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		AutoContinue:            false,
		RevealActualHealth:      true,
		BaseDamageRandomization: DamageRandomized,
		SpeedTieResolution:      TieKeep,
		AllowPass:               true,
		AllowForfeit:            true,
	}
}
