// Package dataapi defines the boundary between the battle engine and the
// external data it does not own: species/move/item/ability/condition
// definitions, and the decision-making layer that turns a Request into a
// Choice for a non-human player. The engine core depends only on the
// interfaces and descriptor shapes in this package; which game's data set
// backs them, and how an AI actually decides, are both out of scope here.
package dataapi

import "github.com/embercore/battlecore/internal/model"

// MoveDescriptor is the static, immutable definition of a move, looked up
// once per use and copied into a model.ActiveMove for the duration of that
// use.
type MoveDescriptor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category model.MoveCategory `json:"category"`

	BasePower int `json:"base_power"`
	Accuracy  int `json:"accuracy"` // 0 = always hits
	PP        int `json:"pp"`
	Priority  int `json:"priority"`

	Target string `json:"target"` // e.g. "normal", "self", "all_adjacent_foes"

	Flags model.MoveFlags `json:"flags"`

	MultiHit      *model.MultiHitType  `json:"multi_hit,omitempty"`
	SelfDestruct  model.SelfDestructType `json:"self_destruct,omitempty"`
	CritRatio     int                  `json:"crit_ratio"`
	DrainFraction [2]int               `json:"drain_fraction,omitempty"` // numerator, denominator
	RecoilFraction [2]int              `json:"recoil_fraction,omitempty"`

	// SecondaryChance and SecondaryEffect describe the move's most common
	// kind of secondary effect (a status/boost applied on hit with some
	// probability); richer moves implement additional behaviour through
	// their registered dispatch callbacks rather than this struct.
	SecondaryChance int    `json:"secondary_chance,omitempty"`
	SecondaryEffect string `json:"secondary_effect,omitempty"`

	// NeverFaints marks a move (False Swipe, Hold Back) that always leaves
	// its target with at least 1 HP (spec §8 scenario 2).
	NeverFaints bool `json:"never_faints,omitempty"`
}

// AbilityDescriptor is the static definition of an ability.
type AbilityDescriptor struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Suppressing marks an ability that prevents other abilities from
	// activating while it itself is active (Mold Breaker's targets,
	// Neutralizing Gas, Air Lock, Cloud Nine), per spec §4.E's suppression
	// semantics.
	Suppresses       bool `json:"suppresses,omitempty"`
	IgnoresAbilities bool `json:"ignores_abilities,omitempty"`
}

// ItemDescriptor is the static definition of a held item, modeled on the
// ZCrystal/MegaEvolution/Fling/NaturalGift special-data shape of the
// original game data.
type ItemDescriptor struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Flags []string `json:"flags,omitempty"`

	Fling         *FlingData         `json:"fling,omitempty"`
	NaturalGift   *NaturalGiftData   `json:"natural_gift,omitempty"`
	MegaEvolution *MegaEvolutionData `json:"mega_evolution,omitempty"`
	ZCrystal      *ZCrystalData      `json:"z_crystal,omitempty"`
}

// FlingData describes what happens when an item is used via Fling.
type FlingData struct {
	Power   int  `json:"power"`
	UseItem bool `json:"use_item,omitempty"`
}

// NaturalGiftData describes what happens when an item is used via Natural Gift.
type NaturalGiftData struct {
	Power int    `json:"power"`
	Type  string `json:"type"`
}

// MegaEvolutionData names the species transformation a Mega Stone triggers.
type MegaEvolutionData struct {
	From string `json:"from"`
	Into string `json:"into"`
}

// ZCrystalData names the move a Z-Crystal powers up and the forme it
// requires, if any.
type ZCrystalData struct {
	FromMove string   `json:"from_move,omitempty"`
	FromType string   `json:"from_type,omitempty"`
	Into     string   `json:"into"`
	Users    []string `json:"users,omitempty"`
}

// ConditionDescriptor is the shared shape for status, volatile, side, field,
// and pseudo-weather conditions: everything the registry needs to know
// about a condition before any callback runs.
type ConditionDescriptor struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Duration is the condition's default lifetime in turns, or 0 for one
	// whose lifetime is entirely callback-driven (e.g. ends when its
	// linked partner ends, or lasts until switched out).
	Duration int `json:"duration,omitempty"`

	// Kind further classifies a ConditionDescriptor's EffectLocation kind
	// for conditions the registry can't infer purely from where they were
	// applied (e.g. a status vs. a volatile are both creature-scoped).
	Kind string `json:"kind"` // "status" | "volatile" | "side" | "field" | "weather" | "terrain"
}

// SpeciesDescriptor is the static definition of a species: its base stats,
// typing, and the abilities/moves it may legally have.
type SpeciesDescriptor struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Types     []string           `json:"types"`
	BaseStats model.BaseStatLine `json:"base_stats"`
	Abilities []string           `json:"abilities"`
}
