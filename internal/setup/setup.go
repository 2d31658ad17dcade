// Package setup materializes a model.BattleOptions and a dataapi.Store into
// a ready-to-Start turn.Loop: the options-loading code model.NewBattle's own
// doc comment anticipates. It is the one place that resolves wire-shape
// species/move identifiers against the Store (ability and item identifiers
// are only normalized, not looked up) and turns them into the
// model.Creature values the rest of the engine operates on.
package setup

import (
	"context"
	"fmt"

	"github.com/embercore/battlecore/internal/battlelog"
	"github.com/embercore/battlecore/internal/berrors"
	"github.com/embercore/battlecore/internal/dataapi"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
	"github.com/embercore/battlecore/internal/turn"
)

// defaultLevel is used for a TeamMemberIn that omits Level, matching the
// standard format convention of full-level teams.
const defaultLevel = 100

// Build resolves opts against store and returns a turn.Loop ready to Start.
// Every team member becomes a benched model.Creature; turn.Loop.Start is
// what sends each player's opening team order into its side's active slots
// and fires SwitchIn, so callers still need to call Start before the loop
// can serve its first request. reg is the effect registry the battle will
// dispatch through; Build itself registers nothing into it (that's
// cmd/battlecore-serve's or a test's job, via registry.Registry.Register or
// scripting.RegisterInto) — it only reads species and move descriptors to
// size and name the creatures it builds.
func Build(ctx context.Context, opts model.BattleOptions, reg *registry.Registry, store dataapi.Store) (*turn.Loop, error) {
	if len(opts.Sides) < 2 {
		return nil, berrors.Validation("sides", "a battle requires at least two sides")
	}

	battle := model.NewBattle(opts.Seed)
	battle.SpeedTieResolution = opts.Engine.SpeedTieResolution
	battle.BaseDamageRandomization = opts.Engine.BaseDamageRandomization
	for _, override := range opts.Engine.ControlledRNG {
		battle.RNG.PushOverride(override)
	}

	for sideIdx, sideOpts := range opts.Sides {
		if sideOpts.SlotCount < 1 {
			return nil, berrors.Validation("sides[].slot_count", "must be at least 1")
		}
		side := &model.Side{
			Name:      sideOpts.Name,
			Index:     sideIdx,
			SlotCount: sideOpts.SlotCount,
		}

		for _, playerOpts := range sideOpts.Players {
			player := &model.Player{
				ID:          playerOpts.ID,
				Name:        playerOpts.Name,
				SideIndex:   sideIdx,
				Side:        side,
				ActiveSlots: make(map[int]model.CreatureHandle),
				GlobalSlots: make(map[int]int),
			}
			for _, member := range playerOpts.Team {
				creature, err := buildCreature(ctx, store, member)
				if err != nil {
					return nil, fmt.Errorf("side %d player %s: %w", sideIdx, playerOpts.ID, err)
				}
				handle := battle.AddCreature(creature)
				player.Team = append(player.Team, handle)
			}
			side.Players = append(side.Players, player)
		}

		battle.Sides = append(battle.Sides, side)
	}

	log := battlelog.New()
	loop := turn.New(battle, reg, store, log)
	loop.AutoContinue = opts.Engine.AutoContinue
	return loop, nil
}

// buildCreature resolves member's species and moves against store,
// normalizes its ability/item IDs, and computes its final stat line via
// model.ComputeStatLine.
func buildCreature(ctx context.Context, store dataapi.Store, member model.TeamMemberIn) (*model.Creature, error) {
	species, err := store.Species(ctx, member.Species)
	if err != nil {
		return nil, fmt.Errorf("species %q: %w", member.Species, err)
	}

	level := member.Level
	if level <= 0 {
		level = defaultLevel
	}

	ivs := member.IVs.ToBaseStatLine()
	evs := member.EVs.ToBaseStatLine()
	nature := model.NormalizeID(member.Nature)
	stats := model.ComputeStatLine(species.BaseStats, ivs, evs, level, nature)

	ability := member.Ability
	if ability == "" && len(species.Abilities) > 0 {
		ability = species.Abilities[0]
	}
	abilityID := model.NormalizeID(ability)

	creature := &model.Creature{
		Species:     model.NormalizeID(member.Species),
		Level:       level,
		Gender:      member.Gender,
		Nature:      nature,
		BaseStats:   stats,
		EVs:         evs,
		IVs:         ivs,
		CurrentHP:   stats.Get(model.StatHP),
		MaxHP:       stats.Get(model.StatHP),
		Item:        model.NormalizeID(member.Item),
		Ability:     abilityID,
		BaseAbility: abilityID,
		Types:       append([]string(nil), species.Types...),
		Friendship:  member.Friendship,
	}

	for _, moveID := range member.Moves {
		move, err := store.Move(ctx, moveID)
		if err != nil {
			return nil, fmt.Errorf("move %q: %w", moveID, err)
		}
		pp := move.PP
		if pp <= 0 {
			pp = 1
		}
		creature.Moves = append(creature.Moves, model.MoveSlot{
			ID:    model.NormalizeID(moveID),
			PP:    pp,
			MaxPP: pp,
		})
	}

	return creature, nil
}
