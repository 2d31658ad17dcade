// Package model defines the battle's core data entities: the Battle itself
// and everything it exclusively owns (sides, players, creatures, the field,
// active moves, and effect state). Packages higher up the stack (registry,
// dispatch, damage, scheduler, request, turn) operate on these types; model
// itself has no knowledge of dispatch, scheduling, or damage math.
package model

import "github.com/embercore/battlecore/internal/id"

// CreatureHandle addresses a creature for the lifetime of the battle.
type CreatureHandle id.Handle

// MoveHandle addresses a transient active-move instance created for a single
// move use. Unlike CreatureHandle, a MoveHandle's backing entry is disposed
// at the end of the turn it was created on (Battle.PruneActiveMoves), though the
// handle value itself is never reused.
type MoveHandle id.Handle

// NoCreature is the invalid/zero CreatureHandle.
const NoCreature CreatureHandle = CreatureHandle(id.Zero)

// NoMove is the invalid/zero MoveHandle.
const NoMove MoveHandle = MoveHandle(id.Zero)
