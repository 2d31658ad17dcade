// Package turn implements the turn loop (component I): the state machine
// that orchestrates request -> resolve -> residual -> end-of-turn
// transitions spec §4.I diagrams, driving the scheduler, damage pipeline,
// and dispatcher to carry one turn from its opening requests through to
// the next one (or to Ended).
package turn

import (
	"context"
	"sort"
	"time"

	"github.com/embercore/battlecore/internal/battlelog"
	"github.com/embercore/battlecore/internal/berrors"
	"github.com/embercore/battlecore/internal/damage"
	"github.com/embercore/battlecore/internal/dataapi"
	"github.com/embercore/battlecore/internal/diagnostics"
	"github.com/embercore/battlecore/internal/dispatch"
	"github.com/embercore/battlecore/internal/links"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
	"github.com/embercore/battlecore/internal/request"
	"github.com/embercore/battlecore/internal/scheduler"
)

// defaultTickBudget bounds how long a single turn's resolution may take
// before Continue reports an EventTurnTickBudgetWarning; a scripted effect
// looping pathologically is the usual cause, not ordinary engine work.
const defaultTickBudget = 50 * time.Millisecond

// Phase names where the turn loop currently sits in spec §4.I's diagram.
type Phase int

const (
	PhasePreinit Phase = iota
	// PhaseAwaitChoices covers both the ordinary per-turn AwaitChoices node
	// and the ForceReplacements-triggered re-entry into it; Loop
	// distinguishes the two internally via forcedSlots.
	PhaseAwaitChoices
	PhaseEnded
)

// Loop owns every sub-component one running battle needs and drives it
// through the state machine. A Loop is created once per Battle and is not
// reused across battles.
type Loop struct {
	Battle    *model.Battle
	Registry  *registry.Registry
	Store     dataapi.Store
	Dispatch  *dispatch.Dispatcher
	Scheduler *scheduler.Scheduler
	Damage    *damage.Pipeline
	Links     *links.Manager
	Requests  *request.Builder
	Log       *battlelog.Log

	// Diag, if set via SetDiagnostics, receives engine-internal operator
	// telemetry (dispatch vetoes, scheduler reorders, tick budget warnings,
	// ...) distinct from the player-facing battle Log. Nil is valid and
	// simply means nothing is reported.
	Diag diagnostics.Publisher

	// TickBudget bounds how long Continue's call to resolveTurn may take
	// before it reports an EventTurnTickBudgetWarning through Diag. Zero
	// means defaultTickBudget.
	TickBudget time.Duration

	// AutoContinue mirrors model.EngineOptions.AutoContinue. Nothing in the
	// loop reads it: SubmitChoice never advances the loop, and Continue
	// behaves the same whatever its value.
	AutoContinue bool

	phase Phase

	// forcedSlots is non-nil while PhaseAwaitChoices is serving forced
	// replacement requests (post-faint) rather than ordinary turn requests.
	forcedSlots []forcedSlot
}

type forcedSlot struct {
	player *model.Player
	slot   int // player-local active slot index
}

// New constructs a Loop wired to one battle's registry, data store, and log.
func New(battle *model.Battle, reg *registry.Registry, store dataapi.Store, log *battlelog.Log) *Loop {
	disp := dispatch.New(battle, reg)
	return &Loop{
		Battle:    battle,
		Registry:  reg,
		Store:     store,
		Dispatch:  disp,
		Scheduler: scheduler.New(),
		Damage:    damage.New(battle, disp, reg, log),
		Links:     links.New(),
		Requests:  request.New(battle),
		Log:       log,
		phase:     PhasePreinit,
	}
}

// SetDiagnostics wires pub into the loop and every sub-component capable of
// reporting operator-facing diagnostics (the dispatcher, scheduler, and
// linked-effects manager), so a single call from the embedding layer (e.g.
// cmd/battlecore-serve) is enough to light up every EventType events.go
// declares. Passing nil is valid and detaches diagnostics entirely.
func (l *Loop) SetDiagnostics(pub diagnostics.Publisher) {
	l.Diag = pub
	l.Dispatch.Diag = pub
	l.Scheduler.Diag = pub
	l.Links.Diag = pub
}

// publishInvariant reports a berrors.Invariant condition through Diag, if
// one is wired.
func (l *Loop) publishInvariant(detail string) {
	if l.Diag == nil {
		return
	}
	l.Diag.Publish(context.Background(), diagnostics.InvariantViolationEvent(detail))
}

// Phase reports the loop's current state-machine phase.
func (l *Loop) Phase() Phase { return l.phase }

// Start transitions Preinit -> StartOfBattle -> AwaitChoices: every
// player's opening team members occupy their side's active slots in team
// order, SwitchIn fires for each, and the first turn's requests are built.
// Team preview (an external, format-specific concern per spec §1) is the
// caller's responsibility before calling Start; Start always opens with
// whichever team order the players' Team slices already hold.
func (l *Loop) Start(ctx context.Context) error {
	if l.phase != PhasePreinit {
		l.publishInvariant("turn-phase: Start called outside Preinit")
		return berrors.Invariant("turn-phase", "Start called outside Preinit")
	}
	for _, side := range l.Battle.Sides {
		side.Active = make([]model.CreatureHandle, side.SlotCount)
		for i := range side.Active {
			side.Active[i] = model.NoCreature
		}
	}
	for _, side := range l.Battle.Sides {
		globalSlot := 0
		for _, player := range side.Players {
			if player.ActiveSlots == nil {
				player.ActiveSlots = make(map[int]model.CreatureHandle)
			}
			if player.GlobalSlots == nil {
				player.GlobalSlots = make(map[int]int)
			}
			slotsForPlayer := side.SlotCount / maxInt(1, len(side.Players))
			for local := 0; local < slotsForPlayer && local < len(player.Team); local++ {
				player.GlobalSlots[local] = globalSlot
				handle := player.Team[local]
				c, ok := l.Battle.Creature(handle)
				if ok && !c.Fainted {
					c.Position = &model.Position{Side: side.Index, Slot: globalSlot}
					side.Active[globalSlot] = handle
					player.ActiveSlots[local] = handle
					l.Dispatch.RunEvent(dispatch.EventSwitchIn, handle, model.NoCreature, nil, nil)
				}
				globalSlot++
			}
		}
	}
	l.Battle.Turn = 1
	l.openTurnRequests()
	return nil
}

// openTurnRequests builds and assigns an ordinary Turn request to every
// player with a non-fainted active creature, clearing any stale choice.
func (l *Loop) openTurnRequests() {
	l.forcedSlots = nil
	for _, side := range l.Battle.Sides {
		for _, player := range side.Players {
			player.Choice = nil
			player.Request = l.Requests.BuildTurnRequest(player)
		}
	}
	l.phase = PhaseAwaitChoices
}

// SubmitChoice validates raw against the named player's outstanding
// request and, if valid, records it. A ValidationErr leaves the player's
// request slot untouched (spec §7): the caller should re-prompt the same
// player with the same request.
func (l *Loop) SubmitChoice(playerID string, raw string) error {
	player := l.findPlayer(playerID)
	if player == nil {
		return berrors.NotFound("player", playerID)
	}
	if player.Request == nil {
		return berrors.Validation("choice", "no outstanding request for this player")
	}
	choice, err := request.ParseChoice(raw, l.Battle.Turn)
	if err != nil {
		return err
	}
	if err := request.Validate(player.Request, choice); err != nil {
		return err
	}
	player.Choice = choice
	return nil
}

func (l *Loop) findPlayer(playerID string) *model.Player {
	for _, side := range l.Battle.Sides {
		for _, p := range side.Players {
			if p.ID == playerID {
				return p
			}
		}
	}
	return nil
}

// ReadyToResolve reports whether every player with an outstanding request
// has submitted a valid choice.
func (l *Loop) ReadyToResolve() bool {
	if l.phase != PhaseAwaitChoices {
		return false
	}
	for _, side := range l.Battle.Sides {
		for _, p := range side.Players {
			if p.NeedsChoice() {
				return false
			}
		}
	}
	return true
}

// Continue drives the loop forward. If choices are still outstanding, it
// returns immediately (the caller must wait for more SubmitChoice calls);
// AutoContinue does not change this, and no outstanding request is treated
// as an implicit Pass. If all outstanding choices have been resolved,
// Continue advances through
// exactly one more state-machine transition: resolving a forced-replacement
// batch, or executing a full turn through to the next AwaitChoices or
// Ended.
func (l *Loop) Continue(ctx context.Context) error {
	if l.Battle.Ended {
		l.phase = PhaseEnded
		return nil
	}
	if l.phase != PhaseAwaitChoices {
		return nil
	}
	if !l.ReadyToResolve() {
		return nil
	}
	if l.forcedSlots != nil {
		return l.resolveForcedReplacements(ctx)
	}
	return l.timedResolveTurn(ctx)
}

// timedResolveTurn wraps resolveTurn with a wall-clock check against
// TickBudget, reporting an EventTurnTickBudgetWarning through Diag if a
// single turn's resolution (almost always dominated by scripted effect
// callbacks, not engine bookkeeping) runs long.
func (l *Loop) timedResolveTurn(ctx context.Context) error {
	budget := l.TickBudget
	if budget <= 0 {
		budget = defaultTickBudget
	}
	start := time.Now()
	err := l.resolveTurn(ctx)
	if elapsed := time.Since(start); elapsed > budget && l.Diag != nil {
		l.Diag.Publish(ctx, diagnostics.TickBudgetWarningEvent(l.Battle.Turn, elapsed, budget))
	}
	return err
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// sortedPlayerSlots returns a player's local active-slot indexes in
// ascending order, for deterministic iteration over a map.
func sortedPlayerSlots(player *model.Player) []int {
	out := make([]int, 0, len(player.ActiveSlots))
	for k := range player.ActiveSlots {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
