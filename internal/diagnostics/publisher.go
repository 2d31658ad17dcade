package diagnostics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/embercore/battlecore/internal/model"
)

// EventType provides a namespaced identifier for simulation telemetry.
type EventType string

// Severity expresses the importance of a telemetry event.
type Severity int

const (
	// SeverityDebug is verbose information for diagnostics.
	SeverityDebug Severity = iota
	// SeverityInfo is routine operational telemetry.
	SeverityInfo
	// SeverityWarn indicates a recoverable anomaly.
	SeverityWarn
	// SeverityError indicates a failure that likely needs attention.
	SeverityError
)

// Category groups events by subsystem for filtering.
type Category string

// Event describes a semantic occurrence within the simulation loop.
type Event struct {
	Type      EventType
	Tick      uint64
	Time      time.Time
	Actor     EntityRef
	Targets   []EntityRef
	Severity  Severity
	Category  Category
	Payload   any
	Extra     map[string]any
	TraceID   string
	CommandID string
}

// EntityKind differentiates actors within the simulation.
type EntityKind string

// EntityRef identifies actors involved in an event.
type EntityRef struct {
	ID   string
	Kind EntityKind
}

// Publisher emits telemetry events without blocking the simulation loop.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NopPublisher is a Publisher that drops all events.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) {}

// WithFields attaches static metadata to every event emitted by the Publisher.
func WithFields(base Publisher, fields map[string]any) Publisher {
	if base == nil {
		return NopPublisher{}
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &fieldsPublisher{base: base, fields: copied}
}

type fieldsPublisher struct {
	base   Publisher
	fields map[string]any
}

func (p *fieldsPublisher) Publish(ctx context.Context, event Event) {
	if len(p.fields) > 0 {
		if event.Extra == nil {
			event.Extra = make(map[string]any, len(p.fields))
		}
		for k, v := range p.fields {
			if _, exists := event.Extra[k]; !exists {
				event.Extra[k] = v
			}
		}
	}
	p.base.Publish(ctx, event)
}

// CreatureEntity builds an EntityRef naming a creature by the battle-scoped
// handle every other engine component (dispatch, damage, scheduler) already
// addresses it by.
func CreatureEntity(h model.CreatureHandle) EntityRef {
	return EntityRef{ID: strconv.Itoa(int(h)), Kind: EntityKindCreature}
}

// DispatchVetoEvent reports a registered callback vetoing eventName against
// target, the way Dispatcher.RunEvent signals a veto back to its caller.
func DispatchVetoEvent(target model.CreatureHandle, eventName, reason string) Event {
	return Event{
		Type:     EventDispatchVeto,
		Category: CategoryDispatch,
		Severity: SeverityDebug,
		Actor:    CreatureEntity(target),
		Payload:  map[string]string{"event": eventName, "reason": reason},
	}
}

// DispatchCallbackErrorEvent reports a registered callback panicking mid
// dispatch. RunEvent recovers the panic, treats the event as vetoed rather
// than crashing the turn loop, and reports the failure here.
func DispatchCallbackErrorEvent(target model.CreatureHandle, eventName string, recovered any) Event {
	return Event{
		Type:     EventDispatchCallbackError,
		Category: CategoryDispatch,
		Severity: SeverityError,
		Actor:    CreatureEntity(target),
		Payload:  map[string]string{"event": eventName, "panic": fmt.Sprint(recovered)},
	}
}

// SchedulerReorderEvent reports the scheduler's speed-tie coin flip swapping
// first and second's resolution order, the one place a currently
// deterministic ordering admits randomness.
func SchedulerReorderEvent(first, second model.CreatureHandle) Event {
	return Event{
		Type:     EventSchedulerReorder,
		Category: CategoryScheduler,
		Severity: SeverityDebug,
		Actor:    CreatureEntity(first),
		Targets:  []EntityRef{CreatureEntity(second)},
	}
}

// LinkRemovedEvent reports a linked effect ending as a side effect of its
// partner ending (links.Manager.Remove's one-hop propagation).
func LinkRemovedEvent(loc model.EffectLocation, effectID, link string) Event {
	return Event{
		Type:     EventLinkRemoved,
		Category: CategoryLinks,
		Severity: SeverityDebug,
		Payload:  map[string]string{"effect": effectID, "link": link},
	}
}

// InvariantViolationEvent reports a berrors.Invariant error the engine
// raised rather than silently continuing in a state it cannot model.
func InvariantViolationEvent(detail string) Event {
	return Event{
		Type:     EventInvariantViolation,
		Category: CategoryValidation,
		Severity: SeverityError,
		Payload:  detail,
	}
}

// TickBudgetWarningEvent reports one turn's resolution wall-clock time
// exceeding the loop's configured budget, the only per-turn performance
// signal the engine surfaces on its own.
func TickBudgetWarningEvent(turnNumber int, elapsed, budget time.Duration) Event {
	return Event{
		Type:     EventTurnTickBudgetWarning,
		Category: CategoryTurn,
		Severity: SeverityWarn,
		Payload: map[string]int64{
			"turn":       int64(turnNumber),
			"elapsed_ms": elapsed.Milliseconds(),
			"budget_ms":  budget.Milliseconds(),
		},
	}
}
