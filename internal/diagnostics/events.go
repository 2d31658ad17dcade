package diagnostics

// Categories group diagnostics events by the engine subsystem that produced
// them. These are operator-facing (crash triage, tick-budget alarms), distinct
// from the battle log's creature-facing events (see internal/battlelog).
const (
	CategoryDispatch   Category = "dispatch"
	CategoryScheduler  Category = "scheduler"
	CategoryDamage     Category = "damage"
	CategoryPRNG       Category = "prng"
	CategoryTurn       Category = "turn"
	CategoryRegistry   Category = "registry"
	CategoryLinks      Category = "links"
	CategoryValidation Category = "validation"
	CategoryTransport  Category = "transport"
)

// Entity kinds referenced by diagnostics events.
const (
	EntityKindCreature EntityKind = "creature"
	EntityKindSide      EntityKind = "side"
	EntityKindPlayer   EntityKind = "player"
	EntityKindField    EntityKind = "field"
	EntityKindEffect   EntityKind = "effect"
)

// Event type names emitted by the engine's diagnostics publisher.
const (
	EventDispatchCallbackError EventType = "dispatch.callback_error"
	EventDispatchVeto          EventType = "dispatch.veto"
	EventInvariantViolation    EventType = "engine.invariant_violation"
	EventPRNGReseed            EventType = "prng.reseed"
	EventSchedulerReorder      EventType = "scheduler.reorder"
	EventTurnTickBudgetWarning EventType = "turn.tick_budget_warning"
	EventLinkRemoved           EventType = "links.removed"
	EventServerStart           EventType = "transport.server_start"
	EventServerStop            EventType = "transport.server_stop"
)
