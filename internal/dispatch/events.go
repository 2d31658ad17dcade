package dispatch

// Event names the named events the dispatcher invokes callbacks for. The
// set mirrors the event catalogue every registered effect's callbacks key
// off of; most are modifier/relay events ("Modify...") that narrow a value
// as they pass through each listener, a few are veto events ("TryHit",
// "TryMove") any listener can cancel outright, and the rest are plain
// notifications ("Faint", "SwitchIn") with no return value.
type Event string

const (
	// Stat/damage modifier chain, invoked in the damage pipeline.
	EventModifyAtk     Event = "ModifyAtk"
	EventModifyDef     Event = "ModifyDef"
	EventModifySpA     Event = "ModifySpA"
	EventModifySpD     Event = "ModifySpD"
	EventModifySpe     Event = "ModifySpe"
	EventModifyAccuracy Event = "ModifyAccuracy"
	EventModifyCritRatio Event = "ModifyCritRatio"
	EventModifyDamage  Event = "ModifyDamage"
	EventModifyWeight  Event = "ModifyWeight"

	// Hit/use veto chain: any listener returning a veto stops the action.
	EventTryHit      Event = "TryHit"
	EventTryMove     Event = "TryMove"
	EventTryHeal     Event = "TryHeal"
	EventTryBoost    Event = "TryBoost"
	EventTryImmunity Event = "TryImmunity"
	EventImmunity    Event = "Immunity"
	EventTryAddStatus    Event = "TryAddStatus"
	EventTryAddVolatile  Event = "TryAddVolatile"

	// BasePower narrows a move's base power before the damage formula reads
	// it (Technician, Facade-while-statused, terrain boosts, ...).
	EventBasePower Event = "BasePower"

	// Plain notifications, no return value observed by the dispatcher.
	EventBeforeMove     Event = "BeforeMove"
	EventAfterMove      Event = "AfterMove"
	EventHit            Event = "Hit"
	EventAfterHit       Event = "AfterHit"
	EventDamagingHit     Event = "DamagingHit"
	EventSuperEffective Event = "SuperEffective"
	EventResisted       Event = "Resisted"
	EventCriticalHit    Event = "CriticalHit"
	EventFaint          Event = "Faint"
	EventSwitchIn       Event = "SwitchIn"
	EventSwitchOut      Event = "SwitchOut"
	EventStart          Event = "Start"
	EventEnd            Event = "End"
	EventEndVolatile    Event = "EndVolatile"
	EventCureStatus     Event = "CureStatus"
	EventResidual       Event = "Residual"
	EventWeatherChange  Event = "WeatherChange"
	EventTerrainChange  Event = "TerrainChange"
	EventSetStatus      Event = "SetStatus"
	EventBoost          Event = "Boost"
	EventMustRecharge   Event = "MustRecharge"
	EventChargeMove     Event = "ChargeMove"
	EventLockMove       Event = "LockMove"
	EventRedirectTarget Event = "RedirectTarget"
	EventEffectiveSpeed Event = "EffectiveSpeed"
)
