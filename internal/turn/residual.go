package turn

import (
	"context"
	"fmt"

	"github.com/embercore/battlecore/internal/conditions"
	"github.com/embercore/battlecore/internal/dispatch"
	"github.com/embercore/battlecore/internal/model"
)

// runResiduals implements the Residuals node of spec §4.I's turn diagram:
// status and weather damage tick in side/slot order, every active
// creature's registered Residual callbacks fire through the dispatcher, the
// field's weather/terrain durations tick down, and the battle's win
// condition is finally checked before either ending or opening the next
// turn's requests.
func (l *Loop) runResiduals(ctx context.Context) error {
	for _, c := range l.Battle.ActiveCreatures() {
		if c.Fainted {
			continue
		}
		l.tickStatusDamage(c)
		l.tickWeatherDamage(c)
		l.tickStatusCure(c)
	}

	for _, c := range l.Battle.ActiveCreatures() {
		if c.Fainted {
			continue
		}
		l.Dispatch.RunEvent(dispatch.EventResidual, c.Handle, model.NoCreature, nil, nil)
	}

	l.tickFieldDuration()

	l.Battle.CheckWinner()
	if l.Battle.Ended {
		l.phase = PhaseEnded
		return nil
	}

	l.Battle.Turn++
	l.openTurnRequests()
	return nil
}

// tickStatusDamage applies burn/poison/toxic residual damage, per spec §3's
// status glossary entries: burn and regular poison deal a fixed 1/16 and
// 1/8 of max HP; toxic poison deals an increasing fraction tracked by the
// status's own EffectState.Turns counter.
func (l *Loop) tickStatusDamage(c *model.Creature) {
	if c.Status == "" {
		return
	}
	var fraction int
	switch c.Status {
	case conditions.StatusBurn:
		fraction = 16
	case conditions.StatusPoison:
		fraction = 8
	case conditions.StatusBadPoison:
		state := l.Battle.Effects.Get(model.CreatureLocation(c.Handle), c.Status)
		if state == nil {
			state = l.Battle.Effects.Apply(model.CreatureLocation(c.Handle), c.Status)
		}
		state.Turns++
		dmg := c.MaxHP * state.Turns / 16
		if dmg < 1 {
			dmg = 1
		}
		l.applyResidualDamage(c, dmg, "psn")
		return
	default:
		return
	}
	dmg := c.MaxHP / fraction
	if dmg < 1 {
		dmg = 1
	}
	l.applyResidualDamage(c, dmg, string(c.Status))
}

// tickStatusCure resolves sleep waking up and freeze thawing: sleep lasts a
// randomly rolled 1-3 turns (rolled once, on first tick, and tracked via the
// status's own EffectState.Duration), freeze has a flat 20% chance per turn
// to thaw. A registered effect may still veto CureStatus to keep either
// status applied (e.g. Insomnia preventing re-sleep doesn't apply here, but
// a hypothetical "can't wake up" volatile would).
func (l *Loop) tickStatusCure(c *model.Creature) {
	if c.Status != conditions.StatusSleep && c.Status != conditions.StatusFreeze {
		return
	}
	cure := false
	switch c.Status {
	case conditions.StatusSleep:
		state := l.Battle.Effects.Get(model.CreatureLocation(c.Handle), c.Status)
		if state == nil {
			state = l.Battle.Effects.Apply(model.CreatureLocation(c.Handle), c.Status)
		}
		if state.Duration == 0 {
			state.Duration = int(l.Battle.RNG.Range(1, 4))
		}
		state.Turns++
		cure = state.Turns >= state.Duration
	case conditions.StatusFreeze:
		cure = l.Battle.RNG.Chance(20, 100)
	}
	if !cure {
		return
	}
	cured := c.Status
	if _, vetoed, _ := l.Dispatch.RunEvent(dispatch.EventCureStatus, c.Handle, model.NoCreature, cured, nil); vetoed {
		return
	}
	c.Status = ""
	l.Battle.Effects.End(model.CreatureLocation(c.Handle), cured)
	l.Log.Add("curestatus").Pair("mon", fmt.Sprintf("%d", c.Handle)).Pair("status", string(cured)).Done()
}

// tickWeatherDamage applies sandstorm/hail chip damage to creatures whose
// types do not grant immunity (Rock/Ground/Steel for sandstorm, Ice for
// hail). A Cloud-Nine/Air-Lock ability on any active creature suppresses it
// for as long as that creature stays in (spec §8 scenario 3); the check is
// shared with the damage pipeline's own weather modifier via
// damage.Pipeline.WeatherSuppressed so both agree on whether weather is
// currently live.
func (l *Loop) tickWeatherDamage(c *model.Creature) {
	weather := l.Battle.Field.Weather
	if weather != conditions.WeatherSandstorm && weather != conditions.WeatherHail {
		return
	}
	if l.Damage.WeatherSuppressed() {
		return
	}
	if weather == conditions.WeatherSandstorm && hasAnyType(c, "rock", "ground", "steel") {
		return
	}
	if weather == conditions.WeatherHail && hasAnyType(c, "ice") {
		return
	}
	dmg := c.MaxHP / 16
	if dmg < 1 {
		dmg = 1
	}
	l.applyResidualDamage(c, dmg, string(weather))
}

func hasAnyType(c *model.Creature, types ...string) bool {
	for _, t := range c.Types {
		for _, want := range types {
			if t == want {
				return true
			}
		}
	}
	return false
}

// applyResidualDamage subtracts dmg from c's current HP, clamped to zero,
// logs it, and hands off to Faint handling if it knocked the creature out.
func (l *Loop) applyResidualDamage(c *model.Creature, dmg int, cause string) {
	if dmg <= 0 || c.Fainted {
		return
	}
	if dmg > c.CurrentHP {
		dmg = c.CurrentHP
	}
	c.CurrentHP -= dmg
	if c.CurrentHP <= 0 {
		c.CurrentHP = 0
		c.Fainted = true
	}
	l.Log.Add("residualdamage").Pair("mon", fmt.Sprintf("%d", c.Handle)).Pair("from", cause).Int("hp", c.CurrentHP).Done()
	if c.Fainted {
		l.handleFaint(c.Handle)
	}
}

// tickFieldDuration advances weather/terrain's turn counter and clears
// either once its tracked duration elapses. A duration of 0 (e.g. a weather
// ability's "permanent until switched out" variant) never expires here.
func (l *Loop) tickFieldDuration() {
	if l.Battle.Field.Weather != "" {
		state := l.Battle.Effects.Get(model.FieldLocation, l.Battle.Field.Weather)
		if state != nil && state.Duration > 0 {
			state.Turns++
			if state.Turns >= state.Duration {
				ended := l.Battle.Field.Weather
				l.Battle.Effects.End(model.FieldLocation, ended)
				l.Battle.Field.Weather = ""
				l.Dispatch.RunEvent(dispatch.EventWeatherChange, model.NoCreature, model.NoCreature, ended, nil)
				l.Log.Add("weatherend").Pair("weather", string(ended)).Done()
			}
		}
	}
	if l.Battle.Field.Terrain != "" {
		state := l.Battle.Effects.Get(model.FieldLocation, l.Battle.Field.Terrain)
		if state != nil && state.Duration > 0 {
			state.Turns++
			if state.Turns >= state.Duration {
				ended := l.Battle.Field.Terrain
				l.Battle.Effects.End(model.FieldLocation, ended)
				l.Battle.Field.Terrain = ""
				l.Dispatch.RunEvent(dispatch.EventTerrainChange, model.NoCreature, model.NoCreature, ended, nil)
				l.Log.Add("terrainend").Pair("terrain", string(ended)).Done()
			}
		}
	}
}
