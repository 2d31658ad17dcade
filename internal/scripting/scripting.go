// Package scripting is the Lua-backed alternative to hand-built
// registry.Descriptor callback tables (a data-loading layer is free to
// construct a Descriptor's Callbacks map directly in Go instead): spec §9
// treats the effect-scripting language ("fxlang") as an external, swappable
// concern the core must not couple to, so battlecore ships two
// interchangeable backends behind the same registry.Callback shape. This
// one lets a data author declare a handful of named hook functions
// ("on_residual", "on_base_power", ...) in Lua source instead of Go, using
// github.com/Shopify/go-lua the way louisbranch-fracturing.space embeds Lua
// for its own scripted scenario/game logic.
//
// A Script owns one *lua.State for its lifetime. Per spec §5's
// single-threaded cooperative scheduling model, a battle never calls into
// more than one Script concurrently, so a Script needs no locking of its
// own beyond the mutex guarding against accidental reentrant use from
// outside that model (e.g. two battles sharing a compiled Script, which
// Load's callers should avoid but which the mutex makes safe rather than
// silently corrupting).
package scripting

import (
	"fmt"
	"sync"

	lua "github.com/Shopify/go-lua"

	"github.com/embercore/battlecore/internal/dispatch"
	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/registry"
)

// hookEvents maps the global Lua function name an effect script may define
// to the dispatch event it backs. A script need only define the hooks it
// cares about; Callbacks skips any name whose global isn't a function.
var hookEvents = map[string]dispatch.Event{
	"on_residual":        dispatch.EventResidual,
	"on_base_power":      dispatch.EventBasePower,
	"on_modify_damage":   dispatch.EventModifyDamage,
	"on_modify_atk":      dispatch.EventModifyAtk,
	"on_modify_def":      dispatch.EventModifyDef,
	"on_modify_spa":      dispatch.EventModifySpA,
	"on_modify_spd":      dispatch.EventModifySpD,
	"on_modify_spe":      dispatch.EventModifySpe,
	"on_modify_accuracy": dispatch.EventModifyAccuracy,
	"on_modify_crit_ratio": dispatch.EventModifyCritRatio,
	"on_try_hit":          dispatch.EventTryHit,
	"on_try_heal":         dispatch.EventTryHeal,
	"on_hit":              dispatch.EventHit,
	"on_after_hit":        dispatch.EventAfterHit,
	"on_damaging_hit":     dispatch.EventDamagingHit,
	"on_switch_in":        dispatch.EventSwitchIn,
	"on_switch_out":       dispatch.EventSwitchOut,
	"on_faint":            dispatch.EventFaint,
	"on_start":            dispatch.EventStart,
	"on_end":              dispatch.EventEnd,
}

// Script is one compiled effect-callback source, ready to be turned into a
// registry.Descriptor's Callbacks map.
type Script struct {
	id    id.ID
	mu    sync.Mutex
	state *lua.State
}

// Load compiles source under a fresh Lua state bound to effectID. The
// top-level chunk runs once immediately (as a normal Lua "require"-style
// module body would), after which Callbacks inspects whichever hook-named
// globals it left behind.
func Load(effectID id.ID, source string) (*Script, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerHostAPI(state)

	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("scripting: compile %s: %w", effectID, err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("scripting: run %s: %w", effectID, err)
	}
	return &Script{id: effectID, state: state}, nil
}

// registerHostAPI installs the small set of Go functions a script may call
// back into: just enough surface to prove the seam (spec §9 says the core
// "must not couple to the chosen strategy", not that the scripting backend
// needs a rich standard library of its own).
func registerHostAPI(state *lua.State) {
	state.Register("clamp", func(l *lua.State) int {
		v := lua.CheckNumber(l, 1)
		lo := lua.CheckNumber(l, 2)
		hi := lua.CheckNumber(l, 3)
		switch {
		case v < lo:
			l.PushNumber(lo)
		case v > hi:
			l.PushNumber(hi)
		default:
			l.PushNumber(v)
		}
		return 1
	})
}

// Callbacks returns one registry.Callback per recognized hook the script
// defined, keyed by the dispatch event name, ready to be merged into a
// registry.Descriptor.Callbacks map exactly like a hand-written Go handler
// table would populate one. An author controls
// ordering against other effects reacting to the same event by defining a
// sibling `<hook>_priority` / `<hook>_suborder` integer global; both
// default to zero.
func (s *Script) Callbacks() map[string][]registry.Callback {
	out := make(map[string][]registry.Callback)
	for name, event := range hookEvents {
		s.state.Global(name)
		isFn := s.state.IsFunction(-1)
		s.state.Pop(1)
		if !isFn {
			continue
		}
		hook := name
		out[string(event)] = append(out[string(event)], registry.Callback{
			Priority: s.intGlobal(hook + "_priority"),
			SubOrder: s.intGlobal(hook + "_suborder"),
			Handler:  s.handlerFor(hook),
		})
	}
	return out
}

func (s *Script) intGlobal(name string) int {
	s.state.Global(name)
	defer s.state.Pop(1)
	if !s.state.IsNumber(-1) {
		return 0
	}
	n, _ := s.state.ToNumber(-1)
	return int(n)
}

// handlerFor wraps the named Lua global function as a registry.Handler: it
// pushes the dispatch frame's relay value (the running figure every
// Modify*/BasePower event threads through RunEvent; args instead when there
// is no frame or its relay value is nil) as the call's sole argument,
// invokes the function under the script's own mutex (serializing the rare
// case of one Script instance shared cross-battle), and converts its first
// return value back into the relay value dispatch expects. A first return
// of boolean false on a veto-eligible event (TryHit, TryHeal, ...) calls
// frame.Veto instead, with the optional second string return as the
// reason, mirroring how a native Go handler calls
// frame.(*dispatch.Frame).Veto directly. The Lua stack is restored to its
// height before the call when the handler returns.
func (s *Script) handlerFor(hook string) registry.Handler {
	return func(frame any, self id.ID, args any) any {
		s.mu.Lock()
		defer s.mu.Unlock()

		in := args
		f, isFrame := frame.(*dispatch.Frame)
		if isFrame && f.RelayValue != nil {
			in = f.RelayValue
		}
		base := s.state.Top()
		defer s.state.SetTop(base)
		s.state.Global(hook)
		pushValue(s.state, in)
		if err := s.state.ProtectedCall(1, lua.MultipleReturns, 0); err != nil {
			return nil
		}
		nret := s.state.Top() - base
		first := base + 1

		if isFrame && nret >= 1 && s.state.IsBoolean(first) {
			if ok := s.state.ToBoolean(first); !ok {
				reason := ""
				if nret >= 2 {
					reason, _ = s.state.ToString(first + 1)
				}
				f.Veto(reason)
				return nil
			}
		}

		var result any
		if nret >= 1 {
			s.state.SetTop(first)
			result = popValue(s.state)
		}
		return result
	}
}

// pushValue pushes a Go relay/arg value onto the Lua stack in the shape
// every built-in dispatch call site actually uses: a bare number, string,
// bool, or nil. Anything else (an *model.ActiveMove pointer, for instance)
// is out of scope for the scripting seam and is passed as nil. The host
// API (registerHostAPI: only clamp) offers no accessor for structured move
// data either, so a script hook never sees it.
func pushValue(state *lua.State, v any) {
	switch t := v.(type) {
	case nil:
		state.PushNil()
	case int:
		state.PushInteger(t)
	case int64:
		state.PushInteger(int(t))
	case float64:
		state.PushNumber(t)
	case string:
		state.PushString(t)
	case bool:
		state.PushBoolean(t)
	default:
		state.PushNil()
	}
}

// popValue converts the value at the stack top into a Go any, preferring
// float64 for numbers (matching the relay-value type every damage-pipeline
// ModifyX event already threads through) without consuming it; the caller
// adjusts the stack itself afterward.
func popValue(state *lua.State) any {
	idx := -1
	switch {
	case state.IsBoolean(idx):
		return state.ToBoolean(idx)
	case state.IsNumber(idx):
		n, _ := state.ToNumber(idx)
		return n
	case state.IsString(idx):
		str, _ := state.ToString(idx)
		return str
	default:
		return nil
	}
}

// Descriptor builds a full registry.Descriptor for this script, merging its
// Lua-backed Callbacks with kind/name metadata the way a native built-in
// descriptor would be constructed by hand.
func Descriptor(kind registry.Kind, effectID id.ID, name string, script *Script) *registry.Descriptor {
	return &registry.Descriptor{
		ID:        effectID,
		Kind:      kind,
		Name:      name,
		Callbacks: script.Callbacks(),
	}
}

// RegisterInto compiles source and registers the resulting Descriptor
// directly into reg, the one-call path a data-loading layer uses to back an
// effect with the Lua backend instead of a native Go handler table — the
// two are otherwise indistinguishable to the rest of the engine, since both
// end up as a plain registry.Descriptor keyed by (kind, effectID).
func RegisterInto(reg *registry.Registry, kind registry.Kind, effectID id.ID, name, source string) error {
	script, err := Load(effectID, source)
	if err != nil {
		return err
	}
	reg.Register(Descriptor(kind, effectID, name, script))
	return nil
}
