package scripting

import (
	"testing"

	"github.com/embercore/battlecore/internal/id"
	"github.com/embercore/battlecore/internal/registry"
)

func TestRegisterIntoMergesIntoRegistry(t *testing.T) {
	reg := registry.New()
	err := RegisterInto(reg, registry.KindAbility, id.Normalize("technician"), "Technician", `
		function on_base_power(power)
			if power <= 60 then
				return power * 1.5
			end
			return power
		end
	`)
	if err != nil {
		t.Fatalf("RegisterInto: %v", err)
	}
	if !reg.Has(registry.KindAbility, id.Normalize("technician")) {
		t.Fatal("expected technician to be registered")
	}
	desc := reg.MustLookup(registry.KindAbility, id.Normalize("technician"))
	cbs := desc.CallbacksFor("BasePower")
	if len(cbs) != 1 {
		t.Fatalf("expected one BasePower callback, got %d", len(cbs))
	}
	out := cbs[0].Handler(nil, id.Normalize("technician"), float64(40))
	if got, ok := out.(float64); !ok || got != 60 {
		t.Fatalf("on_base_power(40) = %v, want 60", out)
	}
}

func TestScriptBasePowerDoubling(t *testing.T) {
	script, err := Load(id.Normalize("technician"), `
		function on_base_power(power)
			return power * 2
		end
	`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cbs := script.Callbacks()
	handlers := cbs["BasePower"]
	if len(handlers) != 1 {
		t.Fatalf("expected one BasePower callback, got %d", len(handlers))
	}

	out := handlers[0].Handler(nil, id.Normalize("technician"), float64(60))
	got, ok := out.(float64)
	if !ok || got != 120 {
		t.Fatalf("on_base_power(60) = %v, want 120", out)
	}
}

func TestScriptPriorityGlobals(t *testing.T) {
	script, err := Load(id.Normalize("quick-claw"), `
		function on_residual() end
		on_residual_priority = 5
		on_residual_suborder = -1
	`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cbs := script.Callbacks()["Residual"]
	if len(cbs) != 1 {
		t.Fatalf("expected one Residual callback, got %d", len(cbs))
	}
	if cbs[0].Priority != 5 || cbs[0].SubOrder != -1 {
		t.Fatalf("priority/suborder = %d/%d, want 5/-1", cbs[0].Priority, cbs[0].SubOrder)
	}
}

func TestScriptIgnoresUnknownGlobals(t *testing.T) {
	script, err := Load(id.Normalize("no-op"), `
		some_unrelated_global = 42
	`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cbs := script.Callbacks(); len(cbs) != 0 {
		t.Fatalf("expected no callbacks, got %v", cbs)
	}
}

func TestScriptCompileError(t *testing.T) {
	if _, err := Load(id.Normalize("broken"), `this is not lua (`); err == nil {
		t.Fatal("expected a compile error")
	}
}
