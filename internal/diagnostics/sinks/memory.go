package sinks

import (
	"context"
	"sync"

	"github.com/embercore/battlecore/internal/diagnostics"
)

// Memory collects events for assertions in tests.
type Memory struct {
	mu     sync.Mutex
	events []diagnostics.Event
}

// NewMemory constructs an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{events: make([]diagnostics.Event, 0)}
}

// Write satisfies diagnostics.Sink.
func (m *Memory) Write(event diagnostics.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := event
	if event.Extra != nil {
		copied.Extra = make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied.Extra[k] = v
		}
	}
	if event.Targets != nil {
		copied.Targets = append([]diagnostics.EntityRef(nil), event.Targets...)
	}
	m.events = append(m.events, copied)
	return nil
}

// Close satisfies diagnostics.Sink.
func (m *Memory) Close(context.Context) error { return nil }

// Events returns a snapshot of collected events.
func (m *Memory) Events() []diagnostics.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]diagnostics.Event, len(m.events))
	copy(copied, m.events)
	return copied
}
