package diagnostics

import "time"

// ConsoleConfig tunes the console sink. It is currently a marker type: the
// console sink writes unconditionally to its configured writer, but the type
// exists so callers can pass named configuration instead of a bare writer.
type ConsoleConfig struct{}

// JSONConfig tunes the batching JSON-lines sink.
type JSONConfig struct {
	MaxBatch      int
	FlushInterval time.Duration
	FilePath      string
}

// Config captures the runtime configuration for the diagnostics router.
type Config struct {
	EnabledSinks []string
	BufferSize   int
	MinSeverity  Severity
	Categories   []Category

	JSON JSONConfig

	Metadata map[string]string
}

// DefaultConfig returns a configuration mirroring the legacy stdout logging behaviour.
func DefaultConfig() Config {
	cfg := Config{
		EnabledSinks: []string{"console"},
		BufferSize:   1024,
		MinSeverity:  SeverityDebug,
		Categories:   nil,
		Metadata:     make(map[string]string),
	}
	cfg.JSON.MaxBatch = 1
	cfg.JSON.FlushInterval = 0
	return cfg
}

// Clock describes the time source used by the router.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }
