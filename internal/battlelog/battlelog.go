// Package battlelog implements the battle log (component J): an
// append-only sequence of text lines of the form `verb|key:value|...`,
// with side-private information emitted as a `split|side:k` marker line
// followed by the side-k-only payload and the public payload, one per
// line, per spec §4.J. This is the domain log a client or replay tool
// consumes; it is distinct from internal/diagnostics, which is the
// engine's own operational telemetry stream.
package battlelog

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is one logged line, either a plain public entry or a split entry
// carrying a different payload per side.
type Entry struct {
	// Verb is the entry's leading token (e.g. "move", "damage", "faint",
	// "turn").
	Verb string
	// Pairs are the entry's ordered key:value segments, emitted in the
	// order they were added (callers control significant ordering, e.g.
	// "damage|mon:..." wants mon before hp).
	Pairs []Pair

	// Split, when true, marks this entry as side-private: Public is shown
	// to everyone except the side named by SplitSide, which instead sees
	// Private.
	Split     bool
	SplitSide int
	Private   []Pair
}

// Pair is one key:value segment of an Entry.
type Pair struct {
	Key   string
	Value string
}

// Log is the append-only sequence of entries recorded for one battle.
// Entries are never rewritten or removed once appended (invariant 8).
type Log struct {
	entries []Entry
}

// New constructs an empty Log.
func New() *Log { return &Log{} }

// Builder accumulates key:value pairs for one not-yet-appended entry.
type Builder struct {
	log     *Log
	verb    string
	pairs   []Pair
	split   bool
	side    int
	private []Pair
}

// Add starts building a new plain entry with the given verb.
func (l *Log) Add(verb string) *Builder {
	return &Builder{log: l, verb: verb}
}

// Split starts building a side-private entry: side sees its own Private
// pairs (added via PrivatePair/PrivateInt), everyone else
// sees the Public pairs built via the normal Pair/Int/... calls.
func (l *Log) Split(verb string, side int) *Builder {
	return &Builder{log: l, verb: verb, split: true, side: side}
}

// Pair appends a key:value segment to the public (or only, for a
// non-split entry) payload.
func (b *Builder) Pair(key, value string) *Builder {
	b.pairs = append(b.pairs, Pair{Key: key, Value: value})
	return b
}

// Int appends an integer-valued pair.
func (b *Builder) Int(key string, value int) *Builder {
	return b.Pair(key, fmt.Sprintf("%d", value))
}

// PrivatePair appends a key:value segment that only appears in the
// side-private view of a split entry. It is a no-op (aside from being
// dropped) on a non-split builder.
func (b *Builder) PrivatePair(key, value string) *Builder {
	if !b.split {
		return b
	}
	b.private = append(b.private, Pair{Key: key, Value: value})
	return b
}

// PrivateInt appends an integer-valued private-only pair.
func (b *Builder) PrivateInt(key string, value int) *Builder {
	return b.PrivatePair(key, fmt.Sprintf("%d", value))
}

// Done appends the built entry to the log and returns it.
func (b *Builder) Done() Entry {
	e := Entry{Verb: b.verb, Pairs: b.pairs, Split: b.split, SplitSide: b.side, Private: b.private}
	b.log.entries = append(b.log.entries, e)
	return e
}

// Entries returns every entry appended so far, in append order.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Len reports how many entries have been appended.
func (l *Log) Len() int { return len(l.entries) }

// render writes one entry's verb|key:value... line.
func render(verb string, pairs []Pair) string {
	var sb strings.Builder
	sb.WriteString(verb)
	for _, p := range pairs {
		sb.WriteByte('|')
		sb.WriteString(p.Key)
		sb.WriteByte(':')
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// Lines renders the full, unfiltered textual log: every entry in order,
// split entries rendered as the three-line `split|side:k` / private /
// public form spec §4.J and §3 invariant 8 specify. This is the form a
// from-seed replay tool stores; per-consumer views are produced by
// PublicLines and PrivateLines.
func (l *Log) Lines() []string {
	var out []string
	for _, e := range l.entries {
		if !e.Split {
			out = append(out, render(e.Verb, e.Pairs))
			continue
		}
		out = append(out, fmt.Sprintf("split|side:%d", e.SplitSide))
		out = append(out, render(e.Verb, e.Private))
		out = append(out, render(e.Verb, e.Pairs))
	}
	return out
}

// PublicLines renders the spectator/opponent view: split entries
// contribute only their public payload line, with no split marker.
func (l *Log) PublicLines() []string {
	var out []string
	for _, e := range l.entries {
		out = append(out, render(e.Verb, e.Pairs))
	}
	return out
}

// LinesForSide renders the view a given side's own player sees: a split
// entry addressed to this side contributes its private payload; a split
// entry addressed to a different side contributes that side's public
// payload, same as any spectator.
func (l *Log) LinesForSide(side int) []string {
	var out []string
	for _, e := range l.entries {
		if e.Split && e.SplitSide == side {
			out = append(out, render(e.Verb, e.Private))
			continue
		}
		out = append(out, render(e.Verb, e.Pairs))
	}
	return out
}

// Sides returns the distinct SplitSide values that have ever received a
// private entry, in ascending order, useful for callers building one
// per-side view of the whole log without enumerating Battle.Sides
// themselves.
func (l *Log) Sides() []int {
	seen := map[int]bool{}
	for _, e := range l.entries {
		if e.Split {
			seen[e.SplitSide] = true
		}
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
