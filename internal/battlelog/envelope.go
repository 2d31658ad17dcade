package battlelog

// Envelope is the JSON-serializable transport form of one Entry, used by an
// embedding-layer adapter (cmd/battlecore-serve's websocket spectator feed)
// that needs structured, per-field access to a log line rather than the
// flat `verb|key:value` text spec §4.J specifies for the canonical log
// itself. A cmd/battlecore-schema run reflects this type to JSON Schema
// alongside model.BattleOptions so a client can validate the stream it
// receives the same way it validates the battle it opens.
type Envelope struct {
	Verb  string          `json:"verb"`
	Pairs []EnvelopePair  `json:"pairs"`

	// Split, SplitSide, and Private mirror Entry's own fields: Split marks
	// this line as side-private, SplitSide names which side's private view
	// differs, and Private carries that side's own payload. A non-split
	// envelope always has Private == nil.
	Split     bool           `json:"split,omitempty"`
	SplitSide int            `json:"split_side,omitempty" jsonschema:"description=Only meaningful when split is true."`
	Private   []EnvelopePair `json:"private,omitempty"`
}

// EnvelopePair is one key:value segment in JSON form.
type EnvelopePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func pairsToEnvelope(pairs []Pair) []EnvelopePair {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]EnvelopePair, len(pairs))
	for i, p := range pairs {
		out[i] = EnvelopePair{Key: p.Key, Value: p.Value}
	}
	return out
}

// ToEnvelope converts e into its JSON transport form.
func ToEnvelope(e Entry) Envelope {
	return Envelope{
		Verb:      e.Verb,
		Pairs:     pairsToEnvelope(e.Pairs),
		Split:     e.Split,
		SplitSide: e.SplitSide,
		Private:   pairsToEnvelope(e.Private),
	}
}

// EnvelopesForSide renders the view a given side's own player sees (same
// selection rule as LinesForSide) as JSON envelopes instead of text lines,
// one per entry, in append order.
func (l *Log) EnvelopesForSide(side int) []Envelope {
	out := make([]Envelope, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Split && e.SplitSide == side {
			out = append(out, Envelope{Verb: e.Verb, Pairs: pairsToEnvelope(e.Private)})
			continue
		}
		out = append(out, Envelope{Verb: e.Verb, Pairs: pairsToEnvelope(e.Pairs)})
	}
	return out
}

// PublicEnvelopes renders the spectator/opponent view as JSON envelopes: a
// split entry contributes only its public payload, exactly as PublicLines
// does for the text form.
func (l *Log) PublicEnvelopes() []Envelope {
	out := make([]Envelope, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, Envelope{Verb: e.Verb, Pairs: pairsToEnvelope(e.Pairs)})
	}
	return out
}
