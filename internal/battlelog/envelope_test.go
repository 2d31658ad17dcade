package battlelog

import (
	"encoding/json"
	"testing"
)

func TestPublicEnvelopesOmitPrivatePayload(t *testing.T) {
	log := New()
	log.Split("damage", 0).Int("hp", 50).PrivateInt("hp", 120).Done()

	envs := log.PublicEnvelopes()
	if len(envs) != 1 {
		t.Fatalf("expected one envelope, got %d", len(envs))
	}
	if envs[0].Private != nil {
		t.Fatalf("public envelope should carry no private pairs, got %v", envs[0].Private)
	}
	if envs[0].Pairs[0].Value != "50" {
		t.Fatalf("got %v, want hp:50", envs[0].Pairs)
	}
}

func TestEnvelopesForSideSeesOwnPrivateView(t *testing.T) {
	log := New()
	log.Split("damage", 1).Int("hp", 50).PrivateInt("hp", 120).Done()

	own := log.EnvelopesForSide(1)
	other := log.EnvelopesForSide(0)
	if own[0].Pairs[0].Value != "120" {
		t.Fatalf("side 1 should see its own private value, got %v", own[0].Pairs)
	}
	if other[0].Pairs[0].Value != "50" {
		t.Fatalf("side 0 should see the public value, got %v", other[0].Pairs)
	}
}

func TestEnvelopeRoundTripsThroughJSON(t *testing.T) {
	log := New()
	log.Add("turn").Int("number", 3).Done()
	env := ToEnvelope(log.Entries()[0])

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out Envelope
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Verb != "turn" || len(out.Pairs) != 1 || out.Pairs[0].Value != "3" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
