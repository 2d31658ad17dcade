package prng

import "testing"

func TestInitialSeed(t *testing.T) {
	for _, seed := range []uint64{12345, 6789100000} {
		s := NewFromSeed(seed)
		if got := s.InitialSeed(); got != seed {
			t.Fatalf("InitialSeed() = %d, want %d", got, seed)
		}
	}
}

func TestRangeStaysInBounds(t *testing.T) {
	s := New()
	const lo, hi = 5, 12
	for i := 0; i < 50; i++ {
		n := s.Range(lo, hi)
		if n < lo || n >= hi {
			t.Fatalf("Range(%d,%d) = %d, out of bounds", lo, hi, n)
		}
	}
}

// TestChanceSequence pins the exact boolean sequence produced by seed=100
// for chance(3,7), matching the reference implementation byte-for-byte.
func TestChanceSequence(t *testing.T) {
	s := NewFromSeed(100)
	want := []bool{
		true, true, false, false, false, false, true, true, false, false,
		false, false, true, false, true, false, true, false, true, false,
		true, false, false, false, false, true, true, true, true, true,
		true, false, true, false, false,
	}
	for i, w := range want {
		if got := s.Chance(3, 7); got != w {
			t.Fatalf("Chance(3,7) call %d = %v, want %v", i, got, w)
		}
	}
}

// TestShuffleSequence pins the exact permutations produced by seed=123456789
// across three successive shuffles of the same slice.
func TestShuffleSequence(t *testing.T) {
	s := NewFromSeed(123456789)
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	Shuffle(s, items)
	want := []int{6, 3, 8, 4, 0, 2, 5, 1, 7, 9}
	assertIntSlice(t, items, want)

	Shuffle(s, items)
	want = []int{4, 7, 6, 2, 1, 0, 8, 5, 9, 3}
	assertIntSlice(t, items, want)

	Shuffle(s, items)
	want = []int{9, 7, 6, 1, 8, 4, 2, 3, 0, 5}
	assertIntSlice(t, items, want)
}

func assertIntSlice(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got, want)
		}
	}
}

func TestDeterminismAcrossRuns(t *testing.T) {
	const seed = 42
	const n = 1000

	run := func() []uint64 {
		s := NewFromSeed(seed)
		out := make([]uint64, n)
		for i := range out {
			out[i] = s.Next()
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d diverged: %d != %d", i, a[i], b[i])
		}
	}
}

func TestOverrideQueueBypassesLCG(t *testing.T) {
	s := NewFromSeed(1)
	s.PushOverride(9, 9, 9, 6)
	for _, want := range []uint64{9, 9, 9, 6} {
		if got := s.Next(); got != want {
			t.Fatalf("Next() = %d, want override %d", got, want)
		}
	}
	if s.PendingOverrides() != 0 {
		t.Fatalf("expected override queue drained, got %d remaining", s.PendingOverrides())
	}
	// The override queue never advanced the LCG state, so the next real draw
	// must equal the first draw of a fresh generator seeded the same way.
	fresh := NewFromSeed(1)
	if got, want := s.Next(), fresh.Next(); got != want {
		t.Fatalf("post-override Next() = %d, want %d", got, want)
	}
}
