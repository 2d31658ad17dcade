package id

// Handle is an opaque small-integer reference into an Arena. Handles are
// stable for the lifetime of the battle: once issued, a handle never points
// at a different entity and is never reused, so holding a stale handle is
// always detectable (Arena.Get returns false) rather than silently aliasing.
type Handle int32

// Zero is the reserved invalid handle value; no entity is ever registered at
// index zero.
const Zero Handle = 0

// Arena is an append-only registry of entities addressed by Handle. It backs
// the opaque creature and active-move references described by the data
// model: callers never hold raw pointers across dispatch boundaries, only
// handles they re-resolve through the owning Arena.
type Arena[T any] struct {
	entries []T
}

// NewArena constructs an empty arena. The zero value of Arena is also usable;
// NewArena exists for symmetry with other constructors in the package.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores value and returns the handle it can be retrieved by. Handles
// are issued sequentially starting at 1, so Zero is never a valid result.
func (a *Arena[T]) Insert(value T) Handle {
	a.entries = append(a.entries, value)
	return Handle(len(a.entries))
}

// Get resolves a handle to its stored value. The second return value is
// false for Zero, for handles from a different arena, or for indices beyond
// what has been inserted.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	if a == nil || h <= 0 || int(h) > len(a.entries) {
		return zero, false
	}
	return a.entries[h-1], true
}

// MustGet resolves a handle and panics if it is invalid. Callers use this
// only where the handle's validity is already a checked invariant (e.g. a
// handle just returned by Insert), never for handles sourced from outside
// the battle.
func (a *Arena[T]) MustGet(h Handle) T {
	value, ok := a.Get(h)
	if !ok {
		panic("id: invalid handle")
	}
	return value
}

// Set overwrites the value stored at h. It is a no-op for invalid handles.
func (a *Arena[T]) Set(h Handle, value T) {
	if a == nil || h <= 0 || int(h) > len(a.entries) {
		return
	}
	a.entries[h-1] = value
}

// Len reports how many entries have been inserted.
func (a *Arena[T]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// All returns the handles of every entry currently stored, in insertion
// order. Entries are never removed from an Arena, so this also reports every
// handle ever issued.
func (a *Arena[T]) All() []Handle {
	if a == nil {
		return nil
	}
	handles := make([]Handle, len(a.entries))
	for i := range a.entries {
		handles[i] = Handle(i + 1)
	}
	return handles
}
