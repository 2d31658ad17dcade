// Package id provides the engine's normalised string identifier type and the
// opaque small-integer handle arena used to reference creatures and active
// moves without exposing raw pointers.
package id

import "strings"

// ID is a case- and whitespace-insensitive identifier, e.g. a move, item,
// ability, or condition name. Two IDs compare equal under Normalize even if
// their surface spelling differs ("Thunder Wave" and "thunderwave" are the
// same ID).
type ID string

// Normalize lowercases s and strips every character that is not a letter or
// digit, so "Thunder Wave", "thunder-wave", and "THUNDERWAVE" all normalize
// to "thunderwave".
func Normalize(s string) ID {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			// whitespace, punctuation, and everything else is insignificant
			// to identity.
		}
	}
	return ID(b.String())
}

// Equal reports whether two raw strings normalize to the same ID.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// String returns the normalized identifier text.
func (i ID) String() string { return string(i) }

// IsEmpty reports whether the ID carries no normalized text.
func (i ID) IsEmpty() bool { return i == "" }
