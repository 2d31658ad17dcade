// Package berrors defines the engine's error taxonomy: a small, closed set
// of kinds a caller can branch on with errors.As, plus the convention for
// the one outcome that is logged rather than returned as an error.
package berrors

import (
	"errors"
	"fmt"
)

// ValidationErr reports a caller-supplied request that does not satisfy the
// engine's input contract: a malformed choice, an option outside its
// documented range, a reference to a creature/move/side that does not
// exist in this battle. The caller is expected to fix the request and
// retry; the battle's state is unchanged.
type ValidationErr struct {
	Field  string
	Reason string
}

func (e *ValidationErr) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation constructs a ValidationErr.
func Validation(field, reason string) error {
	return &ValidationErr{Field: field, Reason: reason}
}

// NotFoundErr reports a lookup that found nothing: an unregistered move ID,
// a data-store species that isn't defined, an effect with no matching
// descriptor. Distinct from ValidationErr because the request shape was
// fine; the referenced thing simply doesn't exist in the loaded data.
type NotFoundErr struct {
	Kind string
	ID   string
}

func (e *NotFoundErr) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// NotFound constructs a NotFoundErr.
func NotFound(kind, id string) error {
	return &NotFoundErr{Kind: kind, ID: id}
}

// InvariantErr reports a condition the engine's own internal bookkeeping
// guarantees should never happen (duplicate primary status, a dangling
// EffectState with no matching applied-ID entry, a handle resolving to
// nothing). It is fatal to the battle: the engine does not attempt to
// continue past one, and callers must never silently recover from it the
// way they might a ValidationErr.
type InvariantErr struct {
	Invariant string
	Detail    string
}

func (e *InvariantErr) Error() string {
	return fmt.Sprintf("invariant violated (%s): %s", e.Invariant, e.Detail)
}

// Invariant constructs an InvariantErr.
func Invariant(invariant, detail string) error {
	return &InvariantErr{Invariant: invariant, Detail: detail}
}

// Invariantf is Invariant with a formatted detail message.
func Invariantf(invariant, format string, args ...any) error {
	return &InvariantErr{Invariant: invariant, Detail: fmt.Sprintf(format, args...)}
}

// IsValidation, IsNotFound, and IsInvariant classify an error by kind so
// callers (a request handler, a CLI, a test) can decide what to do with it
// without depending on the exact wrapped type.
func IsValidation(err error) bool {
	var e *ValidationErr
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundErr
	return errors.As(err, &e)
}

func IsInvariant(err error) bool {
	var e *InvariantErr
	return errors.As(err, &e)
}

// OperationOutcome is not an error. It names a move or effect that failed to
// do anything (a move that missed, an ability that had no legal target, a
// status that couldn't be inflicted because one was already present) but
// whose failure is itself normal, loggable battle behaviour rather than a
// fault in the request or the engine. Callers append these to the battle
// log ("fail" / "miss" lines); they are never returned from a function
// signature that returns error.
type OperationOutcome struct {
	Operation string
	Reason    string
}

func (o OperationOutcome) String() string {
	if o.Reason == "" {
		return o.Operation
	}
	return fmt.Sprintf("%s (%s)", o.Operation, o.Reason)
}
