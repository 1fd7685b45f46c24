package service

import "fmt"

// Failure taxonomy for the checkout path. Every failure aborts the whole
// recording operation; nothing is silently swallowed and nothing is retried.

// ReferenceError reports that a referenced entity does not exist (or is no
// longer active, which the catalog treats the same way).
type ReferenceError struct {
	Entity string // "customer" | "product" | "transaction"
	ID     string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Entity, e.ID)
}

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageFault wraps a storage engine failure during commit. The operation
// left no partial state; the caller may resubmit.
type StorageFault struct {
	Err error
}

func (e *StorageFault) Error() string { return "storage failure: " + e.Err.Error() }
func (e *StorageFault) Unwrap() error { return e.Err }
