package core

import "fmt"

// ValidationError indicates a submission is missing required fields or
// exceeds a structural limit. The request performed no side effects.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// QuotaExceededError indicates an identity has used all of its allowed
// submissions. The request performed no side effects.
type QuotaExceededError struct {
	Key   string
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("edit quota exceeded: %s has reached the limit of %d submissions", e.Key, e.Limit)
}

// AuthError indicates the supplied admin password did not match.
// The message never reveals how close the attempt was.
type AuthError struct{}

func (e *AuthError) Error() string {
	return "unauthorized"
}

// StorageError wraps a failure in the ledger, store, or mirror.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
