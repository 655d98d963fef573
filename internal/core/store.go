package core

import "context"

// ScanFilter restricts a scan to records whose DateOfEvent falls in the
// given calendar month (1-12) and/or year. Zero means unconstrained;
// when both are set they AND-combine to an exact year-month match.
type ScanFilter struct {
	Month int
	Year  int
}

// IsZero reports whether the filter matches everything.
func (f ScanFilter) IsZero() bool {
	return f.Month == 0 && f.Year == 0
}

// Matches reports whether a record passes the filter. Records with an
// absent or malformed date match only the zero filter.
func (f ScanFilter) Matches(r EventRecord) bool {
	if f.IsZero() {
		return true
	}
	t, ok := ParseEventDate(r.DateOfEvent)
	if !ok {
		return false
	}
	if f.Month != 0 && int(t.Month()) != f.Month {
		return false
	}
	if f.Year != 0 && t.Year() != f.Year {
		return false
	}
	return true
}

// SubmissionStore is the authoritative collection of event records.
// Implementations must apply Insert and ReplaceForIdentity batches
// all-or-nothing; a failure surfaces as a StorageError to the caller.
type SubmissionStore interface {
	// Insert appends records. It never deduplicates.
	Insert(ctx context.Context, records []EventRecord) error

	// ReplaceForIdentity removes all records whose email matches key
	// (case-insensitive) and inserts the new batch.
	ReplaceForIdentity(ctx context.Context, key string, records []EventRecord) error

	// DeleteForIdentity removes all records for the identity and
	// returns how many were removed. Zero is not an error.
	DeleteForIdentity(ctx context.Context, key string) (int, error)

	// Scan returns records passing the filter, in storage order.
	Scan(ctx context.Context, filter ScanFilter) ([]EventRecord, error)
}

// Mirror rewrites the tabular backup file from the store's full
// current contents. Export failures never fail the triggering request.
type Mirror interface {
	Export(ctx context.Context, records []EventRecord) error
}
