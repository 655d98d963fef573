package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates the registration workflow against a store, the
// edit-quota ledger, and the mirror exporter.
type Service struct {
	store       SubmissionStore
	ledger      *Ledger
	mirror      Mirror
	editLimit   int
	familyLimit int

	// identityLocks serializes the ledger-check, store write, ledger
	// increment, and mirror rewrite per identity, so two racing
	// submissions from one email cannot both pass the quota gate.
	// Requests for different identities do not contend. Entries are
	// reference-counted and removed once the last holder releases, so
	// the table does not accumulate every email ever seen.
	mu            sync.Mutex
	identityLocks map[string]*identityLock
}

// NewService creates a Service. editLimit is the maximum submissions
// per identity including the first; familyLimit caps members per batch.
func NewService(store SubmissionStore, ledger *Ledger, mirror Mirror, editLimit, familyLimit int) *Service {
	return &Service{
		store:         store,
		ledger:        ledger,
		mirror:        mirror,
		editLimit:     editLimit,
		familyLimit:   familyLimit,
		identityLocks: make(map[string]*identityLock),
	}
}

// Submit validates, quota-gates, materializes, and persists one
// submission. An accepted submission replaces the identity's prior
// records; the first one has nothing to replace. Returns the number of
// records written.
func (s *Service) Submit(ctx context.Context, sub Submission) (int, error) {
	key, err := ValidateSubmission(sub, s.familyLimit)
	if err != nil {
		return 0, err
	}

	lock := s.lockIdentity(key)
	defer s.unlockIdentity(key, lock)

	if s.ledger.Count(key) >= s.editLimit {
		return 0, &QuotaExceededError{Key: key, Limit: s.editLimit}
	}

	records := Materialize(sub, uuid.New().String(), time.Now())

	// Replacing is identical to inserting when the identity has no
	// prior records, and it means a retry after a failed ledger persist
	// supersedes the stored batch instead of duplicating it.
	if err := s.store.ReplaceForIdentity(ctx, key, records); err != nil {
		return 0, err
	}

	if err := s.ledger.Increment(key); err != nil {
		// Records are stored but uncounted; a retry replaces them.
		slog.Error("ledger increment failed after store write",
			"identity", key,
			"error", err,
		)
		return 0, err
	}

	s.refreshMirror(ctx)
	return len(records), nil
}

// EditCount returns the number of submissions made by an email,
// 0 for unknown identities. It never errors.
func (s *Service) EditCount(email string) int {
	return s.ledger.Count(IdentityKey(email))
}

// Records returns records passing the filter in display order.
func (s *Service) Records(ctx context.Context, filter ScanFilter) ([]EventRecord, error) {
	records, err := s.store.Scan(ctx, filter)
	if err != nil {
		return nil, err
	}
	SortForDisplay(records)
	return records, nil
}

// DeleteIdentity removes all records for an email, including family
// members from every contributing submission, and resets the ledger
// entry so a re-registration starts fresh. Returns the removed count.
func (s *Service) DeleteIdentity(ctx context.Context, email string) (int, error) {
	key := IdentityKey(email)
	if key == "" {
		return 0, &ValidationError{Reason: "email is required"}
	}

	lock := s.lockIdentity(key)
	defer s.unlockIdentity(key, lock)

	removed, err := s.store.DeleteForIdentity(ctx, key)
	if err != nil {
		return 0, err
	}

	if err := s.ledger.Reset(key); err != nil {
		return removed, err
	}

	s.refreshMirror(ctx)
	return removed, nil
}

// RefreshMirror rewrites the mirror from the store's current contents.
// Exposed for the download path when the backup file is missing.
func (s *Service) RefreshMirror(ctx context.Context) error {
	records, err := s.store.Scan(ctx, ScanFilter{})
	if err != nil {
		return err
	}
	return s.mirror.Export(ctx, records)
}

// refreshMirror is the best-effort variant used on the write path:
// the mirror is a backup, not the source of truth, so a failed rewrite
// is logged and swallowed.
func (s *Service) refreshMirror(ctx context.Context) {
	if err := s.RefreshMirror(ctx); err != nil {
		slog.Warn("mirror rewrite failed, backup is stale until next mutation", "error", err)
	}
}

// identityLock is one entry in the per-identity lock table. refs counts
// holders plus waiters and is guarded by the Service's outer mutex.
type identityLock struct {
	sync.Mutex
	refs int
}

// lockIdentity acquires the identity's mutex, creating the table entry
// on first use.
func (s *Service) lockIdentity(key string) *identityLock {
	s.mu.Lock()
	lock, ok := s.identityLocks[key]
	if !ok {
		lock = &identityLock{}
		s.identityLocks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return lock
}

// unlockIdentity releases the mutex and drops the table entry once no
// goroutine holds or awaits it.
func (s *Service) unlockIdentity(key string, lock *identityLock) {
	lock.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.identityLocks, key)
	}
	s.mu.Unlock()
}
