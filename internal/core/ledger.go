package core

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Ledger is the durable per-identity edit-count mapping. The backing
// file is a flat JSON object of lowercased email to submission count,
// loaded once at startup and atomically rewritten after every mutation.
//
// A corrupt or unparseable file on load is treated as an empty ledger
// rather than refusing to start. That is fail-open on purpose: losing
// edit counts degrades the quota, refusing to start loses the service.
type Ledger struct {
	path string

	mu     sync.Mutex
	counts map[string]int
}

// OpenLedger loads the ledger file at path, creating parent
// directories as needed. A missing file is an empty ledger.
func OpenLedger(path string) (*Ledger, error) {
	l := &Ledger{
		path:   path,
		counts: make(map[string]int),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read ledger", Err: err}
	}

	if err := json.Unmarshal(data, &l.counts); err != nil {
		slog.Warn("ledger file unparseable, starting with empty ledger",
			"path", path,
			"error", err,
		)
		l.counts = make(map[string]int)
	}

	return l, nil
}

// Count returns the submission count for an identity key, 0 if unknown.
func (l *Ledger) Count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[key]
}

// Increment adds one to the identity's count, creating the entry if
// absent, and persists the ledger.
func (l *Ledger) Increment(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts[key]++
	if err := l.persistLocked(); err != nil {
		l.counts[key]--
		return err
	}
	return nil
}

// Reset removes the identity's entry entirely, so a re-registration
// starts fresh, and persists the ledger.
func (l *Ledger) Reset(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, ok := l.counts[key]
	if !ok {
		return nil
	}
	delete(l.counts, key)
	if err := l.persistLocked(); err != nil {
		l.counts[key] = prev
		return err
	}
	return nil
}

// persistLocked rewrites the ledger file via temp-file rename so a
// crash mid-write never leaves a half-written ledger. Caller holds mu.
func (l *Ledger) persistLocked() error {
	data, err := json.MarshalIndent(l.counts, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode ledger", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return &StorageError{Op: "create ledger directory", Err: err}
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &StorageError{Op: "write ledger", Err: err}
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return &StorageError{Op: fmt.Sprintf("rename %s", tmp), Err: err}
	}
	return nil
}
