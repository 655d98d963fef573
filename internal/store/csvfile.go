// Package store provides the SubmissionStore backends: a flat CSV file
// and a MongoDB collection. The rest of the system selects one at
// startup and never knows which is active.
package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/svtemple/eventreg/internal/core"
)

// CSVFile is the flat-file backend. The file itself is the source of
// truth in this deployment, so unlike the mirror, write failures here
// are fatal to the triggering request.
type CSVFile struct {
	path string
	mu   sync.RWMutex
}

// OpenCSVFile opens (or creates) the store file at path. A new file
// gets the declared header row immediately so downloads of an empty
// store still carry the schema.
func OpenCSVFile(path string) (*CSVFile, error) {
	s := &CSVFile{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, &core.StorageError{Op: "stat store file", Err: err}
	}

	return s, nil
}

// Insert appends records. It never deduplicates.
func (s *CSVFile) Insert(ctx context.Context, records []core.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return &core.StorageError{Op: "insert", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		return err
	}
	return s.write(append(existing, records...))
}

// ReplaceForIdentity removes the identity's prior records and inserts
// the new batch in one file rewrite, so the operation is all-or-nothing.
func (s *CSVFile) ReplaceForIdentity(ctx context.Context, key string, records []core.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return &core.StorageError{Op: "replace", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		return err
	}

	kept := existing[:0]
	for _, r := range existing {
		if r.IdentityKey() != key {
			kept = append(kept, r)
		}
	}
	return s.write(append(kept, records...))
}

// DeleteForIdentity removes all records for the identity and returns
// how many were removed.
func (s *CSVFile) DeleteForIdentity(ctx context.Context, key string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, &core.StorageError{Op: "delete", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		return 0, err
	}

	kept := existing[:0]
	removed := 0
	for _, r := range existing {
		if r.IdentityKey() == key {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.write(kept)
}

// Scan returns records passing the filter in file order.
func (s *CSVFile) Scan(ctx context.Context, filter core.ScanFilter) ([]core.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.StorageError{Op: "scan", Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}

	matched := make([]core.EventRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// read loads the whole file. Caller holds at least a read lock.
func (s *CSVFile) read() ([]core.EventRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &core.StorageError{Op: "open store file", Err: err}
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, &core.StorageError{Op: "parse store file", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// First row is the header.
	records := make([]core.EventRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		r, err := core.RecordFromRow(row)
		if err != nil {
			return nil, &core.StorageError{
				Op:  fmt.Sprintf("store file line %d", i+2),
				Err: err,
			}
		}
		records = append(records, r)
	}
	return records, nil
}

// write rewrites the whole file via temp-file rename. Caller holds the
// write lock.
func (s *CSVFile) write(records []core.EventRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &core.StorageError{Op: "create store directory", Err: err}
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return &core.StorageError{Op: "create store file", Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(core.Columns()); err != nil {
		f.Close()
		return &core.StorageError{Op: "write store header", Err: err}
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			f.Close()
			return &core.StorageError{Op: "write store row", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &core.StorageError{Op: "flush store file", Err: err}
	}
	if err := f.Close(); err != nil {
		return &core.StorageError{Op: "close store file", Err: err}
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return &core.StorageError{Op: "replace store file", Err: err}
	}
	return nil
}
