// Package mirror writes the tabular backup of the submission store.
// The file is fully rewritten after every successful store mutation;
// it is a best-effort backup, never the source of truth.
package mirror

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"github.com/svtemple/eventreg/internal/core"
)

// Exporter rewrites one backup file. Safe for concurrent use; writes
// go through a temp-file rename so readers of the path never see a
// half-written file.
type Exporter struct {
	path string
	mu   sync.Mutex
}

// NewExporter returns an Exporter targeting path. The file is not
// created until the first Export.
func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// Path returns the backup file location, for the download endpoint.
func (e *Exporter) Path() string {
	return e.path
}

// Export overwrites the backup with the given records in one pass:
// the declared header row followed by one row per record.
func (e *Exporter) Export(ctx context.Context, records []core.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return &core.StorageError{Op: "export mirror", Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return &core.StorageError{Op: "create mirror directory", Err: err}
	}

	tmp := e.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return &core.StorageError{Op: "create mirror file", Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(core.Columns()); err != nil {
		f.Close()
		return &core.StorageError{Op: "write mirror header", Err: err}
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			f.Close()
			return &core.StorageError{Op: "write mirror row", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &core.StorageError{Op: "flush mirror file", Err: err}
	}
	if err := f.Close(); err != nil {
		return &core.StorageError{Op: "close mirror file", Err: err}
	}

	if err := os.Rename(tmp, e.path); err != nil {
		return &core.StorageError{Op: "replace mirror file", Err: err}
	}
	return nil
}
