package store

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/svtemple/eventreg/internal/core"
)

func newTestCSVFile(t *testing.T) *CSVFile {
	t.Helper()
	s, err := OpenCSVFile(filepath.Join(t.TempDir(), "registrations.csv"))
	if err != nil {
		t.Fatalf("OpenCSVFile() error = %v", err)
	}
	return s
}

func record(name, email, date string) core.EventRecord {
	return core.EventRecord{
		SubmissionID: "batch-1",
		Name:         name,
		Email:        email,
		DateOfEvent:  date,
		Relation:     core.RelationPrimary,
	}
}

func TestOpenCSVFile_WritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registrations.csv")
	if _, err := OpenCSVFile(path); err != nil {
		t.Fatalf("OpenCSVFile() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("store file not created: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("new store file has %d rows, want header only", len(rows))
	}
	want := core.Columns()
	for i, col := range want {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
}

func TestCSVFile_InsertAndScan(t *testing.T) {
	s := newTestCSVFile(t)
	ctx := context.Background()

	in := []core.EventRecord{
		record("Asha", "asha@example.com", "2024-03-15"),
		record("Ravi", "asha@example.com", "2024-06-10"),
	}
	if err := s.Insert(ctx, in); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := s.Scan(ctx, core.ScanFilter{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Scan() returned %d records, want 2", len(got))
	}
	if got[0] != in[0] || got[1] != in[1] {
		t.Errorf("Scan() = %+v, want round-trip of inserted records", got)
	}
}

func TestCSVFile_ScanFilter(t *testing.T) {
	s := newTestCSVFile(t)
	ctx := context.Background()

	if err := s.Insert(ctx, []core.EventRecord{
		record("Asha", "asha@example.com", "2024-03-15"),
		record("Ravi", "ravi@example.com", "2024-06-10"),
		record("Meena", "meena@example.com", "2023-03-01"),
		record("NoDate", "nodate@example.com", ""),
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	tests := []struct {
		name   string
		filter core.ScanFilter
		want   int
	}{
		{"all", core.ScanFilter{}, 4},
		{"march", core.ScanFilter{Month: 3}, 2},
		{"year 2024", core.ScanFilter{Year: 2024}, 2},
		{"march 2024", core.ScanFilter{Month: 3, Year: 2024}, 1},
		{"no match", core.ScanFilter{Month: 12}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Scan(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Scan() returned %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCSVFile_ReplaceForIdentity(t *testing.T) {
	s := newTestCSVFile(t)
	ctx := context.Background()

	if err := s.Insert(ctx, []core.EventRecord{
		record("Asha", "Asha@Example.com", "2024-03-15"),
		record("Ravi", "Asha@Example.com", "2024-06-10"),
		record("Other", "other@example.com", "2024-01-01"),
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	replacement := []core.EventRecord{record("Asha", "asha@example.com", "2025-05-05")}
	if err := s.ReplaceForIdentity(ctx, "asha@example.com", replacement); err != nil {
		t.Fatalf("ReplaceForIdentity() error = %v", err)
	}

	got, err := s.Scan(ctx, core.ScanFilter{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Scan() returned %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.IdentityKey() == "asha@example.com" && r.DateOfEvent != "2025-05-05" {
			t.Errorf("old record survived replacement: %+v", r)
		}
	}
}

func TestCSVFile_DeleteForIdentity(t *testing.T) {
	s := newTestCSVFile(t)
	ctx := context.Background()

	if err := s.Insert(ctx, []core.EventRecord{
		record("Asha", "Asha@Example.com", "2024-03-15"),
		record("Ravi", "asha@example.com", "2024-06-10"),
		record("Other", "other@example.com", "2024-01-01"),
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	removed, err := s.DeleteForIdentity(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("DeleteForIdentity() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("DeleteForIdentity() removed = %d, want 2", removed)
	}

	got, err := s.Scan(ctx, core.ScanFilter{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(got) != 1 || got[0].Email != "other@example.com" {
		t.Errorf("Scan() = %+v, want only the other identity", got)
	}
}

func TestCSVFile_DeleteForIdentityUnknown(t *testing.T) {
	s := newTestCSVFile(t)

	removed, err := s.DeleteForIdentity(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("DeleteForIdentity() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("DeleteForIdentity() removed = %d, want 0", removed)
	}
}

func TestCSVFile_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registrations.csv")
	ctx := context.Background()

	s, err := OpenCSVFile(path)
	if err != nil {
		t.Fatalf("OpenCSVFile() error = %v", err)
	}
	in := record("Asha, \"quoted\"", "asha@example.com", "2024-03-15")
	in.Address = "12 Temple St,\nSecond Floor"
	if err := s.Insert(ctx, []core.EventRecord{in}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	reopened, err := OpenCSVFile(path)
	if err != nil {
		t.Fatalf("OpenCSVFile() after restart error = %v", err)
	}
	got, err := reopened.Scan(ctx, core.ScanFilter{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Scan() returned %d records, want 1", len(got))
	}
	if got[0] != in {
		t.Errorf("round-trip changed the record:\n got %+v\nwant %+v", got[0], in)
	}
}

func TestCSVFile_CancelledContext(t *testing.T) {
	s := newTestCSVFile(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Insert(ctx, []core.EventRecord{record("Asha", "asha@example.com", "")}); err == nil {
		t.Error("Insert() with cancelled context error = nil, want error")
	}
	if _, err := s.Scan(ctx, core.ScanFilter{}); err == nil {
		t.Error("Scan() with cancelled context error = nil, want error")
	}
}
