package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLedger_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	l, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	if got := l.Count("asha@example.com"); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}

func TestLedger_IncrementAndCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	l, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := l.Increment("asha@example.com"); err != nil {
			t.Fatalf("Increment() error = %v", err)
		}
		if got := l.Count("asha@example.com"); got != i {
			t.Errorf("after %d increments Count() = %d, want %d", i, got, i)
		}
	}

	if got := l.Count("other@example.com"); got != 0 {
		t.Errorf("Count(other) = %d, want 0", got)
	}
}

func TestLedger_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	l, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	if err := l.Increment("asha@example.com"); err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if err := l.Increment("asha@example.com"); err != nil {
		t.Fatalf("Increment() error = %v", err)
	}

	reopened, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger() after restart error = %v", err)
	}
	if got := reopened.Count("asha@example.com"); got != 2 {
		t.Errorf("Count() after reopen = %d, want 2", got)
	}
}

func TestLedger_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v, want fail-open empty ledger", err)
	}
	if got := l.Count("asha@example.com"); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}

func TestLedger_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	l, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}

	if err := l.Increment("asha@example.com"); err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if err := l.Reset("asha@example.com"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got := l.Count("asha@example.com"); got != 0 {
		t.Errorf("Count() after reset = %d, want 0", got)
	}

	// Reset must persist, not just clear memory.
	reopened, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	if got := reopened.Count("asha@example.com"); got != 0 {
		t.Errorf("Count() after reopen = %d, want 0", got)
	}
}

func TestLedger_ResetUnknownIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	l, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	if err := l.Reset("never-seen@example.com"); err != nil {
		t.Errorf("Reset() error = %v, want nil for unknown key", err)
	}
}

func TestLedger_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.json")
	l, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	if err := l.Increment("asha@example.com"); err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("ledger file not created: %v", err)
	}
}
