package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestJournal_AppendAndRecent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = j.Close() }()

	ctx := context.Background()
	for _, kind := range []string{"stage", "popup", "mutation"} {
		if err := j.Append(ctx, kind, "detail for "+kind); err != nil {
			t.Fatalf("Append(%s): %v", kind, err)
		}
		// Timestamps order the read-back; keep them distinct.
		time.Sleep(5 * time.Millisecond)
	}

	entries, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Kind != "mutation" {
		t.Errorf("newest entry kind = %q, want mutation", entries[0].Kind)
	}
	if entries[0].ID == "" {
		t.Error("expected a generated id")
	}
}

func TestJournal_RecentDefaultLimit(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = j.Close() }()

	entries, err := j.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d on empty journal", len(entries))
	}
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom", "dost.db")
	t.Setenv("DOST_DB", p)

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if got != p {
		t.Errorf("path = %q, want %q", got, p)
	}
}

func TestNopJournal(t *testing.T) {
	j := Nop()
	if err := j.Append(context.Background(), "stage", "x"); err != nil {
		t.Errorf("Append: %v", err)
	}
	entries, err := j.Recent(context.Background(), 10)
	if err != nil || entries != nil {
		t.Errorf("Recent = %v, %v", entries, err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
