package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPinUnpinList(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "pins.db"))
	ctx := context.Background()

	if err := s.Pin(ctx, "insider/trades", "ABC"); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	if err := s.Pin(ctx, "insider/trades", "DEF"); err != nil {
		t.Fatalf("Pin: %v", err)
	}

	got, err := s.List(ctx, "insider/trades")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0] != "ABC" || got[1] != "DEF" {
		t.Errorf("pins = %v, want [ABC DEF]", got)
	}

	if err := s.Unpin(ctx, "insider/trades", "ABC"); err != nil {
		t.Fatalf("Unpin: %v", err)
	}
	got, err = s.List(ctx, "insider/trades")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "DEF" {
		t.Errorf("pins after unpin = %v, want [DEF]", got)
	}
}

func TestPinIdempotent(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "pins.db"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Pin(ctx, "signals", "ABC"); err != nil {
			t.Fatalf("Pin attempt %d: %v", i, err)
		}
	}
	got, err := s.List(ctx, "signals")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("pins = %v, want single ABC", got)
	}

	// Unpinning something never pinned must not error.
	if err := s.Unpin(ctx, "signals", "NOPE"); err != nil {
		t.Errorf("Unpin absent: %v", err)
	}
}

func TestPinsScopedPerFeed(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "pins.db"))
	ctx := context.Background()

	s.Pin(ctx, "insider/trades", "ABC")
	s.Pin(ctx, "congress/trades", "XYZ")

	got, err := s.List(ctx, "congress/trades")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "XYZ" {
		t.Errorf("congress pins = %v, want [XYZ]", got)
	}
}

func TestPinsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Pin(ctx, "signals", "ABC"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2 := openTestStore(t, path)
	got, err := s2.List(ctx, "signals")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "ABC" {
		t.Errorf("pins after reopen = %v, want [ABC]", got)
	}
}
