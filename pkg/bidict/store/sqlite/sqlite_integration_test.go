package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nordtext/bidict/pkg/bidict/aggregate"
	"github.com/nordtext/bidict/pkg/bidict/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bidict.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	run := store.Run{ID: "01HRUN", Direction: "nno-nob", Articles: 1234, StartedAt: started}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, ok, err := s.GetRun(ctx, "01HRUN")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if !ok {
		t.Fatal("Run should exist")
	}
	if got.Direction != "nno-nob" || got.Articles != 1234 {
		t.Errorf("Unexpected run: %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt round trip lost precision: %v != %v", got.StartedAt, started)
	}

	// Saving again replaces.
	run.Articles = 5678
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun (update) failed: %v", err)
	}
	got, _, _ = s.GetRun(ctx, "01HRUN")
	if got.Articles != 5678 {
		t.Errorf("Run not updated: %+v", got)
	}
}

func TestEntriesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, store.Run{ID: "01HRUN", Direction: "nno-nob", StartedAt: time.Now()}); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	entries := []aggregate.Entry{
		{Source: "heim", Targets: []aggregate.Translation{
			{Target: "hjem", Freq: 12},
			{Target: "hjemme", Freq: 4},
		}},
		{Source: "ikkje", Targets: []aggregate.Translation{{Target: "ikke", Freq: 31}}},
	}
	if err := s.SaveEntries(ctx, "01HRUN", entries); err != nil {
		t.Fatalf("SaveEntries failed: %v", err)
	}

	got, err := s.GetEntries(ctx, "01HRUN")
	if err != nil {
		t.Fatalf("GetEntries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].Source != "heim" || got[1].Source != "ikkje" {
		t.Errorf("Entries not sorted by source: %+v", got)
	}
	if len(got[0].Targets) != 2 || got[0].Targets[0].Target != "hjem" {
		t.Errorf("Target rank order lost: %+v", got[0].Targets)
	}

	e, ok, err := s.GetEntry(ctx, "01HRUN", "ikkje")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if !ok || e.Targets[0].Freq != 31 {
		t.Errorf("Unexpected entry: %+v ok=%v", e, ok)
	}
}

func TestSaveEntriesReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, store.Run{ID: "01HRUN", Direction: "nno-nob", StartedAt: time.Now()}); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	first := []aggregate.Entry{
		{Source: "gamal", Targets: []aggregate.Translation{{Target: "gammel", Freq: 2}}},
	}
	if err := s.SaveEntries(ctx, "01HRUN", first); err != nil {
		t.Fatalf("SaveEntries failed: %v", err)
	}

	second := []aggregate.Entry{
		{Source: "vatn", Targets: []aggregate.Translation{{Target: "vann", Freq: 6}}},
	}
	if err := s.SaveEntries(ctx, "01HRUN", second); err != nil {
		t.Fatalf("SaveEntries (replace) failed: %v", err)
	}

	got, err := s.GetEntries(ctx, "01HRUN")
	if err != nil {
		t.Fatalf("GetEntries failed: %v", err)
	}
	if len(got) != 1 || got[0].Source != "vatn" {
		t.Errorf("Old entries should be replaced, got %+v", got)
	}
}

func TestGetEntriesEmptyRun(t *testing.T) {
	s := openTestStore(t)
	got, err := s.GetEntries(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("GetEntries failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no entries, got %+v", got)
	}
}
