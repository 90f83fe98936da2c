package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/nordtext/bidict/pkg/bidict/aggregate"
	"github.com/nordtext/bidict/pkg/bidict/store"
)

func TestSaveAndGetRun(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	run := store.Run{
		ID:        "01J0000000000000000000001",
		Direction: "nno-nob",
		Articles:  42,
		StartedAt: time.Now(),
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, ok, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if !ok {
		t.Fatal("Run should exist")
	}
	if got.Direction != "nno-nob" || got.Articles != 42 {
		t.Errorf("Unexpected run: %+v", got)
	}

	if _, ok, _ := s.GetRun(ctx, "missing"); ok {
		t.Error("Missing run should not be found")
	}
}

func TestListRunsSorted(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, id := range []string{"02B", "01A", "03C"} {
		if err := s.SaveRun(ctx, store.Run{ID: id}); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "01A" || runs[2].ID != "03C" {
		t.Errorf("Runs not sorted by ID: %+v", runs)
	}
}

func TestSaveEntriesCopiesInput(t *testing.T) {
	s := New()
	ctx := context.Background()

	entries := []aggregate.Entry{
		{Source: "ikkje", Targets: []aggregate.Translation{{Target: "ikke", Freq: 9}}},
	}
	if err := s.SaveEntries(ctx, "run", entries); err != nil {
		t.Fatalf("SaveEntries failed: %v", err)
	}

	// Mutating the caller's slice must not reach the store.
	entries[0].Targets[0].Target = "mutert"

	got, err := s.GetEntries(ctx, "run")
	if err != nil {
		t.Fatalf("GetEntries failed: %v", err)
	}
	if got[0].Targets[0].Target != "ikke" {
		t.Errorf("Store aliased caller memory: %+v", got)
	}
}

func TestGetEntry(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.SaveEntries(ctx, "run", []aggregate.Entry{
		{Source: "heim", Targets: []aggregate.Translation{{Target: "hjem", Freq: 3}}},
		{Source: "vatn", Targets: []aggregate.Translation{{Target: "vann", Freq: 8}}},
	})
	if err != nil {
		t.Fatalf("SaveEntries failed: %v", err)
	}

	e, ok, err := s.GetEntry(ctx, "run", "vatn")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if !ok || len(e.Targets) != 1 || e.Targets[0].Target != "vann" {
		t.Errorf("Unexpected entry: %+v ok=%v", e, ok)
	}

	if _, ok, _ := s.GetEntry(ctx, "run", "finst-ikkje"); ok {
		t.Error("Missing entry should not be found")
	}
}
