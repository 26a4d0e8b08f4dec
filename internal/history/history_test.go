package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "predictions.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordFillsDefaults(t *testing.T) {
	s := openTestStore(t)

	e, err := s.Record(context.Background(), Entry{Species: "potato", Label: "Potato___healthy", Confidence: 0.9, Resolved: true})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if e.ID == "" {
		t.Fatal("ID was not generated")
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("CreatedAt was not set")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	labels := []string{"Tomato_Early_blight", "Tomato_Leaf_Mold", "Tomato_healthy"}
	for i, label := range labels {
		_, err := s.Record(ctx, Entry{
			Species:    "tomato",
			Label:      label,
			Confidence: 0.5,
			Resolved:   true,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record %s: %v", label, err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d entries, want 2", len(got))
	}
	if got[0].Label != "Tomato_healthy" || got[1].Label != "Tomato_Leaf_Mold" {
		t.Fatalf("unexpected order: %q, %q", got[0].Label, got[1].Label)
	}
	if !got[0].Resolved || got[0].Species != "tomato" {
		t.Fatalf("unexpected entry %+v", got[0])
	}
}

func TestRecentEmpty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %d", len(got))
	}
}
