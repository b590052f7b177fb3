package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "deckgen.db"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestSaveAndList(t *testing.T) {
	m := newTestManager(t)

	entries := []Entry{
		{
			Timestamp:    time.Now().Add(-2 * time.Minute),
			Endpoint:     "http://localhost:8000/api/generate",
			Provider:     "openai",
			SpeakerNotes: true,
			Outcome:      "succeeded",
			DurationMs:   1200,
			ArtifactSize: 48213,
		},
		{
			Timestamp:  time.Now().Add(-1 * time.Minute),
			Endpoint:   "http://localhost:8000/api/generate",
			Provider:   "",
			Outcome:    "failed",
			Message:    "provider quota exceeded",
			DurationMs: 300,
		},
	}
	for _, e := range entries {
		if err := m.Save(e); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := m.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(got))
	}

	// Newest first.
	if got[0].Outcome != "failed" || got[0].Message != "provider quota exceeded" {
		t.Errorf("newest entry = %+v", got[0])
	}
	if got[1].Provider != "openai" || !got[1].SpeakerNotes {
		t.Errorf("older entry = %+v", got[1])
	}
	if got[1].ArtifactSize != 48213 {
		t.Errorf("ArtifactSize = %d", got[1].ArtifactSize)
	}
}

func TestList_Limit(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 5; i++ {
		if err := m.Save(Entry{Endpoint: "e", Outcome: "succeeded"}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := m.List(3)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("List(3) returned %d entries", len(got))
	}
}

func TestClear(t *testing.T) {
	m := newTestManager(t)
	if err := m.Save(Entry{Endpoint: "e", Outcome: "succeeded"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, err := m.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() after Clear() returned %d entries", len(got))
	}
}
