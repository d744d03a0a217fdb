package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/martinkhristi/sambanova-product-recomodation/internal/catalog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestCreateAssignsIDAndPersists(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Create(Session{
		Request:        catalog.Preferences{Category: "Cameras", Budget: 700},
		Query:          "Looking for a cameras under $700",
		Recommendation: "1. Sony ZV-1 - $648",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if got.Created.IsZero() {
		t.Error("expected a creation timestamp")
	}
	if _, err := os.Stat(filepath.Join(s.dir, got.ID+".json")); err != nil {
		t.Errorf("expected session file on disk: %v", err)
	}
}

func TestGetLoadsFromDisk(t *testing.T) {
	s := newTestStore(t)
	created, err := s.Create(Session{Recommendation: "1. Pixel 9 - $799"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Fresh store, same dir, forces the disk path
	s2, err := NewStore(s.dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := s2.Get(created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Recommendation != created.Recommendation {
		t.Errorf("expected: %q, got: %q", created.Recommendation, got.Recommendation)
	}
}

func TestGetInvalidID(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("../escape"); err == nil {
		t.Fatal("expected error on malformed id")
	}
	if _, err := s.Get("6ba7b810-9dad-11d1-80b4-00c04fd430c8"); err == nil {
		t.Fatal("expected error on unknown id")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	first, err := s.Create(Session{Recommendation: "old"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := s.Create(Session{Recommendation: "new"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := s.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got: %v", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("expected newest first, got: %v then %v", got[0].ID, got[1].ID)
	}
}

func TestListSkipsGarbageFiles(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Create(Session{Recommendation: "ok"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := s.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected broken file to be skipped, got %v sessions", len(got))
	}
}
