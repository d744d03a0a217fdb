// Package session persists completed recommendation runs so the UI can
// revisit them. Sessions are immutable once created.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/google/uuid"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/catalog"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/rank"
)

// Session is one completed recommendation run.
type Session struct {
	ID             string              `json:"id"`
	Created        time.Time           `json:"created"`
	Request        catalog.Preferences `json:"request"`
	Query          string              `json:"query"`
	Recommendation string              `json:"recommendation"`
	Products       []rank.Product      `json:"products,omitempty"`
	Searches       int                 `json:"searches"`
	FromFallback   bool                `json:"from_fallback,omitempty"`
}

// Store keeps sessions in memory and mirrors them to JSON files under dir.
type Store struct {
	mu       sync.RWMutex
	dir      string
	sessions map[string]Session
	debug    bool
}

// NewStore creates the session directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	return &Store{
		dir:      dir,
		sessions: make(map[string]Session),
		debug:    misc.Truthy(os.Getenv("DEBUG")),
	}, nil
}

// Create assigns an id and timestamp, stores the session and writes it to
// disk. Returns the stored session.
func (s *Store) Create(sess Session) (Session, error) {
	sess.ID = uuid.NewString()
	sess.Created = time.Now()
	b, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("failed to encode session: %w", err)
	}
	fileName := filepath.Join(s.dir, sess.ID+".json")
	if s.debug {
		ancli.Okf("saving session to: '%v'\n", fileName)
	}
	if err := os.WriteFile(fileName, b, 0o644); err != nil {
		return Session{}, fmt.Errorf("failed to write session: %w", err)
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get returns the session by id, loading it from disk when not in memory.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, fmt.Errorf("invalid session id: %w", err)
	}
	sess, err := fromPath(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return Session{}, err
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// List returns all persisted sessions, newest first.
func (s *Store) List() ([]Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list session dir: %w", err)
	}
	sessions := make([]Session, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		sess, err := fromPath(filepath.Join(s.dir, e.Name()))
		if err != nil {
			ancli.Warnf("skipping unreadable session file '%v': %v\n", e.Name(), err)
			continue
		}
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Created.After(sessions[j].Created)
	})
	return sessions, nil
}

func fromPath(path string) (Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return sess, nil
}
