// Package recommend ties the catalog, the reasoning agent, the ranker and
// the session store into one operation: preferences in, persisted
// recommendation out.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/martinkhristi/sambanova-product-recomodation/internal/agent"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/catalog"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/rank"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/session"
)

// ErrNotConfigured means no model backend is available, typically a missing
// SAMBANOVA_API_KEY.
var ErrNotConfigured = errors.New("recommendation agent is not configured, set SAMBANOVA_API_KEY")

// ErrInvalidPreferences wraps preference validation failures so callers can
// match with errors.Is.
var ErrInvalidPreferences = errors.New("invalid preferences")

type Recommender struct {
	agent  *agent.Agent
	ranker *rank.Ranker
	store  *session.Store
	// The completer accumulates tool call state across stream chunks, so
	// runs are serialized
	mu sync.Mutex
}

// New returns a Recommender. agent may be nil when no API key is set, in
// which case Recommend returns ErrNotConfigured.
func New(a *agent.Agent, ranker *rank.Ranker, store *session.Store) *Recommender {
	return &Recommender{agent: a, ranker: ranker, store: store}
}

// Configured reports whether a model backend is available.
func (r *Recommender) Configured() bool {
	return r.agent != nil
}

// Recommend validates prefs, runs the agent over the built query, ranks the
// answer and persists the run. Blocking operation.
func (r *Recommender) Recommend(ctx context.Context, prefs catalog.Preferences) (session.Session, error) {
	if r.agent == nil {
		return session.Session{}, ErrNotConfigured
	}
	if err := prefs.Validate(); err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrInvalidPreferences, err)
	}
	query := prefs.BuildQuery()

	r.mu.Lock()
	res, err := r.agent.Answer(ctx, query)
	r.mu.Unlock()
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to answer query: %w", err)
	}

	products, err := r.ranker.Rank(res.Answer, prefs)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to rank answer: %w", err)
	}

	sess, err := r.store.Create(session.Session{
		Request:        prefs,
		Query:          query,
		Recommendation: res.Answer,
		Products:       products,
		Searches:       res.Searches,
		FromFallback:   res.FromObservation,
	})
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}
	return sess, nil
}
