// Package subscription persists the subscription list. Backends only load and
// save; Store adds the fail-soft policy: a missing or corrupt list falls back to
// the seed set and write errors are logged, never returned. A list that could not
// be read because the backend failed is never overwritten blindly.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"subs_dashboard/internal/entity"
)

var (
	// ErrNoData - nothing has been saved yet
	ErrNoData = errors.New("no stored subscriptions")
	// ErrCorrupt - stored data cannot be turned back into subscriptions
	ErrCorrupt = errors.New("corrupt stored subscriptions")
	// ErrUnloaded - refusing to overwrite a stored list the session fell back from
	ErrUnloaded = errors.New("refusing to overwrite unloaded subscriptions")
)

// Backend - raw key-value style load/save of the whole list
type Backend interface {
	Load(ctx context.Context) ([]entity.Subscription, error)
	Save(ctx context.Context, subs []entity.Subscription) error
}

// Store wraps a Backend with the fail-soft contract
type Store struct {
	backend Backend
	log     *slog.Logger
	now     func() time.Time

	mu sync.Mutex
	// unverified - the last Load fell back to the seed set because the backend
	// failed, so whatever it holds has never been seen
	unverified bool
}

func NewStore(backend Backend, log *slog.Logger, options ...func(*Store)) *Store {
	s := &Store{
		backend: backend,
		log:     log,
		now:     time.Now,
	}
	for _, o := range options {
		o(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// WithClock returns an option that sets the clock the seed set is built from.
func WithClock(now func() time.Time) func(*Store) {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Load returns the stored list, or the seed set when there is none or it is unusable
func (s *Store) Load(ctx context.Context) []entity.Subscription {
	subs, err := s.backend.Load(ctx)
	switch {
	case errors.Is(err, ErrNoData):
		s.log.Info("no stored subscriptions, using seed set")
		s.setUnverified(false)
		return Seed(s.now())
	case errors.Is(err, ErrCorrupt):
		s.log.Error("stored subscriptions are corrupt, using seed set", slog.String("error", err.Error()))
		s.setUnverified(false)
		return Seed(s.now())
	case err != nil:
		s.log.Error("backend unavailable, using seed set until the stored list can be checked",
			slog.String("error", err.Error()))
		s.setUnverified(true)
		return Seed(s.now())
	}
	if err := ValidateAll(subs); err != nil {
		s.log.Error("stored subscriptions are invalid, using seed set", slog.String("error", err.Error()))
		s.setUnverified(false)
		return Seed(s.now())
	}
	s.setUnverified(false)
	s.log.Debug("subscriptions loaded", slog.Int("count", len(subs)))
	return subs
}

func (s *Store) setUnverified(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unverified = v
}

// Save persists the list; failures are only logged. After a Load that fell
// back because the backend failed, Save first checks the backend and never
// replaces a valid stored list the session did not load.
func (s *Store) Save(ctx context.Context, subs []entity.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unverified {
		if err := s.checkOverwrite(ctx); err != nil {
			s.log.Error("subscriptions not saved", slog.String("error", err.Error()))
			return
		}
		s.unverified = false
	}
	if err := s.backend.Save(ctx, subs); err != nil {
		s.log.Error("failed to save subscriptions", slog.String("error", err.Error()))
		return
	}
	s.log.Debug("subscriptions saved", slog.Int("count", len(subs)))
}

// checkOverwrite reports whether replacing the stored list would lose data
func (s *Store) checkOverwrite(ctx context.Context) error {
	stored, err := s.backend.Load(ctx)
	switch {
	case errors.Is(err, ErrNoData), errors.Is(err, ErrCorrupt):
		return nil
	case err != nil:
		return fmt.Errorf("backend still unavailable: %w", err)
	}
	if ValidateAll(stored) != nil || len(stored) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d stored subscriptions were never loaded", ErrUnloaded, len(stored))
}
