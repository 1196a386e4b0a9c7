// Package engine owns the client-side cache of a user's donation records:
// the initial load, the poll-driven refresh off the invalidation flag, and
// the confirmed delete. One Session per mounted user view.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"donationsync/internal/domain"
	"donationsync/internal/infra"
)

// Snapshot is a point-in-time copy of the cache for rendering. Records never
// alias the cache's backing slice.
type Snapshot struct {
	Records []domain.DonationRecord
	Loading bool
	Err     error
}

// Session owns the cached donation records for a single user. The cache is
// replaced wholesale on every successful load; the only in-place mutation is
// removal of one record after a confirmed delete.
type Session struct {
	userID  string
	api     domain.DonationAPI
	signals domain.SignalStore
	logger  infra.Logger

	mu      sync.Mutex
	records []domain.DonationRecord
	loading bool
	err     error

	inflight atomic.Bool

	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewSession creates a session for the given user. The user id must be
// non-empty.
func NewSession(userID string, api domain.DonationAPI, signals domain.SignalStore, logger infra.Logger) (*Session, error) {
	if userID == "" {
		return nil, errors.New("engine: user id is required")
	}
	return &Session{
		userID:  userID,
		api:     api,
		signals: signals,
		logger:  logger.With().Str("user_id", userID).Logger(),
		done:    make(chan struct{}),
	}, nil
}

// UserID returns the user this session is scoped to.
func (s *Session) UserID() string {
	return s.userID
}

// Snapshot returns a copy of the current cache state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]domain.DonationRecord, len(s.records))
	copy(records, s.records)
	return Snapshot{Records: records, Loading: s.loading, Err: s.err}
}

// Load replaces the cache with the server's current record sequence. While a
// load is already in flight, further calls are dropped rather than queued, so
// a slow response can never clobber the result of a later one. Any transport,
// shape, or server-reported failure empties the cache and records
// domain.ErrLoadFailed; there are no automatic retries.
func (s *Session) Load(ctx context.Context) error {
	if !s.inflight.CompareAndSwap(false, true) {
		s.logger.Debug().Msg("load already in flight, dropping")
		return nil
	}
	defer s.inflight.Store(false)

	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	records, err := s.api.List(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Error().Err(err).Msg("load failed")
		s.records = nil
		s.err = domain.ErrLoadFailed
		return domain.ErrLoadFailed
	}
	s.records = records
	s.err = nil
	return nil
}

// DeleteRecord removes one record after the server confirms the delete. An id
// not present in the cache is a no-op. The cache is not touched until the
// server acknowledges; on failure it stays byte-for-byte intact and
// domain.ErrDeleteFailed is recorded.
func (s *Session) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	if !s.has(id) {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	err := s.api.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Error().Err(err).Str("record_id", id).Msg("delete failed")
		s.err = domain.ErrDeleteFailed
		return domain.ErrDeleteFailed
	}
	for i, record := range s.records {
		if record.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Session) has(id string) bool {
	for _, record := range s.records {
		if record.ID == id {
			return true
		}
	}
	return false
}

// Start launches the poll loop checking the invalidation flag on the given
// interval. Safe to call once per session; the loop runs until Close.
func (s *Session) Start(interval time.Duration) {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go s.pollLoop(ctx, interval)
	})
}

func (s *Session) pollLoop(ctx context.Context, interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll reads the invalidation flag; if and only if it is dirty, the cache is
// reloaded and the flag reset to clean. One dirty write triggers at most one
// reload.
func (s *Session) poll(ctx context.Context) {
	dirty, err := s.signals.Dirty(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("poll: read invalidation flag")
		return
	}
	if !dirty {
		return
	}
	s.logger.Debug().Msg("poll: invalidation flag set, reloading")
	_ = s.Load(ctx)
	if err := s.signals.Reset(ctx); err != nil {
		s.logger.Error().Err(err).Msg("poll: reset invalidation flag")
	}
}

// Close stops the poll loop and waits for it to exit. Idempotent; safe on
// sessions that were never started.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.cancel == nil {
			close(s.done)
			return
		}
		s.cancel()
		<-s.done
	})
}
