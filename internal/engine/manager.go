package engine

import (
	"context"
	"sync"
	"time"

	"donationsync/internal/domain"
	"donationsync/internal/infra"
)

// Manager keeps one live session per mounted user and owns their
// start/stop lifecycle, keeping concurrent user sessions isolated.
type Manager struct {
	api      domain.DonationAPI
	signals  domain.SignalStore
	logger   infra.Logger
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(api domain.DonationAPI, signals domain.SignalStore, logger infra.Logger, interval time.Duration) *Manager {
	return &Manager{
		api:      api,
		signals:  signals,
		logger:   logger,
		interval: interval,
		sessions: make(map[string]*Session),
	}
}

// Mount creates a session for the user, performs the initial load, and
// starts its poll loop. A load failure does not fail the mount: the session
// is live and carries the error in its snapshot, ready for a retry. Mounting
// an already-mounted user returns domain.ErrSessionExists and leaves the
// live session undisturbed.
func (m *Manager) Mount(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	if _, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return nil, domain.ErrSessionExists
	}
	session, err := NewSession(userID, m.api, m.signals, m.logger)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.sessions[userID] = session
	m.mu.Unlock()

	_ = session.Load(ctx)
	session.Start(m.interval)
	return session, nil
}

// Get returns the live session for the user, or domain.ErrNoSession.
func (m *Manager) Get(userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return session, nil
}

// Unmount stops the user's poll loop and drops the session and its cache.
func (m *Manager) Unmount(userID string) error {
	m.mu.Lock()
	session, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()
	if !ok {
		return domain.ErrNoSession
	}
	session.Close()
	return nil
}

// Close tears down every live session. Called on agent shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, session := range m.sessions {
		sessions = append(sessions, session)
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	for _, session := range sessions {
		session.Close()
	}
}
