// Package stubapi is a stand-in for the remote donation service: the same
// wire contract over an in-memory record set. It backs the remote client's
// tests and gives local development something to sync against.
package stubapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"donationsync/internal/domain"
	"donationsync/internal/infra"
)

// Dirtier marks the invalidation flag dirty, the way a real mutator would
// after changing donation data.
type Dirtier interface {
	MarkDirty(ctx context.Context) error
}

// Server holds seeded donation records per user and serves the donation API
// contract over them.
type Server struct {
	logger  infra.Logger
	signals Dirtier

	mu          sync.Mutex
	records     map[string][]domain.DonationRecord
	failDeletes bool
}

func NewServer(logger infra.Logger, signals Dirtier) *Server {
	return &Server{
		logger:  logger,
		signals: signals,
		records: make(map[string][]domain.DonationRecord),
	}
}

// SetFailDeletes makes every delete report success=false; used to exercise
// the failure path.
func (s *Server) SetFailDeletes(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDeletes = fail
}

// Seed replaces the stored records for a user.
func (s *Server) Seed(userID string, records []domain.DonationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = append([]domain.DonationRecord(nil), records...)
}

// SeedDemo loads a small fixture set for local development.
func (s *Server) SeedDemo(userID string) {
	pickup := time.Now().AddDate(0, 0, 3)
	s.Seed(userID, []domain.DonationRecord{
		{
			ID:        uuid.NewString(),
			Kind:      domain.KindClothing,
			Status:    domain.StatusScheduled,
			CreatedAt: time.Now().AddDate(0, 0, -2),
			PickupDate: &pickup,
			Items: []domain.DonationItem{
				{Label: "Jackets", Quantity: 3, Images: []string{"https://img.example/jacket.jpg"}},
				{Label: "Shoes", Quantity: 2},
			},
		},
		{
			ID:        uuid.NewString(),
			Kind:      domain.KindToys,
			Status:    domain.StatusPending,
			CreatedAt: time.Now().AddDate(0, 0, -1),
			Items: []domain.DonationItem{
				{Label: "Board games", Quantity: 4, Images: []string{"https://img.example/games.jpg"}},
			},
		},
	})
}

// Handler returns the HTTP surface implementing the donation API contract.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/users/{userID}/donations", s.list)
	r.Delete("/donations/{id}", s.delete)
	r.Post("/flag", s.flag)
	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.mu.Lock()
	records := append([]domain.DonationRecord(nil), s.records[userID]...)
	s.mu.Unlock()
	if records == nil {
		records = []domain.DonationRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "donations": records})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	if s.failDeletes {
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}
	found := false
	for userID, records := range s.records {
		for i, record := range records {
			if record.ID == id {
				s.records[userID] = append(records[:i], records[i+1:]...)
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	s.mu.Unlock()
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// flag flips the invalidation flag so the agent's poll loop can be exercised
// end to end without a second application writing it.
func (s *Server) flag(w http.ResponseWriter, r *http.Request) {
	if s.signals == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]any{"success": false})
		return
	}
	if err := s.signals.MarkDirty(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("stubapi: mark flag dirty")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
