// Package handlers exposes the sync agent over a thin local HTTP surface:
// mounting user sessions, reading localized cache snapshots, and driving the
// delete confirmation flow.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"donationsync/internal/confirm"
	"donationsync/internal/domain"
	"donationsync/internal/engine"
	"donationsync/internal/infra"
)

// App is the handler container wired into the router.
type App struct {
	Manager *engine.Manager
	Logger  infra.Logger

	mu       sync.Mutex
	confirms map[string]*confirm.Workflow
}

func NewApp(manager *engine.Manager, logger infra.Logger) *App {
	return &App{
		Manager:  manager,
		Logger:   logger,
		confirms: make(map[string]*confirm.Workflow),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": slug, "message": message},
	})
}

// session resolves the live session for a user or writes a 404.
func (a *App) session(w http.ResponseWriter, userID string) (*engine.Session, bool) {
	session, err := a.Manager.Get(userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "no_session", "no session mounted for user")
		return nil, false
	}
	return session, true
}

// workflow returns the confirmation workflow for a mounted user, creating it
// lazily so restarts of the surface never orphan a session.
func (a *App) workflow(userID string) *confirm.Workflow {
	a.mu.Lock()
	defer a.mu.Unlock()
	wf, ok := a.confirms[userID]
	if !ok {
		wf = confirm.New()
		a.confirms[userID] = wf
	}
	return wf
}

func (a *App) dropWorkflow(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.confirms, userID)
}

// errorKind maps cache errors to their wire slugs.
func errorKind(err error) *string {
	if err == nil {
		return nil
	}
	kind := "load_failed"
	if errors.Is(err, domain.ErrDeleteFailed) {
		kind = "delete_failed"
	}
	return &kind
}
