package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"donationsync/internal/domain"
)

// SessionMount starts a session for a user: initial load plus poll loop. The
// load outcome rides along in the snapshot, so a failed fetch still mounts.
func (a *App) SessionMount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	session, err := a.Manager.Mount(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExists) {
			a.error(w, http.StatusConflict, "session_exists", "session already mounted for user")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.workflow(userID)
	a.json(w, http.StatusCreated, a.snapshotPayload(r, session))
}

// SessionUnmount stops the user's poll loop and drops the cache.
func (a *App) SessionUnmount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := a.Manager.Unmount(userID); err != nil {
		a.error(w, http.StatusNotFound, "no_session", "no session mounted for user")
		return
	}
	a.dropWorkflow(userID)
	w.WriteHeader(http.StatusNoContent)
}
