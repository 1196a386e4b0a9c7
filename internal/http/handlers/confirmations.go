package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"donationsync/internal/confirm"
)

type promptPayload struct {
	Pending      bool   `json:"pending"`
	Title        string `json:"title,omitempty"`
	Message      string `json:"message,omitempty"`
	ConfirmLabel string `json:"confirm_label,omitempty"`
	CancelLabel  string `json:"cancel_label,omitempty"`
}

func (a *App) pendingPayload(wf *confirm.Workflow) promptPayload {
	prompt, ok := wf.Pending()
	if !ok {
		return promptPayload{Pending: false}
	}
	payload := promptPayload{
		Pending:      true,
		Title:        prompt.Title,
		Message:      prompt.Message,
		ConfirmLabel: "OK",
	}
	if prompt.AllowCancel {
		payload.CancelLabel = "Cancel"
	}
	return payload
}

// ConfirmationGet returns the prompt awaiting the user, if any.
func (a *App) ConfirmationGet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, ok := a.session(w, userID); !ok {
		return
	}
	a.json(w, http.StatusOK, a.pendingPayload(a.workflow(userID)))
}

// ConfirmationResolve reports the user's choice on the pending prompt.
// Confirm runs the attached action; cancel and dismiss never do.
func (a *App) ConfirmationResolve(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, ok := a.session(w, userID); !ok {
		return
	}
	wf := a.workflow(userID)
	switch chi.URLParam(r, "action") {
	case "confirm":
		wf.Confirm()
	case "cancel":
		wf.Cancel()
	case "dismiss":
		wf.Dismiss()
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "unknown resolution action")
		return
	}
	a.json(w, http.StatusOK, a.pendingPayload(wf))
}
