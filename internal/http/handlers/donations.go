package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"donationsync/internal/confirm"
	"donationsync/internal/domain"
	"donationsync/internal/engine"
	"donationsync/internal/middleware"
	"donationsync/internal/view"
)

// deleteTimeout bounds the remote delete issued when the user confirms; the
// confirmation may arrive on a different request than the one that asked.
const deleteTimeout = 15 * time.Second

type recordPayload struct {
	domain.DonationRecord
	Badge             view.Badge `json:"badge"`
	ItemCount         int        `json:"item_count"`
	Images            []string   `json:"images"`
	CreatedAtDisplay  string     `json:"created_at_display"`
	PickupDateDisplay string     `json:"pickup_date_display,omitempty"`
}

type snapshotPayload struct {
	Records []recordPayload `json:"records"`
	Loading bool            `json:"loading"`
	Error   *string         `json:"error"`
}

func (a *App) snapshotPayload(r *http.Request, session *engine.Session) snapshotPayload {
	locale := middleware.LocaleFromContext(r.Context())
	snap := session.Snapshot()
	records := make([]recordPayload, 0, len(snap.Records))
	for _, record := range snap.Records {
		records = append(records, recordPayload{
			DonationRecord:    record,
			Badge:             view.StatusBadge(record.Status),
			ItemCount:         view.ItemCount(record),
			Images:            view.Images(record),
			CreatedAtDisplay:  view.ShortDate(record.CreatedAt, locale),
			PickupDateDisplay: view.ShortDatePtr(record.PickupDate, locale),
		})
	}
	return snapshotPayload{Records: records, Loading: snap.Loading, Error: errorKind(snap.Err)}
}

// DonationsList returns the cached records with display projections computed
// for the request's locale.
func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, chi.URLParam(r, "userID"))
	if !ok {
		return
	}
	a.json(w, http.StatusOK, a.snapshotPayload(r, session))
}

// DonationsReload is the explicit retry affordance: it re-runs the load and
// returns the resulting snapshot. Failures surface in the snapshot, not the
// status code.
func (a *App) DonationsReload(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, chi.URLParam(r, "userID"))
	if !ok {
		return
	}
	_ = session.Load(r.Context())
	a.json(w, http.StatusOK, a.snapshotPayload(r, session))
}

// DonationsDeleteRequest gates the delete behind the confirmation workflow.
// Nothing is removed until the user confirms; on confirmation the delete
// runs and a follow-up outcome prompt reports how it went.
func (a *App) DonationsDeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	recordID := chi.URLParam(r, "id")
	session, ok := a.session(w, userID)
	if !ok {
		return
	}
	wf := a.workflow(userID)
	wf.Request(confirm.Prompt{
		Title:       "Delete donation",
		Message:     "This donation record will be removed permanently.",
		AllowCancel: true,
		OnConfirm: func() {
			ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
			defer cancel()
			if err := session.DeleteRecord(ctx, recordID); err != nil {
				wf.Request(confirm.Prompt{
					Title:   "Delete failed",
					Message: "The donation could not be deleted. Please try again.",
				})
				return
			}
			wf.Request(confirm.Prompt{
				Title:   "Donation deleted",
				Message: "The donation record was removed.",
			})
		},
	})
	a.json(w, http.StatusAccepted, a.pendingPayload(wf))
}
