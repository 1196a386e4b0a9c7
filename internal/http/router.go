package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"donationsync/internal/http/handlers"
	"donationsync/internal/infra"
	"donationsync/internal/middleware"
)

// RouterOptions carries the cross-cutting dependencies of the agent surface.
type RouterOptions struct {
	Logger         infra.Logger
	AllowedOrigins []string
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts RouterOptions) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.Locale(opts.DefaultLocale, opts.CountryLookup))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/sessions/{userID}", func(r chi.Router) {
		r.Post("/", app.SessionMount)
		r.Delete("/", app.SessionUnmount)
		r.Get("/donations", app.DonationsList)
		r.Post("/reload", app.DonationsReload)
		r.Post("/donations/{id}/delete", app.DonationsDeleteRequest)
		r.Get("/confirmation", app.ConfirmationGet)
		r.Post("/confirmation/{action}", app.ConfirmationResolve)
	})

	return r
}
