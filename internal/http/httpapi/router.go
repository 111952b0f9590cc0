package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"alumni/internal/http/handlers"
	"alumni/internal/middleware"
)

// Options tunes the router's cross-cutting middleware. A zero
// DonationsPerMinute disables the donation rate limit.
type Options struct {
	AllowedOrigins     []string
	DonationsPerMinute int
}

func NewRouter(app *handlers.App, logger zerolog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/api/fundraising", func(r chi.Router) {
		r.Post("/", app.CreateCampaign)
		r.Get("/", app.ListCampaigns)
		r.Get("/total-raised", app.TotalRaised)
		r.Group(func(r chi.Router) {
			if opts.DonationsPerMinute > 0 {
				r.Use(middleware.RateLimit(opts.DonationsPerMinute, time.Minute))
			}
			r.Post("/donate", app.SubmitDonation)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.GetCampaign)
			r.Put("/", app.UpdateCampaign)
			r.Delete("/", app.DeleteCampaign)
			r.Get("/donations", app.ListCampaignDonations)
			r.Get("/donations/user/{userId}", app.ListDonorDonations)
		})
	})

	return r
}
