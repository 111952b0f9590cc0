package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"alumni/internal/domain"
	"alumni/internal/fundraising"
	"alumni/internal/middleware"
	"alumni/internal/money"
)

// App carries the dependencies shared by the HTTP handlers.
type App struct {
	Fundraising *fundraising.Service
	Logger      zerolog.Logger
}

// NewApp builds the handler set and tags its logger with the http component.
func NewApp(svc *fundraising.Service, logger zerolog.Logger) *App {
	return &App{Fundraising: svc, Logger: logger.With().Str("component", "http").Logger()}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, reason, message string) {
	a.json(w, code, map[string]any{"reason": reason, "error": message})
}

// fail maps service errors to responses. Rejections keep their message;
// anything else is logged and reported as a generic failure.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var rejection *domain.RejectionError
	if errors.As(err, &rejection) {
		a.json(w, statusFor(err), rejectionBody(rejection))
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "Not found")
		return
	}
	a.Logger.Error().
		Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Msg(fallback)
	a.error(w, http.StatusInternalServerError, "internal", fallback)
}

func rejectionBody(rejection *domain.RejectionError) map[string]any {
	body := map[string]any{
		"reason": reasonCode(rejection.Reason),
		"error":  rejection.Error(),
	}
	if rejection.MaxAllowed != nil {
		body["max_allowed"] = money.Fixed(*rejection.MaxAllowed)
	}
	return body
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCampaignNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDonation),
		errors.Is(err, domain.ErrInvalidCampaign),
		errors.Is(err, domain.ErrGoalAlreadyReached),
		errors.Is(err, domain.ErrExceedsRemainingGoal):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func reasonCode(reason error) string {
	switch {
	case errors.Is(reason, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(reason, domain.ErrCampaignNotFound):
		return "campaign_not_found"
	case errors.Is(reason, domain.ErrGoalAlreadyReached):
		return "goal_already_reached"
	case errors.Is(reason, domain.ErrExceedsRemainingGoal):
		return "exceeds_remaining_goal"
	case errors.Is(reason, domain.ErrInvalidCampaign):
		return "invalid_campaign"
	default:
		return "invalid_donation"
	}
}
