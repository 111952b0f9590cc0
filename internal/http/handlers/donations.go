package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"alumni/internal/domain"
	"alumni/internal/fundraising"
	"alumni/internal/money"
)

type donationRequest struct {
	CampaignID    string      `json:"campaign_id"`
	DonorID       string      `json:"donor_id"`
	AlumniID      string      `json:"alumni_id"`
	Amount        amountField `json:"amount"`
	PaymentMethod string      `json:"payment_method"`
	TransactionID string      `json:"transaction_id"`
	IsAnonymous   bool        `json:"is_anonymous"`
}

type donationResponse struct {
	ID            string    `json:"id"`
	CampaignID    string    `json:"campaign_id"`
	DonorID       *string   `json:"donor_id"`
	Amount        string    `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id"`
	IsAnonymous   bool      `json:"is_anonymous"`
	CreatedAt     time.Time `json:"created_at"`
}

func toDonationResponse(d domain.Donation, revealDonor bool) donationResponse {
	var donor *string
	if revealDonor || !d.IsAnonymous {
		id := d.DonorID
		donor = &id
	}
	return donationResponse{
		ID:            d.ID,
		CampaignID:    d.CampaignID,
		DonorID:       donor,
		Amount:        money.Fixed(d.Amount),
		PaymentMethod: d.PaymentMethod,
		TransactionID: d.TransactionID,
		IsAnonymous:   d.IsAnonymous,
		CreatedAt:     d.CreatedAt,
	}
}

// SubmitDonation runs a donation through the acceptance policy.
func (a *App) SubmitDonation(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.json(w, http.StatusBadRequest, map[string]any{
			"status": "rejected",
			"reason": "invalid_donation",
			"error":  "invalid payload",
		})
		return
	}
	donorID := req.DonorID
	if strings.TrimSpace(donorID) == "" {
		donorID = req.AlumniID
	}

	receipt, err := a.Fundraising.SubmitDonation(r.Context(), fundraising.DonationRequest{
		CampaignID:    req.CampaignID,
		DonorID:       donorID,
		Amount:        string(req.Amount),
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		IsAnonymous:   req.IsAnonymous,
	})
	if err != nil {
		var rejection *domain.RejectionError
		if errors.As(err, &rejection) {
			body := rejectionBody(rejection)
			body["status"] = "rejected"
			a.json(w, statusFor(err), body)
			return
		}
		a.fail(w, r, err, "Error creating donation")
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"status":             "accepted",
		"message":            "Donation created successfully",
		"donation_id":        receipt.DonationID,
		"amount":             money.Fixed(receipt.Amount),
		"new_total":          money.Fixed(receipt.NewTotal),
		"campaign_completed": receipt.Completed,
	})
}

func (a *App) ListCampaignDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := a.Fundraising.ListCampaignDonations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, "Error retrieving campaign donations")
		return
	}
	items := make([]donationResponse, 0, len(donations))
	for _, d := range donations {
		items = append(items, toDonationResponse(d, false))
	}
	a.json(w, http.StatusOK, items)
}

func (a *App) ListDonorDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := a.Fundraising.ListDonorDonations(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		a.fail(w, r, err, "Error retrieving user donations")
		return
	}
	items := make([]donationResponse, 0, len(donations))
	for _, d := range donations {
		items = append(items, toDonationResponse(d, true))
	}
	a.json(w, http.StatusOK, items)
}
