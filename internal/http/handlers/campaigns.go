package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"alumni/internal/domain"
	"alumni/internal/fundraising"
	"alumni/internal/money"
)

type campaignRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	GoalAmount  amountField `json:"goal_amount"`
	StartDate   dateField   `json:"start_date"`
	EndDate     dateField   `json:"end_date"`
	CreatedBy   string      `json:"created_by"`
}

func (c campaignRequest) input() fundraising.CampaignInput {
	return fundraising.CampaignInput{
		Title:       c.Title,
		Description: c.Description,
		GoalAmount:  string(c.GoalAmount),
		StartDate:   c.StartDate.t,
		EndDate:     c.EndDate.t,
		CreatedBy:   c.CreatedBy,
	}
}

type campaignResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	GoalAmount      string    `json:"goal_amount"`
	RaisedAmount    string    `json:"raised_amount"`
	RemainingAmount string    `json:"remaining_amount"`
	Status          string    `json:"status"`
	DonationCount   int64     `json:"donation_count"`
	StartDate       *string   `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toCampaignResponse(c domain.Campaign) campaignResponse {
	financials := c.Financials()
	remaining := financials.Remaining()
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return campaignResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		GoalAmount:      money.Fixed(c.GoalAmount),
		RaisedAmount:    money.Fixed(c.RaisedAmount),
		RemainingAmount: money.Fixed(remaining),
		Status:          string(financials.Status()),
		DonationCount:   c.DonationCount,
		StartDate:       formatDate(c.StartDate),
		EndDate:         formatDate(c.EndDate),
		CreatedBy:       c.CreatedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (a *App) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_campaign", "invalid payload")
		return
	}
	campaign, err := a.Fundraising.CreateCampaign(r.Context(), req.input())
	if err != nil {
		a.fail(w, r, err, "Error creating campaign")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"message":     "Campaign created successfully",
		"campaign_id": campaign.ID,
	})
}

func (a *App) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := a.Fundraising.ListCampaigns(r.Context())
	if err != nil {
		a.fail(w, r, err, "Error retrieving campaigns")
		return
	}
	items := make([]campaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, toCampaignResponse(c))
	}
	a.json(w, http.StatusOK, items)
}

func (a *App) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Fundraising.GetCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, "Error retrieving campaign")
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(*campaign))
}

func (a *App) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_campaign", "invalid payload")
		return
	}
	if err := a.Fundraising.UpdateCampaign(r.Context(), chi.URLParam(r, "id"), req.input()); err != nil {
		a.fail(w, r, err, "Error updating campaign")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Campaign updated successfully"})
}

func (a *App) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := a.Fundraising.DeleteCampaign(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err, "Error deleting campaign")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Campaign deleted successfully"})
}

func (a *App) TotalRaised(w http.ResponseWriter, r *http.Request) {
	total, err := a.Fundraising.TotalRaised(r.Context())
	if err != nil {
		a.fail(w, r, err, "Error retrieving total donations")
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"total_raised": money.Fixed(total),
		"display":      money.Format(total),
	})
}
