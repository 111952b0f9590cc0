package fundraising

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"alumni/internal/domain"
	"alumni/internal/money"
)

// DonationRequest is an incoming donation as submitted by a donor.
type DonationRequest struct {
	CampaignID    string
	DonorID       string
	Amount        string
	PaymentMethod string
	TransactionID string
	IsAnonymous   bool
}

// Receipt describes an accepted donation.
type Receipt struct {
	DonationID string
	Amount     decimal.Decimal
	NewTotal   decimal.Decimal
	Completed  bool
}

// CampaignInput carries the editable fields of a campaign.
type CampaignInput struct {
	Title       string
	Description string
	GoalAmount  string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   string
}

// RecomputeResult is one campaign's outcome in RecomputeAll.
type RecomputeResult struct {
	CampaignID string
	Before     decimal.Decimal
	After      decimal.Decimal
	Err        error
}

// Service runs the fundraising operations against a ledger backend.
type Service struct {
	store  domain.FundraisingStore
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a Service to store.
func NewService(store domain.FundraisingStore, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "fundraising").Logger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SubmitDonation reads the campaign snapshot, decides the donation and, when
// accepted, appends it and refreshes the campaign's raised total.
//
// The read, the decision and the write are not isolated from concurrent
// donations: two requests decided against the same snapshot can both be
// accepted. A serialized variant belongs here, behind this signature.
func (s *Service) SubmitDonation(ctx context.Context, req DonationRequest) (Receipt, error) {
	campaignID := strings.TrimSpace(req.CampaignID)
	donorID := strings.TrimSpace(req.DonorID)
	if campaignID == "" || donorID == "" {
		return Receipt{}, domain.Reject(domain.ErrInvalidDonation, "Campaign ID, donor ID, and amount are required")
	}

	amount, err := ValidateAmount(req.Amount)
	if err != nil {
		return Receipt{}, err
	}

	financials, err := s.store.FetchCampaignFinancials(ctx, campaignID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Receipt{}, domain.Reject(domain.ErrCampaignNotFound, "Campaign not found")
		}
		return Receipt{}, fmt.Errorf("fetch campaign financials: %w", err)
	}

	s.logger.Debug().
		Str("campaign_id", campaignID).
		Str("goal", financials.GoalAmount.String()).
		Str("raised", financials.RaisedAmount.String()).
		Str("remaining", financials.Remaining().String()).
		Str("amount", amount.String()).
		Msg("evaluating donation")

	decision := EvaluateAmount(financials.GoalAmount, financials.RaisedAmount, amount)
	if !decision.Accepted {
		s.logger.Info().
			Str("campaign_id", campaignID).
			Str("amount", amount.String()).
			Err(decision.Reason).
			Msg("donation rejected")
		return Receipt{}, decision.Err()
	}

	donation := &domain.Donation{
		ID:            s.newID(),
		CampaignID:    campaignID,
		DonorID:       donorID,
		Amount:        amount.Round(2),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		TransactionID: strings.TrimSpace(req.TransactionID),
		IsAnonymous:   req.IsAnonymous,
		CreatedAt:     s.now().UTC(),
	}
	donationID, err := s.store.AppendDonation(ctx, donation)
	if err != nil {
		return Receipt{}, fmt.Errorf("append donation: %w", err)
	}

	total, err := s.store.RecomputeRaisedTotal(ctx, campaignID)
	if err != nil {
		// The donation row is committed; the aggregate catches up on the
		// next successful recompute.
		s.logger.Error().
			Err(fmt.Errorf("%w: %w", domain.ErrLedgerRecomputeFailed, err)).
			Str("campaign_id", campaignID).
			Str("donation_id", donationID).
			Msg("failed to recompute raised amount")
		total = financials.RaisedAmount.Add(donation.Amount)
	}

	return Receipt{
		DonationID: donationID,
		Amount:     donation.Amount,
		NewTotal:   total,
		Completed:  financials.GoalAmount.Sub(total).LessThan(money.Epsilon),
	}, nil
}

// CreateCampaign validates input and stores a new campaign with nothing
// raised yet.
func (s *Service) CreateCampaign(ctx context.Context, in CampaignInput) (*domain.Campaign, error) {
	goal, err := validateCampaign(in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	campaign := &domain.Campaign{
		ID:           s.newID(),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		GoalAmount:   goal,
		RaisedAmount: decimal.Zero,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		CreatedBy:    strings.TrimSpace(in.CreatedBy),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return campaign, nil
}

// ListCampaigns returns every campaign, newest first.
func (s *Service) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	items, err := s.store.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return items, nil
}

// GetCampaign returns domain.ErrCampaignNotFound for unknown ids.
func (s *Service) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.store.GetCampaign(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, campaignErr("get campaign", err)
	}
	return campaign, nil
}

// UpdateCampaign replaces the editable fields. The raised total is left to
// the ledger.
func (s *Service) UpdateCampaign(ctx context.Context, id string, in CampaignInput) error {
	goal, err := validateCampaign(in)
	if err != nil {
		return err
	}
	campaign := &domain.Campaign{
		ID:          strings.TrimSpace(id),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		GoalAmount:  goal,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.store.UpdateCampaign(ctx, campaign); err != nil {
		return campaignErr("update campaign", err)
	}
	return nil
}

// DeleteCampaign removes the campaign together with its donations.
func (s *Service) DeleteCampaign(ctx context.Context, id string) error {
	if err := s.store.DeleteCampaign(ctx, strings.TrimSpace(id)); err != nil {
		return campaignErr("delete campaign", err)
	}
	return nil
}

// ListCampaignDonations returns a campaign's donations, newest first.
func (s *Service) ListCampaignDonations(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	items, err := s.store.ListCampaignDonations(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return nil, fmt.Errorf("list campaign donations: %w", err)
	}
	return items, nil
}

// ListDonorDonations returns one donor's donations to a campaign.
func (s *Service) ListDonorDonations(ctx context.Context, campaignID, donorID string) ([]domain.Donation, error) {
	campaignID = strings.TrimSpace(campaignID)
	donorID = strings.TrimSpace(donorID)
	if campaignID == "" || donorID == "" {
		return nil, domain.Reject(domain.ErrInvalidDonation, "Campaign ID and User ID are required")
	}
	items, err := s.store.ListDonorDonations(ctx, campaignID, donorID)
	if err != nil {
		return nil, fmt.Errorf("list donor donations: %w", err)
	}
	return items, nil
}

// TotalRaised sums every donation across all campaigns.
func (s *Service) TotalRaised(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.store.TotalRaised(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total raised: %w", err)
	}
	return total, nil
}

// RecomputeAll refreshes the raised total of every campaign. Failures are
// reported per campaign and do not stop the run.
func (s *Service) RecomputeAll(ctx context.Context) ([]RecomputeResult, error) {
	campaigns, err := s.store.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	results := make([]RecomputeResult, 0, len(campaigns))
	for _, c := range campaigns {
		res := RecomputeResult{CampaignID: c.ID, Before: c.RaisedAmount}
		res.After, res.Err = s.store.RecomputeRaisedTotal(ctx, c.ID)
		if res.Err != nil {
			s.logger.Error().Err(res.Err).Str("campaign_id", c.ID).Msg("recompute failed")
		}
		results = append(results, res)
	}
	return results, nil
}

// RecomputeCampaign refreshes one campaign's raised total.
func (s *Service) RecomputeCampaign(ctx context.Context, id string) (RecomputeResult, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return RecomputeResult{}, err
	}
	after, err := s.store.RecomputeRaisedTotal(ctx, campaign.ID)
	if err != nil {
		return RecomputeResult{}, campaignErr("recompute campaign", err)
	}
	return RecomputeResult{CampaignID: campaign.ID, Before: campaign.RaisedAmount, After: after}, nil
}

func validateCampaign(in CampaignInput) (decimal.Decimal, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.GoalAmount) == "" {
		return decimal.Zero, domain.Reject(domain.ErrInvalidCampaign, "Campaign title and goal amount are required")
	}
	goal, err := money.Parse(in.GoalAmount)
	if errors.Is(err, money.ErrOutOfRange) {
		return decimal.Zero, domain.Reject(domain.ErrInvalidCampaign, "Goal amount must not exceed "+money.Format(money.MaxAmount))
	}
	if err != nil || !goal.Round(2).IsPositive() {
		return decimal.Zero, domain.Reject(domain.ErrInvalidCampaign, "Goal amount must be a positive number")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return decimal.Zero, domain.Reject(domain.ErrInvalidCampaign, "End date must not be before start date")
	}
	return goal.Round(2), nil
}

func campaignErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Reject(domain.ErrCampaignNotFound, "Campaign not found")
	}
	return fmt.Errorf("%s: %w", op, err)
}
