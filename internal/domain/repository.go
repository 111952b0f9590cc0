package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CampaignLedger is the persistence contract the donation flow relies on.
type CampaignLedger interface {
	// FetchCampaignFinancials returns ErrNotFound for unknown campaigns.
	FetchCampaignFinancials(ctx context.Context, campaignID string) (CampaignFinancials, error)
	// AppendDonation inserts the donation and returns its id.
	AppendDonation(ctx context.Context, donation *Donation) (string, error)
	// RecomputeRaisedTotal rewrites raised_amount as the sum of the
	// campaign's donations and returns the new total.
	RecomputeRaisedTotal(ctx context.Context, campaignID string) (decimal.Decimal, error)
}

// CampaignRepository covers campaign CRUD and donation listings.
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign *Campaign) error
	ListCampaigns(ctx context.Context) ([]Campaign, error)
	GetCampaign(ctx context.Context, id string) (*Campaign, error)
	UpdateCampaign(ctx context.Context, campaign *Campaign) error
	DeleteCampaign(ctx context.Context, id string) error
	ListCampaignDonations(ctx context.Context, campaignID string) ([]Donation, error)
	ListDonorDonations(ctx context.Context, campaignID, donorID string) ([]Donation, error)
	TotalRaised(ctx context.Context) (decimal.Decimal, error)
}

// FundraisingStore is implemented by every ledger backend.
type FundraisingStore interface {
	CampaignLedger
	CampaignRepository
}
