package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"alumni/internal/money"
)

// CampaignStatus is derived from a campaign's financials and never stored.
type CampaignStatus string

const (
	CampaignOpen      CampaignStatus = "open"
	CampaignCompleted CampaignStatus = "completed"
)

// CampaignFinancials is the {goal, raised} snapshot the donation policy
// decides on.
type CampaignFinancials struct {
	GoalAmount   decimal.Decimal
	RaisedAmount decimal.Decimal
}

// Remaining returns goal minus raised. It is negative for over-funded
// campaigns.
func (f CampaignFinancials) Remaining() decimal.Decimal {
	return f.GoalAmount.Sub(f.RaisedAmount)
}

// Status reports open while at least one cent remains to be raised.
// Completed is terminal: donations are append-only.
func (f CampaignFinancials) Status() CampaignStatus {
	if f.Remaining().LessThan(money.Epsilon) {
		return CampaignCompleted
	}
	return CampaignOpen
}

// Campaign is a fundraising effort with a fixed goal and a date window.
type Campaign struct {
	ID           string
	Title        string
	Description  string
	GoalAmount   decimal.Decimal
	RaisedAmount decimal.Decimal
	StartDate    *time.Time
	EndDate      *time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	DonationCount int64 // derived from the donations table
}

// Financials returns the campaign's policy snapshot.
func (c Campaign) Financials() CampaignFinancials {
	return CampaignFinancials{GoalAmount: c.GoalAmount, RaisedAmount: c.RaisedAmount}
}
