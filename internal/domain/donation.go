package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is an immutable contribution to one campaign by one donor.
type Donation struct {
	ID            string
	CampaignID    string
	DonorID       string
	Amount        decimal.Decimal
	PaymentMethod string
	TransactionID string
	IsAnonymous   bool
	CreatedAt     time.Time
}
