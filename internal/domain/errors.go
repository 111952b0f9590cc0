package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidCampaign       = errors.New("invalid campaign")
	ErrInvalidDonation       = errors.New("invalid donation")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrGoalAlreadyReached    = errors.New("goal already reached")
	ErrExceedsRemainingGoal  = errors.New("exceeds remaining goal")
	ErrLedgerRecomputeFailed = errors.New("ledger recompute failed")
)

// RejectionError explains why a request was refused. It unwraps to one of
// the sentinel errors above so callers can branch with errors.Is.
type RejectionError struct {
	Reason     error
	Message    string
	MaxAllowed *decimal.Decimal
}

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Reason != nil {
		return e.Reason.Error()
	}
	return "rejected"
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

// Reject builds a RejectionError for reason with a user-facing message.
func Reject(reason error, message string) *RejectionError {
	return &RejectionError{Reason: reason, Message: message}
}
