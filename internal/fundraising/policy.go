// Package fundraising decides whether donations are accepted and records the
// accepted ones in the campaign ledger.
package fundraising

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"alumni/internal/domain"
	"alumni/internal/money"
)

// Decision is the outcome of evaluating one proposed donation against a
// campaign snapshot.
type Decision struct {
	Accepted bool
	// Amount is the parsed proposed amount. Zero when it did not parse.
	Amount decimal.Decimal
	// NewRaisedTotal is raised + Amount; only meaningful when Accepted.
	NewRaisedTotal decimal.Decimal

	Reason     error
	Message    string
	MaxAllowed *decimal.Decimal
}

// Err returns nil for accepted decisions and a *domain.RejectionError
// otherwise.
func (d Decision) Err() error {
	if d.Accepted {
		return nil
	}
	return &domain.RejectionError{Reason: d.Reason, Message: d.Message, MaxAllowed: d.MaxAllowed}
}

// ValidateAmount parses raw and enforces the one-unit floor. It runs before
// any campaign data is read.
func ValidateAmount(raw string) (decimal.Decimal, error) {
	amount, rej := validateAmount(raw)
	if rej != nil {
		return decimal.Zero, rej
	}
	return amount, nil
}

// validateAmount keeps the parsed amount alongside a floor rejection so
// callers can report what was proposed.
func validateAmount(raw string) (decimal.Decimal, *domain.RejectionError) {
	amount, err := money.Parse(raw)
	switch {
	case errors.Is(err, money.ErrOutOfRange):
		return decimal.Zero, domain.Reject(domain.ErrInvalidAmount, "Donation amount must not exceed "+money.Format(money.MaxAmount))
	case err != nil:
		return decimal.Zero, domain.Reject(domain.ErrInvalidAmount, "Invalid donation amount. Please enter a valid number.")
	}
	if amount.LessThan(money.MinimumDonation) {
		return amount, belowMinimum()
	}
	return amount, nil
}

func belowMinimum() *domain.RejectionError {
	return domain.Reject(domain.ErrInvalidAmount, "Donation amount must be at least "+money.Format(money.MinimumDonation))
}

// Evaluate validates the proposed amount and decides it against goal and
// raised.
func Evaluate(goal, raised decimal.Decimal, proposed string) Decision {
	amount, rej := validateAmount(proposed)
	if rej != nil {
		return Decision{Amount: amount, Reason: rej.Reason, Message: rej.Message}
	}
	return EvaluateAmount(goal, raised, amount)
}

// EvaluateAmount decides an already parsed amount. Rules apply in order:
//
//  1. less than a cent remaining: the goal is reached, reject.
//  2. a sub-unit remainder may be closed by any donation of at least one
//     unit, even though it overshoots the remainder.
//  3. amounts above the remainder are rejected unless they are within a
//     cent of it.
//  4. everything else is accepted.
func EvaluateAmount(goal, raised, amount decimal.Decimal) Decision {
	if amount.LessThan(money.MinimumDonation) {
		rej := belowMinimum()
		return Decision{Amount: amount, Reason: rej.Reason, Message: rej.Message}
	}

	remaining := goal.Sub(raised)
	accept := Decision{Accepted: true, Amount: amount, NewRaisedTotal: raised.Add(amount)}

	if remaining.LessThan(money.Epsilon) {
		return Decision{
			Amount:  amount,
			Reason:  domain.ErrGoalAlreadyReached,
			Message: "This campaign has already reached its goal. No more donations can be accepted.",
		}
	}

	if remaining.LessThan(money.MinimumDonation) && amount.GreaterThanOrEqual(money.MinimumDonation) {
		return accept
	}

	if amount.GreaterThan(remaining) {
		if money.NearlyEqual(amount, remaining) {
			return accept
		}
		maxAllowed := remaining.Round(2)
		return Decision{
			Amount: amount,
			Reason: domain.ErrExceedsRemainingGoal,
			Message: fmt.Sprintf("Donation amount (%s) exceeds the remaining campaign goal (%s). Maximum donation allowed: %s",
				money.Format(amount), money.Format(remaining), money.Format(remaining)),
			MaxAllowed: &maxAllowed,
		}
	}

	return accept
}
