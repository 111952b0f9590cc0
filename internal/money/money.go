// Package money holds the currency rules shared by the fundraising flow.
//
// Amounts are shopspring decimals. Comparisons near zero use Epsilon, one
// cent, so values that differ by less than a cent are treated as equal.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// Epsilon is the one-cent tolerance used for all currency comparisons.
	Epsilon = decimal.New(1, -2)
	// MinimumDonation is the smallest amount a single donation may carry.
	MinimumDonation = decimal.New(1, 0)
)

// MaxAmount is the largest amount the ledgers can store, NUMERIC(14,2).
var MaxAmount = decimal.RequireFromString("999999999999.99")

// ErrOutOfRange reports an amount whose magnitude exceeds MaxAmount.
var ErrOutOfRange = errors.New("money: amount out of range")

// Plain decimal notation only. Exponents are refused so a short input can
// never expand into an enormous coefficient.
var plainAmount = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

const maxInputLen = 32

var printer = message.NewPrinter(language.AmericanEnglish)

// Parse reads a decimal amount from user input. Surrounding whitespace is
// ignored; anything that is not a plain decimal is rejected, and values
// beyond MaxAmount in magnitude return ErrOutOfRange.
func Parse(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxInputLen || !plainAmount.MatchString(raw) {
		return decimal.Zero, fmt.Errorf("money: malformed amount %q", raw)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: malformed amount %q: %w", raw, err)
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return decimal.Zero, ErrOutOfRange
	}
	return d, nil
}

// Cents converts an amount to integer cents, rounding half away from zero.
// Amounts beyond MaxAmount return ErrOutOfRange instead of wrapping.
func Cents(d decimal.Decimal) (int64, error) {
	rounded := d.Round(2)
	if rounded.Abs().GreaterThan(MaxAmount) {
		return 0, ErrOutOfRange
	}
	return rounded.Shift(2).IntPart(), nil
}

// FromCents is the inverse of Cents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Fixed renders the amount with exactly two decimal places, e.g. "30.00".
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Format renders the amount for people, e.g. "$1,250.00".
func Format(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

// NearlyEqual reports whether a and b differ by less than Epsilon.
func NearlyEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Epsilon)
}
