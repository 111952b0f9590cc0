package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      string
		wantErr   bool
		wantRange bool
	}{
		{name: "integer", raw: "30", want: "30"},
		{name: "two decimals", raw: "30.00", want: "30"},
		{name: "surrounding space", raw: "  12.5 ", want: "12.5"},
		{name: "sub cent", raw: "99.995", want: "99.995"},
		{name: "letters", raw: "abc", wantErr: true},
		{name: "trailing garbage", raw: "12abc", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "blank", raw: "   ", wantErr: true},
		{name: "nan", raw: "NaN", wantErr: true},
		{name: "infinity", raw: "Inf", wantErr: true},
		{name: "exponent", raw: "1e5", wantErr: true},
		{name: "huge exponent", raw: "1e100000000", wantErr: true},
		{name: "negative exponent", raw: "5E-3", wantErr: true},
		{name: "overlong", raw: "1.0000000000000000000000000000000000", wantErr: true},
		{name: "largest storable", raw: "999999999999.99", want: "999999999999.99"},
		{name: "beyond storable", raw: "1000000000000", wantErr: true, wantRange: true},
		{name: "int64 cents overflow", raw: "184467440737095516.17", wantErr: true, wantRange: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %s, want error", tc.raw, got)
				}
				if errors.Is(err, ErrOutOfRange) != tc.wantRange {
					t.Fatalf("Parse(%q) error = %v, out of range = %v", tc.raw, err, tc.wantRange)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.raw, err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("Parse(%q) = %s, want %s", tc.raw, got, tc.want)
			}
		})
	}
}

func TestCentsRoundTrip(t *testing.T) {
	tests := []struct {
		in    string
		cents int64
	}{
		{in: "100", cents: 10000},
		{in: "0.5", cents: 50},
		{in: "1.005", cents: 101},
		{in: "12.344", cents: 1234},
	}
	for _, tc := range tests {
		got, err := Cents(decimal.RequireFromString(tc.in))
		if err != nil {
			t.Fatalf("Cents(%s) unexpected error: %v", tc.in, err)
		}
		if got != tc.cents {
			t.Fatalf("Cents(%s) = %d, want %d", tc.in, got, tc.cents)
		}
		back := FromCents(got)
		if back.Shift(2).IntPart() != tc.cents {
			t.Fatalf("FromCents(%d) = %s", got, back)
		}
	}
}

func TestCentsRefusesOverflow(t *testing.T) {
	for _, in := range []string{"92233720368547758.08", "1000000000000", "-1000000000000"} {
		got, err := Cents(decimal.RequireFromString(in))
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Cents(%s) = %d, %v; want ErrOutOfRange", in, got, err)
		}
	}
	got, err := Cents(MaxAmount)
	if err != nil || got != 99999999999999 {
		t.Fatalf("Cents(MaxAmount) = %d, %v", got, err)
	}
}

func TestFixedAndFormat(t *testing.T) {
	d := decimal.RequireFromString("30")
	if got := Fixed(d); got != "30.00" {
		t.Fatalf("Fixed() = %q, want 30.00", got)
	}
	if got := Format(d); got != "$30.00" {
		t.Fatalf("Format() = %q, want $30.00", got)
	}
	if got := Fixed(decimal.RequireFromString("0.5")); got != "0.50" {
		t.Fatalf("Fixed() = %q, want 0.50", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	a := decimal.RequireFromString("30.000")
	if !NearlyEqual(a, decimal.RequireFromString("30.009")) {
		t.Fatal("expected values within a cent to be nearly equal")
	}
	if NearlyEqual(a, decimal.RequireFromString("30.01")) {
		t.Fatal("expected values a full cent apart to differ")
	}
}
