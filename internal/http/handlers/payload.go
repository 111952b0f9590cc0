package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// amountField accepts a JSON number or string and keeps the raw text, so
// the amount is parsed once by the donation policy.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountField(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("amount must be a number or string")
		}
		*a = amountField(n.String())
	}
	return nil
}

// dateField accepts "2006-01-02", RFC 3339 or null.
type dateField struct {
	t *time.Time
}

func (d *dateField) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		d.t = nil
		return nil
	}
	raw := strings.TrimSpace(*s)
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		ts, rfcErr := time.Parse(time.RFC3339, raw)
		if rfcErr != nil {
			return fmt.Errorf("invalid date %q", raw)
		}
		t = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}
	d.t = &t
	return nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}
