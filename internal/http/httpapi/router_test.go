package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"alumni/internal/fundraising"
	"alumni/internal/http/handlers"
	"alumni/internal/storage/sqlite"
)

func newTestServer(t *testing.T, opts Options) http.Handler {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := fundraising.NewService(store, zerolog.Nop())
	return NewRouter(handlers.NewApp(svc, zerolog.Nop()), zerolog.Nop(), opts)
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]any
	if rr.Body.Len() > 0 && rr.Body.Bytes()[0] == '{' {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, rr.Body.String(), err)
		}
	}
	return rr, out
}

func doList(t *testing.T, h http.Handler, path string) []map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d body %s", path, rr.Code, rr.Body.String())
	}
	var out []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return out
}

func createCampaign(t *testing.T, h http.Handler, goal any) string {
	t.Helper()
	rr, body := do(t, h, http.MethodPost, "/api/fundraising", map[string]any{
		"title":       "Scholarship fund",
		"description": "Need-based scholarships",
		"goal_amount": goal,
		"start_date":  "2025-01-01",
		"end_date":    "2025-12-31",
		"created_by":  "alum-admin",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create campaign: status %d body %s", rr.Code, rr.Body.String())
	}
	id, _ := body["campaign_id"].(string)
	if id == "" {
		t.Fatalf("missing campaign_id in %v", body)
	}
	return id
}

func TestDonationLifecycle(t *testing.T) {
	h := newTestServer(t, Options{})
	id := createCampaign(t, h, 100)

	steps := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantReason string
		wantTotal  string
		wantMax    string
	}{
		{
			name:       "accepted",
			body:       map[string]any{"campaign_id": id, "alumni_id": "alum-1", "amount": "70", "payment_method": "card", "transaction_id": "txn_1"},
			wantStatus: http.StatusCreated,
			wantTotal:  "70.00",
		},
		{
			name:       "exceeds remaining",
			body:       map[string]any{"campaign_id": id, "alumni_id": "alum-1", "amount": 40},
			wantStatus: http.StatusBadRequest,
			wantReason: "exceeds_remaining_goal",
			wantMax:    "30.00",
		},
		{
			name:       "not a number",
			body:       map[string]any{"campaign_id": id, "alumni_id": "alum-1", "amount": "abc"},
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid_amount",
		},
		{
			name:       "exponent notation",
			body:       map[string]any{"campaign_id": id, "alumni_id": "alum-1", "amount": "1e400"},
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid_amount",
		},
		{
			name:       "below minimum",
			body:       map[string]any{"campaign_id": id, "alumni_id": "alum-1", "amount": 0.5},
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid_amount",
		},
		{
			name:       "missing donor",
			body:       map[string]any{"campaign_id": id, "amount": 5},
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid_donation",
		},
		{
			name:       "exact completion",
			body:       map[string]any{"campaign_id": id, "donor_id": "alum-2", "amount": 30.00, "is_anonymous": true},
			wantStatus: http.StatusCreated,
			wantTotal:  "100.00",
		},
		{
			name:       "goal reached",
			body:       map[string]any{"campaign_id": id, "alumni_id": "alum-3", "amount": 5},
			wantStatus: http.StatusBadRequest,
			wantReason: "goal_already_reached",
		},
		{
			name:       "unknown campaign",
			body:       map[string]any{"campaign_id": "missing", "alumni_id": "alum-3", "amount": 5},
			wantStatus: http.StatusNotFound,
			wantReason: "campaign_not_found",
		},
	}

	for _, step := range steps {
		rr, body := do(t, h, http.MethodPost, "/api/fundraising/donate", step.body)
		if rr.Code != step.wantStatus {
			t.Fatalf("%s: status %d, want %d (body %s)", step.name, rr.Code, step.wantStatus, rr.Body.String())
		}
		if step.wantReason != "" {
			if body["status"] != "rejected" || body["reason"] != step.wantReason {
				t.Fatalf("%s: unexpected rejection body %v", step.name, body)
			}
			if msg, _ := body["error"].(string); msg == "" {
				t.Fatalf("%s: rejection without message", step.name)
			}
			if step.wantMax != "" && body["max_allowed"] != step.wantMax {
				t.Fatalf("%s: max_allowed = %v, want %s", step.name, body["max_allowed"], step.wantMax)
			}
			continue
		}
		if body["status"] != "accepted" || body["new_total"] != step.wantTotal {
			t.Fatalf("%s: unexpected acceptance body %v", step.name, body)
		}
	}

	rr, campaign := do(t, h, http.MethodGet, "/api/fundraising/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get campaign: status %d", rr.Code)
	}
	if campaign["status"] != "completed" || campaign["raised_amount"] != "100.00" || campaign["remaining_amount"] != "0.00" {
		t.Fatalf("unexpected campaign: %v", campaign)
	}
	if campaign["donation_count"] != float64(2) || campaign["start_date"] != "2025-01-01" {
		t.Fatalf("unexpected campaign details: %v", campaign)
	}

	donations := doList(t, h, "/api/fundraising/"+id+"/donations")
	if len(donations) != 2 {
		t.Fatalf("expected 2 donations, got %d", len(donations))
	}
	for _, d := range donations {
		if d["is_anonymous"] == true && d["donor_id"] != nil {
			t.Fatalf("anonymous donor exposed: %v", d)
		}
		if d["is_anonymous"] == false && d["donor_id"] != "alum-1" {
			t.Fatalf("named donor hidden: %v", d)
		}
	}

	mine := doList(t, h, "/api/fundraising/"+id+"/donations/user/alum-2")
	if len(mine) != 1 || mine[0]["donor_id"] != "alum-2" || mine[0]["amount"] != "30.00" {
		t.Fatalf("unexpected donor listing: %v", mine)
	}

	_, total := do(t, h, http.MethodGet, "/api/fundraising/total-raised", nil)
	if total["total_raised"] != "100.00" {
		t.Fatalf("total raised = %v", total)
	}
}

func TestCampaignCRUD(t *testing.T) {
	h := newTestServer(t, Options{})

	rr, body := do(t, h, http.MethodPost, "/api/fundraising", map[string]any{"title": "No goal"})
	if rr.Code != http.StatusBadRequest || body["reason"] != "invalid_campaign" {
		t.Fatalf("create without goal: status %d body %v", rr.Code, body)
	}

	id := createCampaign(t, h, "250.00")

	rr, _ = do(t, h, http.MethodPut, "/api/fundraising/"+id, map[string]any{"title": "Renamed fund", "goal_amount": 300})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rr.Code, rr.Body.String())
	}
	_, campaign := do(t, h, http.MethodGet, "/api/fundraising/"+id, nil)
	if campaign["title"] != "Renamed fund" || campaign["goal_amount"] != "300.00" || campaign["status"] != "open" {
		t.Fatalf("update not applied: %v", campaign)
	}

	if list := doList(t, h, "/api/fundraising"); len(list) != 1 {
		t.Fatalf("expected 1 campaign, got %d", len(list))
	}

	rr, _ = do(t, h, http.MethodPut, "/api/fundraising/missing", map[string]any{"title": "x", "goal_amount": 1})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("update missing: status %d", rr.Code)
	}

	rr, _ = do(t, h, http.MethodDelete, "/api/fundraising/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rr.Code)
	}
	rr, body = do(t, h, http.MethodGet, "/api/fundraising/"+id, nil)
	if rr.Code != http.StatusNotFound || body["reason"] != "campaign_not_found" {
		t.Fatalf("get deleted: status %d body %v", rr.Code, body)
	}
	rr, _ = do(t, h, http.MethodDelete, "/api/fundraising/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("delete missing: status %d", rr.Code)
	}
}

func TestDonateRateLimited(t *testing.T) {
	h := newTestServer(t, Options{DonationsPerMinute: 1})
	id := createCampaign(t, h, 100)

	donation := map[string]any{"campaign_id": id, "alumni_id": "alum-1", "amount": 1}
	if rr, _ := do(t, h, http.MethodPost, "/api/fundraising/donate", donation); rr.Code != http.StatusCreated {
		t.Fatalf("first donation: status %d", rr.Code)
	}
	if rr, _ := do(t, h, http.MethodPost, "/api/fundraising/donate", donation); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second donation: status %d, want 429", rr.Code)
	}
	if list := doList(t, h, "/api/fundraising"); len(list) != 1 {
		t.Fatalf("reads should not be rate limited")
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, Options{})
	rr, body := do(t, h, http.MethodGet, "/v1/healthz", nil)
	if rr.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: status %d body %v", rr.Code, body)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}
}
