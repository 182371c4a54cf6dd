package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/duscraft/garry/internal/domain"
)

func TestWarrantyLifecycle(t *testing.T) {
	s := newAPITestServer(t, 0)

	resp, raw := s.do(t, http.MethodPost, "/api/v1/warranties", "alice",
		`{"product_name":"Espresso Machine","brand":"DeLonghi","category":"appliances","purchase_date":"2026-01-01T00:00:00Z","store":"Darty","notes":"extended plan"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d body %s", resp.StatusCode, raw)
	}
	created := decodeWarranty(t, raw)
	if created.WarrantyMonths != 24 {
		t.Fatalf("appliances default months: %d", created.WarrantyMonths)
	}
	wantEnd := created.PurchaseDate.Add(24 * 30 * 24 * time.Hour)
	if !created.WarrantyEndDate.Equal(wantEnd) {
		t.Fatalf("end date %v, want %v", created.WarrantyEndDate, wantEnd)
	}

	resp, raw = s.do(t, http.MethodGet, "/api/v1/warranties/"+created.ID.String(), "alice", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}

	resp, raw = s.do(t, http.MethodPut, "/api/v1/warranties/"+created.ID.String(), "alice",
		`{"notes":null,"warranty_months":12}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d body %s", resp.StatusCode, raw)
	}
	updated := decodeWarranty(t, raw)
	if updated.Notes != nil {
		t.Fatalf("notes should be cleared")
	}
	if updated.WarrantyMonths != 12 || !updated.WarrantyEndDate.Equal(created.PurchaseDate.Add(12*30*24*time.Hour)) {
		t.Fatalf("months/end date after update: %+v", updated)
	}
	if updated.Store == nil || *updated.Store != "Darty" {
		t.Fatalf("store should be retained: %+v", updated.Store)
	}

	resp, raw = s.do(t, http.MethodPost, "/api/v1/warranties/"+created.ID.String()+"/receipt", "alice", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("receipt: status %d body %s", resp.StatusCode, raw)
	}
	withReceipt := decodeWarranty(t, raw)
	wantURL := fmt.Sprintf("/uploads/alice/%s.jpg", created.ID)
	if withReceipt.ReceiptURL == nil || *withReceipt.ReceiptURL != wantURL {
		t.Fatalf("receipt url %+v, want %s", withReceipt.ReceiptURL, wantURL)
	}

	resp, _ = s.do(t, http.MethodDelete, "/api/v1/warranties/"+created.ID.String(), "alice", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp, raw = s.do(t, http.MethodGet, "/api/v1/warranties/"+created.ID.String(), "alice", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: status %d", resp.StatusCode)
	}
	if env := decodeError(t, raw); env.Error != "not_found" || env.Message != "Warranty not found" {
		t.Fatalf("error envelope: %+v", env)
	}
}

func TestWarrantyOwnerIsolationOverHTTP(t *testing.T) {
	s := newAPITestServer(t, 0)

	_, raw := s.do(t, http.MethodPost, "/api/v1/warranties", "alice",
		`{"product_name":"Bike","category":"sports","purchase_date":"2026-05-01T00:00:00Z"}`)
	created := decodeWarranty(t, raw)

	for _, probe := range []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/warranties/" + created.ID.String(), ""},
		{http.MethodPut, "/api/v1/warranties/" + created.ID.String(), `{"product_name":"Stolen"}`},
		{http.MethodDelete, "/api/v1/warranties/" + created.ID.String(), ""},
		{http.MethodPost, "/api/v1/warranties/" + created.ID.String() + "/receipt", ""},
	} {
		resp, _ := s.do(t, probe.method, probe.path, "mallory", probe.body)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s %s as foreign user: status %d, want 404", probe.method, probe.path, resp.StatusCode)
		}
	}

	resp, raw := s.do(t, http.MethodGet, "/api/v1/warranties", "mallory", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	var list struct {
		Warranties []domain.Warranty `json:"warranties"`
		Total      int64             `json:"total"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 0 || len(list.Warranties) != 0 {
		t.Fatalf("foreign listing should be empty: %+v", list)
	}
}

func TestPublicEndpoints(t *testing.T) {
	s := newAPITestServer(t, 0)

	resp, raw := s.do(t, http.MethodGet, "/health", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d", resp.StatusCode)
	}
	var health struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.Unmarshal(raw, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "healthy" || health.Service != "garry-api" {
		t.Fatalf("health body: %+v", health)
	}

	resp, raw = s.do(t, http.MethodGet, "/api/v1/categories", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categories: status %d", resp.StatusCode)
	}
	var cats []domain.CategoryInfo
	if err := json.Unmarshal(raw, &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(cats))
	}
}

func TestStatsOverHTTP(t *testing.T) {
	s := newAPITestServer(t, 0)
	now := time.Now().UTC()
	for _, ageDays := range []int{800, 710, 30} {
		body := fmt.Sprintf(`{"product_name":"Item","category":"other","purchase_date":%q,"warranty_months":24}`,
			now.Add(-time.Duration(ageDays)*24*time.Hour).Format(time.RFC3339))
		resp, raw := s.do(t, http.MethodPost, "/api/v1/warranties", "alice", body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed: status %d body %s", resp.StatusCode, raw)
		}
	}

	resp, raw := s.do(t, http.MethodGet, "/api/v1/stats", "alice", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status %d", resp.StatusCode)
	}
	var stats domain.WarrantyStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 3 || stats.Active != 2 || stats.ExpiringSoon != 1 || stats.Expired != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}
