package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHealthCheckHealthy(t *testing.T) {
	env := newHandlerTestEnv(t)
	h := NewHealthHandler(env.db, nil)

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Status  string          `json:"status"`
		Service string          `json:"service"`
		Version string          `json:"version"`
		Checks  map[string]bool `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" || body.Service != "garry-api" {
		t.Fatalf("body %+v", body)
	}
	if !body.Checks["database"] {
		t.Fatalf("database check should pass: %+v", body.Checks)
	}
	if _, present := body.Checks["redis"]; present {
		t.Fatalf("redis check should be absent when redis is not configured")
	}
}

func TestHealthCheckRedisDown(t *testing.T) {
	env := newHandlerTestEnv(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := NewHealthHandler(env.db, client)

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("with redis up: status %d", rec.Code)
	}

	mr.Close()
	rec = httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("with redis down: status %d, want 503", rec.Code)
	}
	var body struct {
		Status string          `json:"status"`
		Checks map[string]bool `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "unhealthy" || body.Checks["redis"] {
		t.Fatalf("body %+v", body)
	}
}
