package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/duscraft/garry/internal/database"
	"github.com/duscraft/garry/internal/domain"
	"github.com/duscraft/garry/internal/http/handler"
	"github.com/duscraft/garry/internal/http/middleware"
	"github.com/duscraft/garry/internal/http/router"
	"github.com/duscraft/garry/internal/repository"
	"github.com/duscraft/garry/internal/security"
	"github.com/duscraft/garry/internal/service"
)

const integrationJWTSecret = "integration-test-secret"

type testServer struct {
	baseURL string
	client  *http.Client
	jwt     *security.JWTManager
}

// newAPITestServer starts the full HTTP stack against an in-memory
// database, with rate limiting set to the given per-minute budget
// (0 disables it).
func newAPITestServer(t *testing.T, rateLimitPerMin int) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	jwtMgr := security.NewJWTManager(integrationJWTSecret)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewWarrantyRepository(db)
	warrantyHandler := handler.NewWarrantyHandler(repo, service.NewLocalReceiptStorage(), service.NewNoopStatsCache(), log)

	var rl *middleware.RateLimiter
	if rateLimitPerMin > 0 {
		rl = middleware.NewRateLimiter(
			middleware.NewLocalFixedWindowLimiter(),
			rateLimitPerMin,
			time.Minute,
			middleware.FailOpen,
			middleware.SubjectOrIPKeyFunc(jwtMgr),
		)
	}

	h := router.New(router.Dependencies{
		WarrantyHandler: warrantyHandler,
		CategoryHandler: handler.NewCategoryHandler(),
		HealthHandler:   handler.NewHealthHandler(db, nil),
		JWTManager:      jwtMgr,
		RateLimiter:     rl,
		CORSOrigins:     "*",
		Logger:          log,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testServer{baseURL: srv.URL, client: srv.Client(), jwt: jwtMgr}
}

func (s *testServer) token(t *testing.T, subject string) string {
	t.Helper()
	tok, err := s.jwt.Sign(subject, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, subject, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.baseURL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, subject))
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, raw []byte) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, raw)
	}
	return env
}

func decodeWarranty(t *testing.T, raw []byte) domain.Warranty {
	t.Helper()
	var w domain.Warranty
	if err := json.Unmarshal(raw, &w); err != nil {
		t.Fatalf("decode warranty: %v (body %s)", err, raw)
	}
	return w
}
