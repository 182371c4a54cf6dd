package handler

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

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/duscraft/garry/internal/domain"
	"github.com/duscraft/garry/internal/http/middleware"
	"github.com/duscraft/garry/internal/repository"
	"github.com/duscraft/garry/internal/security"
	"github.com/duscraft/garry/internal/service"
)

const testJWTSecret = "handler-test-secret"

type handlerTestEnv struct {
	router *chi.Mux
	repo   repository.WarrantyRepository
	jwt    *security.JWTManager
	db     *gorm.DB
}

func newHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Warranty{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := repository.NewWarrantyRepository(db)
	jwtMgr := security.NewJWTManager(testJWTSecret)
	h := NewWarrantyHandler(repo, service.NewLocalReceiptStorage(), service.NewNoopStatsCache(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthRequired(jwtMgr))
		r.Route("/api/v1/warranties", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/expiring", h.ListExpiring)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/receipt", h.UploadReceipt)
		})
		r.Get("/api/v1/stats", h.Stats)
	})
	return &handlerTestEnv{router: r, repo: repo, jwt: jwtMgr, db: db}
}

func (e *handlerTestEnv) token(t *testing.T, subject string) string {
	t.Helper()
	tok, err := e.jwt.Sign(subject, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func (e *handlerTestEnv) do(t *testing.T, method, target, subject string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(t, subject))
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeWarranty(t *testing.T, rec *httptest.ResponseRecorder) domain.Warranty {
	t.Helper()
	var w domain.Warranty
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode warranty: %v (body %s)", err, rec.Body.String())
	}
	return w
}

func createTestWarranty(t *testing.T, e *handlerTestEnv, subject, body string) domain.Warranty {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/warranties", subject, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	return decodeWarranty(t, rec)
}
