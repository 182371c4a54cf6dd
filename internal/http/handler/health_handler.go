package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/duscraft/garry/internal/database"
)

const serviceVersion = "1.0.0"

type HealthHandler struct {
	db    *gorm.DB
	redis redis.UniversalClient // nil when not configured
}

func NewHealthHandler(db *gorm.DB, redisClient redis.UniversalClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]bool{
		"database": database.Ping(ctx, h.db) == nil,
	}
	if h.redis != nil {
		checks["redis"] = h.redis.Ping(ctx).Err() == nil
	}

	status := "healthy"
	httpStatus := http.StatusOK
	for _, ok := range checks {
		if !ok {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"service": "garry-api",
		"version": serviceVersion,
		"checks":  checks,
	})
}
