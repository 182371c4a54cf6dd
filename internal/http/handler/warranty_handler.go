package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/duscraft/garry/internal/domain"
	"github.com/duscraft/garry/internal/http/middleware"
	"github.com/duscraft/garry/internal/http/response"
	"github.com/duscraft/garry/internal/repository"
	"github.com/duscraft/garry/internal/service"
)

const (
	defaultExpiringDays = 30
	maxExpiringDays     = 365
	maxReceiptFormSize  = 6 * 1024 * 1024
)

type WarrantyHandler struct {
	repo       repository.WarrantyRepository
	receipts   service.ReceiptStorage
	statsCache service.StatsCache
	logger     *slog.Logger
}

func NewWarrantyHandler(repo repository.WarrantyRepository, receipts service.ReceiptStorage, statsCache service.StatsCache, logger *slog.Logger) *WarrantyHandler {
	return &WarrantyHandler{repo: repo, receipts: receipts, statsCache: statsCache, logger: logger}
}

type createWarrantyRequest struct {
	ProductName    string          `json:"product_name"`
	Brand          *string         `json:"brand"`
	Category       domain.Category `json:"category"`
	PurchaseDate   time.Time       `json:"purchase_date"`
	WarrantyMonths *int            `json:"warranty_months"`
	Store          *string         `json:"store"`
	Notes          *string         `json:"notes"`
}

type updateWarrantyRequest struct {
	ProductName    domain.Optional[string]          `json:"product_name"`
	Brand          domain.Optional[string]          `json:"brand"`
	Category       domain.Optional[domain.Category] `json:"category"`
	PurchaseDate   domain.Optional[time.Time]       `json:"purchase_date"`
	WarrantyMonths domain.Optional[int]             `json:"warranty_months"`
	Store          domain.Optional[string]          `json:"store"`
	Notes          domain.Optional[string]          `json:"notes"`
}

type warrantyListResponse struct {
	Warranties []domain.Warranty `json:"warranties"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

// validateWarrantyFields applies the per-field checks shared by create
// and update. The first violation fails the request.
func validateWarrantyFields(productName *string, brand, store, notes *string, months *int) string {
	if productName != nil {
		trimmed := strings.TrimSpace(*productName)
		if trimmed == "" {
			return "product_name is required"
		}
		if len(*productName) > 200 {
			return "product_name must be at most 200 characters"
		}
	}
	if brand != nil && len(*brand) > 100 {
		return "brand must be at most 100 characters"
	}
	if store != nil && len(*store) > 200 {
		return "store must be at most 200 characters"
	}
	if notes != nil && len(*notes) > 2000 {
		return "notes must be at most 2000 characters"
	}
	if months != nil && (*months < 1 || *months > 120) {
		return "warranty_months must be between 1 and 120"
	}
	return ""
}

func (h *WarrantyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid or missing authentication")
		return
	}

	var req createWarrantyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Sprintf("Invalid JSON: %v", err))
		return
	}
	if !req.Category.Valid() {
		response.BadRequest(w, "category is required")
		return
	}
	if req.PurchaseDate.IsZero() {
		response.BadRequest(w, "purchase_date is required")
		return
	}
	if msg := validateWarrantyFields(&req.ProductName, req.Brand, req.Store, req.Notes, req.WarrantyMonths); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	months := domain.EffectiveWarrantyMonths(req.WarrantyMonths, req.Category)
	warranty := &domain.Warranty{
		UserID:          userID,
		ProductName:     req.ProductName,
		Brand:           req.Brand,
		Category:        req.Category,
		PurchaseDate:    req.PurchaseDate,
		WarrantyMonths:  months,
		WarrantyEndDate: domain.WarrantyEndDate(req.PurchaseDate, months),
		Store:           req.Store,
		Notes:           req.Notes,
	}
	if err := h.repo.Create(r.Context(), warranty); err != nil {
		h.logger.Error("create warranty", "error", err)
		response.DatabaseError(w)
		return
	}
	h.invalidateStats(r, userID)
	response.JSON(w, http.StatusCreated, warranty)
}

func (h *WarrantyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid or missing authentication")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid warranty id")
		return
	}

	warranty, err := h.repo.FindByID(r.Context(), id, userID)
	if err != nil {
		h.writeRepoError(w, err, "get warranty")
		return
	}
	response.JSON(w, http.StatusOK, warranty)
}

func (h *WarrantyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid or missing authentication")
		return
	}

	q := repository.WarrantyListQuery{Status: strings.TrimSpace(r.URL.Query().Get("status"))}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			response.BadRequest(w, "Invalid category")
			return
		}
		q.Category = category
	}

	page, perPage, errMsg := parsePagination(r)
	if errMsg != "" {
		response.BadRequest(w, errMsg)
		return
	}
	q.PageRequest = repository.PageRequest{Page: page, PageSize: perPage}

	result, err := h.repo.ListPaged(r.Context(), userID, q)
	if err != nil {
		h.logger.Error("list warranties", "error", err)
		response.DatabaseError(w)
		return
	}
	response.JSON(w, http.StatusOK, warrantyListResponse{
		Warranties: result.Items,
		Total:      result.Total,
		Page:       result.Page,
		PerPage:    result.PageSize,
		TotalPages: result.TotalPages,
	})
}

// parsePagination resolves query parameters to page numbers. Explicit
// values clamp (page and per_page to at least 1, per_page to at most
// 100); absent values fall back to the repository defaults.
func parsePagination(r *http.Request) (page, perPage int, errMsg string) {
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, "page must be an integer"
		}
		if n < 1 {
			n = 1
		}
		page = n
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("per_page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, "per_page must be an integer"
		}
		if n < 1 {
			n = 1
		}
		if n > repository.MaxPageSize {
			n = repository.MaxPageSize
		}
		perPage = n
	}
	return page, perPage, ""
}

func (h *WarrantyHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid or missing authentication")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid warranty id")
		return
	}

	var req updateWarrantyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Sprintf("Invalid JSON: %v", err))
		return
	}
	if msg := validateWarrantyFields(req.ProductName.Ptr(), req.Brand.Ptr(), req.Store.Ptr(), req.Notes.Ptr(), req.WarrantyMonths.Ptr()); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	// Unguarded read-overlay-write; concurrent updates to the same row
	// are last-writer-wins.
	warranty, err := h.repo.FindByID(r.Context(), id, userID)
	if err != nil {
		h.writeRepoError(w, err, "load warranty for update")
		return
	}

	if req.ProductName.Set && req.ProductName.Valid {
		warranty.ProductName = req.ProductName.Value
	}
	if req.Category.Set && req.Category.Valid {
		warranty.Category = req.Category.Value
	}
	if req.PurchaseDate.Set && req.PurchaseDate.Valid {
		warranty.PurchaseDate = req.PurchaseDate.Value
	}
	if req.WarrantyMonths.Set && req.WarrantyMonths.Valid {
		warranty.WarrantyMonths = req.WarrantyMonths.Value
	}
	// Nullable fields: an explicit null clears, an absent key retains.
	if req.Brand.Set {
		warranty.Brand = req.Brand.Ptr()
	}
	if req.Store.Set {
		warranty.Store = req.Store.Ptr()
	}
	if req.Notes.Set {
		warranty.Notes = req.Notes.Ptr()
	}
	warranty.WarrantyEndDate = domain.WarrantyEndDate(warranty.PurchaseDate, warranty.WarrantyMonths)

	if err := h.repo.Update(r.Context(), warranty); err != nil {
		h.writeRepoError(w, err, "update warranty")
		return
	}
	updated, err := h.repo.FindByID(r.Context(), id, userID)
	if err != nil {
		h.writeRepoError(w, err, "reload warranty")
		return
	}
	h.invalidateStats(r, userID)
	response.JSON(w, http.StatusOK, updated)
}

func (h *WarrantyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid or missing authentication")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid warranty id")
		return
	}

	if err := h.repo.Delete(r.Context(), id, userID); err != nil {
		h.writeRepoError(w, err, "delete warranty")
		return
	}
	h.invalidateStats(r, userID)
	response.JSON(w, http.StatusNoContent, nil)
}

func (h *WarrantyHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid or missing authentication")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid warranty id")
		return
	}

	// Ownership check before touching storage.
	if _, err := h.repo.FindByID(r.Context(), id, userID); err != nil {
		h.writeRepoError(w, err, "load warranty for receipt")
		return
	}

	receiptURL, err := h.resolveReceiptURL(w, r, userID, id)
	if err != nil {
		return // response already written
	}

	if err := h.repo.SetReceiptURL(r.Context(), id, userID, receiptURL); err != nil {
		h.writeRepoError(w, err, "set receipt url")
		return
	}
	warranty, err := h.repo.FindByID(r.Context(), id, userID)
	if err != nil {
		h.writeRepoError(w, err, "reload warranty")
		return
	}
	h.invalidateStats(r, userID)
	response.JSON(w, http.StatusOK, warranty)
}

var errReceiptHandled = errors.New("receipt response already written")

// resolveReceiptURL stores an attached multipart file when present,
// otherwise falls back to the deterministic upload path the web tier
// serves. On failure the HTTP response has already been written.
func (h *WarrantyHandler) resolveReceiptURL(w http.ResponseWriter, r *http.Request, userID string, id uuid.UUID) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return fmt.Sprintf("/uploads/%s/%s.jpg", userID, id), nil
	}

	if err := r.ParseMultipartForm(maxReceiptFormSize); err != nil {
		response.BadRequest(w, "Invalid multipart body")
		return "", errReceiptHandled
	}
	file, header, err := r.FormFile("receipt")
	if err != nil {
		response.BadRequest(w, "receipt file is required")
		return "", errReceiptHandled
	}
	defer file.Close()

	url, err := h.receipts.StoreReceipt(r.Context(), userID, id, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, service.ErrFileTooBig) || errors.Is(err, service.ErrInvalidFileType) {
			response.BadRequest(w, err.Error())
			return "", errReceiptHandled
		}
		h.logger.Error("store receipt", "error", err)
		response.Error(w, http.StatusInternalServerError, response.CodeInternal, "Failed to store receipt")
		return "", errReceiptHandled
	}
	return url, nil
}

func (h *WarrantyHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid or missing authentication")
		return
	}

	days := defaultExpiringDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "days must be an integer")
			return
		}
		days = n
	}
	if days < 1 {
		days = 1
	}
	if days > maxExpiringDays {
		days = maxExpiringDays
	}

	items, err := h.repo.ListExpiring(r.Context(), userID, days)
	if err != nil {
		h.logger.Error("list expiring warranties", "error", err)
		response.DatabaseError(w)
		return
	}
	// Single page covering every match; no pagination here.
	response.JSON(w, http.StatusOK, map[string]any{
		"warranties": items,
		"total":      len(items),
	})
}

func (h *WarrantyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid or missing authentication")
		return
	}

	if cached, hit, err := h.statsCache.Get(r.Context(), userID); err == nil && hit {
		response.JSON(w, http.StatusOK, cached)
		return
	} else if err != nil {
		h.logger.Warn("stats cache get", "error", err)
	}

	stats, err := h.repo.Stats(r.Context(), userID)
	if err != nil {
		h.logger.Error("warranty stats", "error", err)
		response.DatabaseError(w)
		return
	}
	if err := h.statsCache.Set(r.Context(), userID, stats); err != nil {
		h.logger.Warn("stats cache set", "error", err)
	}
	response.JSON(w, http.StatusOK, stats)
}

func (h *WarrantyHandler) invalidateStats(r *http.Request, userID string) {
	if err := h.statsCache.Invalidate(r.Context(), userID); err != nil {
		h.logger.Warn("stats cache invalidate", "error", err)
	}
}

func (h *WarrantyHandler) writeRepoError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, repository.ErrWarrantyNotFound) {
		response.NotFound(w, "Warranty not found")
		return
	}
	h.logger.Error(op, "error", err)
	response.DatabaseError(w)
}
