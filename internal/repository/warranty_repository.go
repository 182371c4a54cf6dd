package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/duscraft/garry/internal/domain"
)

var ErrWarrantyNotFound = errors.New("warranty not found")

// Status filter values. Status is never stored; each value translates
// to a date-range predicate against warranty_end_date at query time.
const (
	StatusActive       = "active"
	StatusExpiringSoon = "expiring_soon"
	StatusExpired      = "expired"
)

const expiringSoonWindow = 30 * 24 * time.Hour

type WarrantyListQuery struct {
	PageRequest
	Category domain.Category // empty means no category filter
	Status   string          // empty or unknown means active
}

type WarrantyRepository interface {
	Create(ctx context.Context, w *domain.Warranty) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Warranty, error)
	ListPaged(ctx context.Context, userID string, q WarrantyListQuery) (PageResult[domain.Warranty], error)
	Update(ctx context.Context, w *domain.Warranty) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	ListExpiring(ctx context.Context, userID string, days int) ([]domain.Warranty, error)
	Stats(ctx context.Context, userID string) (*domain.WarrantyStats, error)
	SetReceiptURL(ctx context.Context, id uuid.UUID, userID, url string) error
}

type GormWarrantyRepository struct{ db *gorm.DB }

func NewWarrantyRepository(db *gorm.DB) WarrantyRepository {
	return &GormWarrantyRepository{db: db}
}

func (r *GormWarrantyRepository) Create(ctx context.Context, w *domain.Warranty) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *GormWarrantyRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Warranty, error) {
	var w domain.Warranty
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A row owned by someone else looks exactly like a missing row.
			return nil, ErrWarrantyNotFound
		}
		return nil, err
	}
	return &w, nil
}

// statusDateRange translates a status filter into the inclusive
// [start, end] window on warranty_end_date. Anything that is not
// expiring_soon or expired, including an absent filter, means active.
func statusDateRange(status string, now time.Time) (time.Time, *time.Time) {
	switch status {
	case StatusExpiringSoon:
		end := now.Add(expiringSoonWindow)
		return now, &end
	case StatusExpired:
		return time.Time{}, &now
	default:
		return now, nil
	}
}

func (r *GormWarrantyRepository) ListPaged(ctx context.Context, userID string, q WarrantyListQuery) (PageResult[domain.Warranty], error) {
	page := normalizePageRequest(q.PageRequest)
	now := time.Now().UTC()

	start, end := statusDateRange(q.Status, now)
	filtered := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&domain.Warranty{}).Where("user_id = ?", userID)
		if q.Category != "" {
			tx = tx.Where("category = ?", q.Category)
		}
		if !start.IsZero() {
			tx = tx.Where("warranty_end_date >= ?", start)
		}
		if end != nil {
			tx = tx.Where("warranty_end_date <= ?", *end)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return PageResult[domain.Warranty]{}, err
	}

	var items []domain.Warranty
	err := filtered().
		Order("warranty_end_date asc").Order("id asc").
		Limit(page.PageSize).
		Offset((page.Page - 1) * page.PageSize).
		Find(&items).Error
	if err != nil {
		return PageResult[domain.Warranty]{}, err
	}
	if items == nil {
		items = []domain.Warranty{}
	}

	return PageResult[domain.Warranty]{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: calcTotalPages(total, page.PageSize),
	}, nil
}

func (r *GormWarrantyRepository) Update(ctx context.Context, w *domain.Warranty) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Warranty{}).
		Where("id = ? AND user_id = ?", w.ID, w.UserID).
		Updates(map[string]any{
			"product_name":      w.ProductName,
			"brand":             w.Brand,
			"category":          w.Category,
			"purchase_date":     w.PurchaseDate,
			"warranty_end_date": w.WarrantyEndDate,
			"warranty_months":   w.WarrantyMonths,
			"store":             w.Store,
			"notes":             w.Notes,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWarrantyNotFound
	}
	return nil
}

func (r *GormWarrantyRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Warranty{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWarrantyNotFound
	}
	return nil
}

func (r *GormWarrantyRepository) ListExpiring(ctx context.Context, userID string, days int) ([]domain.Warranty, error) {
	now := time.Now().UTC()
	until := now.Add(time.Duration(days) * 24 * time.Hour)

	var items []domain.Warranty
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND warranty_end_date > ? AND warranty_end_date <= ?", userID, now, until).
		Order("warranty_end_date asc").Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Warranty{}
	}
	return items, nil
}

func (r *GormWarrantyRepository) Stats(ctx context.Context, userID string) (*domain.WarrantyStats, error) {
	now := time.Now().UTC()
	soon := now.Add(expiringSoonWindow)

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Warranty{}).Where("user_id = ?", userID)
	}

	var stats domain.WarrantyStats
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("warranty_end_date > ?", now).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := base().Where("warranty_end_date > ? AND warranty_end_date <= ?", now, soon).Count(&stats.ExpiringSoon).Error; err != nil {
		return nil, err
	}
	if err := base().Where("warranty_end_date <= ?", now).Count(&stats.Expired).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *GormWarrantyRepository) SetReceiptURL(ctx context.Context, id uuid.UUID, userID, url string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Warranty{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"receipt_url": url,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWarrantyNotFound
	}
	return nil
}
