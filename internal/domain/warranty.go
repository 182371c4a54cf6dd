package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Warranty is one purchased item's warranty record. Every read and
// write is scoped to UserID; ownership never changes after creation.
type Warranty struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string    `gorm:"size:255;index;not null" json:"user_id"`
	ProductName     string    `gorm:"size:200;not null" json:"product_name"`
	Brand           *string   `gorm:"size:100" json:"brand"`
	Category        Category  `gorm:"size:32;index;not null" json:"category"`
	PurchaseDate    time.Time `gorm:"index;not null" json:"purchase_date"`
	WarrantyEndDate time.Time `gorm:"index;not null" json:"warranty_end_date"`
	WarrantyMonths  int       `gorm:"not null" json:"warranty_months"`
	Store           *string   `gorm:"size:200" json:"store"`
	ReceiptURL      *string   `gorm:"size:512" json:"receipt_url"`
	Notes           *string   `gorm:"size:2000" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (w *Warranty) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WarrantyEndDate derives the expiration instant from the purchase
// instant and a month count. Months convert at a fixed 30 days each;
// the wire contract depends on this convention, so it must not be
// replaced with calendar month arithmetic.
func WarrantyEndDate(purchaseDate time.Time, months int) time.Time {
	return purchaseDate.Add(time.Duration(months) * 30 * 24 * time.Hour)
}

// EffectiveWarrantyMonths returns the explicit month count when given,
// otherwise the category default.
func EffectiveWarrantyMonths(explicit *int, category Category) int {
	if explicit != nil {
		return *explicit
	}
	return category.DefaultWarrantyMonths()
}

// WarrantyStats holds the per-owner aggregate counts. Active and
// expiring-soon overlap: expiring-soon is a subset of active.
type WarrantyStats struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	ExpiringSoon int64 `json:"expiring_soon"`
	Expired      int64 `json:"expired"`
}
