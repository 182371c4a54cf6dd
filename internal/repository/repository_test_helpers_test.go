package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/duscraft/garry/internal/domain"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Warranty{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func testWarranty(userID string, category domain.Category, purchase time.Time, months int) *domain.Warranty {
	return &domain.Warranty{
		UserID:          userID,
		ProductName:     "Test Product",
		Category:        category,
		PurchaseDate:    purchase,
		WarrantyMonths:  months,
		WarrantyEndDate: domain.WarrantyEndDate(purchase, months),
	}
}
