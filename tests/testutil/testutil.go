// Package testutil holds fixtures and HTTP helpers shared by handler,
// application and integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/creditline/backend/internal/domain/partner"
	"github.com/creditline/backend/internal/infrastructure/persistence"
	"github.com/creditline/backend/internal/infrastructure/persistence/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// FixedNow is the instant clock-dependent tests run at: 2026-05-10 14:30 UTC
var FixedNow = time.Date(2026, 5, 10, 14, 30, 0, 0, time.UTC)

// DaysFrom formats the calendar date n days after t as YYYY-MM-DD
func DaysFrom(t time.Time, n int) string {
	return t.AddDate(0, 0, n).Format("2006-01-02")
}

// NewSQLiteDB opens an in-memory database holding the customer and credit
// tables. It is pinned to one connection since each new connection to
// ":memory:" sees an empty database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig(logger.Discard))
	require.NoError(t, err, "Failed to open sqlite")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.CustomerModel{}, &models.CreditModel{}))
	return db
}

// CustomerFixture returns an unsaved customer whose national ID and email
// are derived from seed
func CustomerFixture(seed string) *partner.Customer {
	return &partner.Customer{
		FirstName:    "Ana",
		LastName:     "Souza",
		NationalID:   "1000000" + seed,
		Income:       decimal.NewFromInt(8000),
		Email:        "customer" + seed + "@example.com",
		PasswordHash: "$2a$10$fixture",
		Address:      partner.Address{ZipCode: "01310-100", Street: "Avenida Paulista"},
	}
}

// SeedCustomer inserts CustomerFixture(seed)
func SeedCustomer(t *testing.T, db *gorm.DB, seed string) *partner.StoredCustomer {
	t.Helper()

	stored, err := persistence.NewGormCustomerRepository(db).Insert(context.Background(), CustomerFixture(seed))
	require.NoError(t, err, "Failed to seed customer")
	return stored
}
