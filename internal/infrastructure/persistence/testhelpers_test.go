package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/creditline/backend/internal/domain/partner"
	"github.com/creditline/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory database with the credit schema
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(logger.Discard))
	require.NoError(t, err)

	// Every pooled connection would get its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.CustomerModel{}, &models.CreditModel{}))
	return db
}

// newMockDB puts the postgres dialect over sqlmock, for asserting SQL shape
// and driver error translation
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	// GormConfig prepares statements, which sqlmock would need to expect
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newTestCustomer(nationalID, email string) *partner.Customer {
	return &partner.Customer{
		FirstName:    "Ana",
		LastName:     "Souza",
		NationalID:   nationalID,
		Income:       decimal.NewFromInt(8000),
		Email:        email,
		PasswordHash: "$2a$04$hash",
		Address:      partner.Address{ZipCode: "01310-100", Street: "Avenida Paulista"},
	}
}
