package models

import (
	"time"

	"github.com/creditline/backend/internal/domain/lending"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// creditValueScale is the scale of credits.credit_value
const creditValueScale = 2

// CreditModel is the persistence model for the credits table
type CreditModel struct {
	BaseModel
	CreditCode           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_credits_credit_code"`
	CreditValue          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DayFirstInstallment  time.Time       `gorm:"type:date;not null"`
	NumberOfInstallments int             `gorm:"not null"`
	Status               string          `gorm:"type:varchar(20);not null;default:'IN_PROGRESS'"`
	CustomerID           int64           `gorm:"not null;index:idx_credits_customer_id"`
}

// TableName returns the table name for GORM
func (CreditModel) TableName() string {
	return "credits"
}

// ToDomain converts the persistence model to a stored credit.
// An unknown status in the table is surfaced as an error.
func (m *CreditModel) ToDomain() (*lending.StoredCredit, error) {
	status, err := lending.ParseCreditStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return &lending.StoredCredit{
		Record: m.BaseModel.ToDomain(),
		Credit: lending.Credit{
			Code:                 m.CreditCode,
			Value:                m.CreditValue,
			FirstInstallment:     dateOnly(m.DayFirstInstallment),
			NumberOfInstallments: m.NumberOfInstallments,
			Status:               status,
			CustomerID:           m.CustomerID,
		},
	}, nil
}

// CreditModelFromDomain creates a persistence model for a new credit
func CreditModelFromDomain(c *lending.Credit) *CreditModel {
	return &CreditModel{
		CreditCode:           c.Code,
		CreditValue:          c.Value.Round(creditValueScale),
		DayFirstInstallment:  c.FirstInstallment,
		NumberOfInstallments: c.NumberOfInstallments,
		Status:               c.Status.String(),
		CustomerID:           c.CustomerID,
	}
}

// Drivers return DATE columns in varying locations; normalise to UTC midnight.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
