package lending

import (
	"time"

	"github.com/creditline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditStatus represents where a credit is in its approval workflow
type CreditStatus string

const (
	CreditStatusInProgress CreditStatus = "IN_PROGRESS"
	CreditStatusApproved   CreditStatus = "APPROVED"
	CreditStatusRejected   CreditStatus = "REJECTED"
)

// AllCreditStatuses returns every status a credit can hold
func AllCreditStatuses() []CreditStatus {
	return []CreditStatus{CreditStatusInProgress, CreditStatusApproved, CreditStatusRejected}
}

// IsValid reports whether s is one of the known statuses
func (s CreditStatus) IsValid() bool {
	switch s {
	case CreditStatusInProgress, CreditStatusApproved, CreditStatusRejected:
		return true
	default:
		return false
	}
}

// IsFinal reports whether the workflow has finished for this status
func (s CreditStatus) IsFinal() bool {
	return s == CreditStatusApproved || s == CreditStatusRejected
}

// String returns the string representation
func (s CreditStatus) String() string {
	return string(s)
}

// ParseCreditStatus converts a stored value back into a CreditStatus
func ParseCreditStatus(v string) (CreditStatus, error) {
	s := CreditStatus(v)
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown credit status: "+v)
	}
	return s, nil
}

// Credit is a credit request that has passed validation but has not been
// persisted yet.
type Credit struct {
	Code                 uuid.UUID
	Value                decimal.Decimal
	FirstInstallment     time.Time
	NumberOfInstallments int
	Status               CreditStatus
	CustomerID           int64
}

// StoredCredit is a credit as loaded from the store
type StoredCredit struct {
	shared.Record
	Credit
}

// NewCredit builds a draft credit for an already validated request.
// Every new credit starts IN_PROGRESS.
func NewCredit(code uuid.UUID, req CreditRequest, customerID int64) *Credit {
	return &Credit{
		Code:                 code,
		Value:                req.Value,
		FirstInstallment:     shared.DateOf(req.FirstInstallment),
		NumberOfInstallments: req.NumberOfInstallments,
		Status:               CreditStatusInProgress,
		CustomerID:           customerID,
	}
}

// IsOwnedBy reports whether the credit belongs to the given customer
func (c *Credit) IsOwnedBy(customerID int64) bool {
	return c.CustomerID == customerID
}
