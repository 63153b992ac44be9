package lending

import (
	"context"

	"github.com/creditline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrCreditNotFound is returned both when a code is unknown and when it
// belongs to another customer, so callers cannot probe for codes.
var ErrCreditNotFound = shared.NewDomainError(shared.CodeNotFound, "Credit code not found")

// ErrDuplicateCreditCode is returned when a generated code is already taken
var ErrDuplicateCreditCode = shared.NewDomainError(shared.CodeAlreadyExists, "Credit code already exists")

// ErrCreditValueOutOfRange is returned when a value does not fit the
// stored precision
var ErrCreditValueOutOfRange = shared.NewDomainError(shared.CodeInvalidInput, "Credit value exceeds the supported range")

// CreditRepository defines the interface for credit persistence
type CreditRepository interface {
	// Insert persists a new credit and returns it with its assigned ID.
	// A duplicate code yields shared.ErrAlreadyExists
	Insert(ctx context.Context, credit *Credit) (*StoredCredit, error)

	// FindByCode finds a credit by its code, or shared.ErrNotFound
	FindByCode(ctx context.Context, code uuid.UUID) (*StoredCredit, error)

	// FindAllByCustomerID returns the customer's credits in insertion order
	FindAllByCustomerID(ctx context.Context, customerID int64) ([]StoredCredit, error)
}
