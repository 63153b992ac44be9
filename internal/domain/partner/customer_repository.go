package partner

import (
	"context"

	"github.com/creditline/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Insert persists a new customer and returns it with its assigned ID.
	// A duplicate national ID or email yields shared.ErrAlreadyExists
	Insert(ctx context.Context, customer *Customer) (*StoredCustomer, error)

	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id int64) (*StoredCustomer, error)

	// Update saves the mutable fields of a stored customer
	Update(ctx context.Context, customer *StoredCustomer) error

	// Delete removes a customer and, through the foreign key, its credits
	Delete(ctx context.Context, id int64) error
}

// Errors reported by customer persistence
var (
	ErrCustomerNotFound  = shared.NewDomainError(shared.CodeNotFound, "Customer not found")
	ErrDuplicateCustomer = shared.NewDomainError(shared.CodeAlreadyExists, "A customer with this national ID or email already exists")
)
