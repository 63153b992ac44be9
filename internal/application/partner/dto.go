package partner

import (
	"time"

	"github.com/creditline/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to register a customer
type CreateCustomerRequest struct {
	FirstName  string           `json:"first_name" binding:"required,max=100"`
	LastName   string           `json:"last_name" binding:"required,max=100"`
	NationalID string           `json:"national_id" binding:"required,national_id"`
	Income     *decimal.Decimal `json:"income" binding:"required"`
	Email      string           `json:"email" binding:"required,email,max=200"`
	Password   string           `json:"password" binding:"required,min=6,max=72"`
	ZipCode    string           `json:"zip_code" binding:"required,max=20"`
	Street     string           `json:"street" binding:"required,max=255"`
}

// UpdateCustomerRequest represents a partial update of a customer.
// National ID and email cannot be changed.
type UpdateCustomerRequest struct {
	FirstName *string          `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string          `json:"last_name" binding:"omitempty,min=1,max=100"`
	Income    *decimal.Decimal `json:"income"`
	ZipCode   *string          `json:"zip_code" binding:"omitempty,min=1,max=20"`
	Street    *string          `json:"street" binding:"omitempty,min=1,max=255"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID         int64           `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	NationalID string          `json:"national_id"`
	Income     decimal.Decimal `json:"income"`
	Email      string          `json:"email"`
	ZipCode    string          `json:"zip_code"`
	Street     string          `json:"street"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToCustomerResponse converts a stored customer to a response DTO
func ToCustomerResponse(c *partner.StoredCustomer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		NationalID: c.NationalID,
		Income:     c.Income,
		Email:      c.Email,
		ZipCode:    c.Address.ZipCode,
		Street:     c.Address.Street,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
