package partner

import (
	"context"

	"github.com/creditline/backend/internal/domain/partner"
	"github.com/creditline/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerService handles customer registration and maintenance
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create registers a new customer. Uniqueness of national ID and email is
// left to the store and surfaces as ErrDuplicateCustomer.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	income := decimal.Zero
	if req.Income != nil {
		income = *req.Income
	}

	customer, err := partner.NewCustomer(
		req.FirstName,
		req.LastName,
		req.NationalID,
		req.Email,
		req.Password,
		income,
		partner.Address{ZipCode: req.ZipCode, Street: req.Street},
	)
	if err != nil {
		return nil, err
	}

	stored, err := s.customerRepo.Insert(ctx, customer)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Customer registered", zap.Int64("customer_id", stored.ID))

	resp := ToCustomerResponse(stored)
	return &resp, nil
}

// FindByID returns the stored customer or partner.ErrCustomerNotFound
func (s *CustomerService) FindByID(ctx context.Context, id int64) (*partner.StoredCustomer, error) {
	return s.customerRepo.FindByID(ctx, id)
}

// GetByID returns the customer as a response DTO
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Update applies a partial update. Fields left nil keep their value.
func (s *CustomerService) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := customer.Apply(partner.CustomerUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Income:    req.Income,
		ZipCode:   req.ZipCode,
		Street:    req.Street,
	}); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes the customer together with their credits
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L(ctx).Info("Customer deleted", zap.Int64("customer_id", id))
	return nil
}
