package partner

import (
	"context"
	"testing"
	"time"

	"github.com/creditline/backend/internal/domain/partner"
	"github.com/creditline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Insert(ctx context.Context, customer *partner.Customer) (*partner.StoredCustomer, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.StoredCustomer), args.Error(1)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.StoredCustomer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.StoredCustomer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *partner.StoredCustomer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func createTestStoredCustomer(id int64) *partner.StoredCustomer {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	return &partner.StoredCustomer{
		Record: shared.Record{ID: id, CreatedAt: now, UpdatedAt: now},
		Customer: partner.Customer{
			FirstName:    "Ana",
			LastName:     "Souza",
			NationalID:   "12345678901",
			Income:       decimal.NewFromInt(8000),
			Email:        "ana@example.com",
			PasswordHash: "$2a$10$hash",
			Address:      partner.Address{ZipCode: "01310-100", Street: "Avenida Paulista"},
		},
	}
}

func validCreateRequest() CreateCustomerRequest {
	income := decimal.NewFromInt(8000)
	return CreateCustomerRequest{
		FirstName:  "Ana",
		LastName:   "Souza",
		NationalID: "12345678901",
		Income:     &income,
		Email:      "Ana@Example.com",
		Password:   "s3cret!",
		ZipCode:    "01310-100",
		Street:     "Avenida Paulista",
	}
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and returns the stored customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		var inserted *partner.Customer
		repo.On("Insert", ctx, mock.AnythingOfType("*partner.Customer")).
			Run(func(args mock.Arguments) { inserted = args.Get(1).(*partner.Customer) }).
			Return(createTestStoredCustomer(1), nil)

		resp, err := svc.Create(ctx, validCreateRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "ana@example.com", inserted.Email)
		assert.NotEqual(t, "s3cret!", inserted.PasswordHash)
		assert.True(t, inserted.CheckPassword("s3cret!"))
		repo.AssertExpectations(t)
	})

	t.Run("invalid data never reaches the store", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		req := validCreateRequest()
		req.NationalID = "12a45"

		_, err := svc.Create(ctx, req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NATIONAL_ID", domainErr.Code)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("duplicate national id is a conflict", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		repo.On("Insert", ctx, mock.Anything).Return(nil, partner.ErrDuplicateCustomer)

		_, err := svc.Create(ctx, validCreateRequest())

		assert.True(t, shared.IsConflict(err))
	})
}

func TestCustomerService_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("FindByID", ctx, int64(1)).Return(createTestStoredCustomer(1), nil)

		customer, err := NewCustomerService(repo).FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Ana Souza", customer.FullName())
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("FindByID", ctx, int64(99)).Return(nil, partner.ErrCustomerNotFound)

		_, err := NewCustomerService(repo).GetByID(ctx, 99)

		assert.True(t, shared.IsNotFound(err))
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes only the provided fields", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		repo.On("FindByID", ctx, int64(1)).Return(createTestStoredCustomer(1), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*partner.StoredCustomer")).Return(nil)

		street := "Rua Augusta"
		income := decimal.NewFromInt(9500)
		resp, err := svc.Update(ctx, 1, UpdateCustomerRequest{Street: &street, Income: &income})

		require.NoError(t, err)
		assert.Equal(t, "Rua Augusta", resp.Street)
		assert.True(t, resp.Income.Equal(income))
		assert.Equal(t, "Ana", resp.FirstName)
		assert.Equal(t, "01310-100", resp.ZipCode)
		repo.AssertExpectations(t)
	})

	t.Run("rejected update is not saved", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		repo.On("FindByID", ctx, int64(1)).Return(createTestStoredCustomer(1), nil)

		negative := decimal.NewFromInt(-1)
		_, err := svc.Update(ctx, 1, UpdateCustomerRequest{Income: &negative})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("FindByID", ctx, int64(7)).Return(nil, partner.ErrCustomerNotFound)

		_, err := NewCustomerService(repo).Update(ctx, 7, UpdateCustomerRequest{})

		assert.ErrorIs(t, err, partner.ErrCustomerNotFound)
	})
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	repo.On("Delete", ctx, int64(1)).Return(nil)
	repo.On("Delete", ctx, int64(2)).Return(partner.ErrCustomerNotFound)
	svc := NewCustomerService(repo)

	assert.NoError(t, svc.Delete(ctx, 1))
	assert.True(t, shared.IsNotFound(svc.Delete(ctx, 2)))
}
