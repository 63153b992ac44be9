package persistence

import (
	"context"
	"time"

	"github.com/creditline/backend/internal/domain/partner"
	"github.com/creditline/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository stores customers in the customers table
type GormCustomerRepository struct {
	db *gorm.DB
}

// customerError maps driver errors to the partner sentinels
func customerError(err error) error {
	return translateError(err, partner.ErrCustomerNotFound, partner.ErrDuplicateCustomer)
}

// NewGormCustomerRepository creates a customer repository on db
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Insert assigns the ID and timestamps. A taken national ID or email is
// partner.ErrDuplicateCustomer.
func (r *GormCustomerRepository) Insert(ctx context.Context, customer *partner.Customer) (*partner.StoredCustomer, error) {
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, customerError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.StoredCustomer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, customerError(err)
	}
	return model.ToDomain(), nil
}

// Update saves the mutable fields of a customer. National ID, email and
// password are never touched here.
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.StoredCustomer) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"first_name": customer.FirstName,
			"last_name":  customer.LastName,
			"income":     customer.Income,
			"zip_code":   customer.Address.ZipCode,
			"street":     customer.Address.Street,
			"updated_at": now,
		})
	if result.Error != nil {
		return customerError(result.Error)
	}
	if result.RowsAffected == 0 {
		return partner.ErrCustomerNotFound
	}
	customer.UpdatedAt = now
	return nil
}

// Delete removes a customer and their credits in one transaction. The
// credits go first so SQLite, which has no ON DELETE CASCADE without the
// foreign_keys pragma, behaves like PostgreSQL.
func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CreditModel{}, "customer_id = ?", id).Error; err != nil {
			return err
		}
		switch res := tx.Delete(&models.CustomerModel{}, "id = ?", id); {
		case res.Error != nil:
			return res.Error
		case res.RowsAffected == 0:
			return partner.ErrCustomerNotFound
		}
		return nil
	})
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
