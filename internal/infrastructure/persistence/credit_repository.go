package persistence

import (
	"context"
	"fmt"

	"github.com/creditline/backend/internal/domain/lending"
	"github.com/creditline/backend/internal/domain/partner"
	"github.com/creditline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCreditRepository stores credits in the credits table
type GormCreditRepository struct {
	db *gorm.DB
}

func creditError(err error) error {
	return translateError(err, lending.ErrCreditNotFound, lending.ErrDuplicateCreditCode)
}

// NewGormCreditRepository creates a credit repository on db
func NewGormCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

// Insert persists a new credit. A foreign key failure means the owner was
// deleted after it was resolved and is reported as a missing customer. The
// returned value is rounded to the column scale like the stored row.
func (r *GormCreditRepository) Insert(ctx context.Context, credit *lending.Credit) (*lending.StoredCredit, error) {
	model := models.CreditModelFromDomain(credit)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		switch {
		case isForeignKeyViolation(err):
			return nil, partner.ErrCustomerNotFound
		case isNumericOverflow(err):
			return nil, lending.ErrCreditValueOutOfRange
		}
		return nil, creditError(err)
	}
	return toStoredCredit(model)
}

// FindByCode finds a credit by its code regardless of owner
func (r *GormCreditRepository) FindByCode(ctx context.Context, code uuid.UUID) (*lending.StoredCredit, error) {
	var model models.CreditModel
	if err := r.db.WithContext(ctx).First(&model, "credit_code = ?", code).Error; err != nil {
		return nil, creditError(err)
	}
	return toStoredCredit(&model)
}

// FindAllByCustomerID returns the customer's credits in insertion order
func (r *GormCreditRepository) FindAllByCustomerID(ctx context.Context, customerID int64) ([]lending.StoredCredit, error) {
	var rows []models.CreditModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	credits := make([]lending.StoredCredit, 0, len(rows))
	for i := range rows {
		credit, err := toStoredCredit(&rows[i])
		if err != nil {
			return nil, err
		}
		credits = append(credits, *credit)
	}
	return credits, nil
}

func toStoredCredit(m *models.CreditModel) (*lending.StoredCredit, error) {
	credit, err := m.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("credit %d: %w", m.ID, err)
	}
	return credit, nil
}

var _ lending.CreditRepository = (*GormCreditRepository)(nil)
