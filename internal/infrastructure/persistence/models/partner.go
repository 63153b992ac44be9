package models

import (
	"github.com/creditline/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the customers table
type CustomerModel struct {
	BaseModel
	FirstName  string          `gorm:"type:varchar(100);not null"`
	LastName   string          `gorm:"type:varchar(100);not null"`
	NationalID string          `gorm:"column:national_id;type:varchar(20);not null;uniqueIndex:idx_customers_national_id"`
	Income     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Email      string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_customers_email"`
	Password   string          `gorm:"type:varchar(100);not null"`
	ZipCode    string          `gorm:"type:varchar(20);not null"`
	Street     string          `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a stored customer
func (m *CustomerModel) ToDomain() *partner.StoredCustomer {
	return &partner.StoredCustomer{
		Record: m.BaseModel.ToDomain(),
		Customer: partner.Customer{
			FirstName:    m.FirstName,
			LastName:     m.LastName,
			NationalID:   m.NationalID,
			Income:       m.Income,
			Email:        m.Email,
			PasswordHash: m.Password,
			Address: partner.Address{
				ZipCode: m.ZipCode,
				Street:  m.Street,
			},
		},
	}
}

// FromDomain populates the customer fields from a draft customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.NationalID = c.NationalID
	m.Income = c.Income
	m.Email = c.Email
	m.Password = c.PasswordHash
	m.ZipCode = c.Address.ZipCode
	m.Street = c.Address.Street
}

// CustomerModelFromDomain creates a persistence model for a new customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// StoredCustomerModelFromDomain creates a persistence model for an existing customer
func StoredCustomerModelFromDomain(c *partner.StoredCustomer) *CustomerModel {
	m := CustomerModelFromDomain(&c.Customer)
	m.FromDomainRecord(c.Record)
	return m
}
