package partner

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/creditline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
var bcryptCost = bcrypt.DefaultCost

// Address is the customer's postal address
type Address struct {
	ZipCode string
	Street  string
}

// Customer is a customer registration that has not been persisted yet.
// It carries no identifier; the store assigns one on insert.
type Customer struct {
	FirstName    string
	LastName     string
	NationalID   string // unique, never changes after registration
	Income       decimal.Decimal
	Email        string
	PasswordHash string
	Address      Address
}

// StoredCustomer is a customer as loaded from the store
type StoredCustomer struct {
	shared.Record
	Customer
}

// CustomerUpdate describes a partial update. Nil fields are left untouched.
type CustomerUpdate struct {
	FirstName *string
	LastName  *string
	Income    *decimal.Decimal
	ZipCode   *string
	Street    *string
}

// NewCustomer validates the registration data and hashes the password
func NewCustomer(firstName, lastName, nationalID, email, password string, income decimal.Decimal, address Address) (*Customer, error) {
	if err := validateName("first name", firstName); err != nil {
		return nil, err
	}
	if err := validateName("last name", lastName); err != nil {
		return nil, err
	}
	if err := validateNationalID(nationalID); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateIncome(income); err != nil {
		return nil, err
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &Customer{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		NationalID:   nationalID,
		Income:       income,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Address:      address,
	}, nil
}

// FullName returns first and last name joined by a space
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CheckPassword reports whether password matches the stored hash
func (c *Customer) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// Apply validates and applies a partial update to the stored customer.
// National ID and email are not updatable.
func (c *StoredCustomer) Apply(u CustomerUpdate) error {
	next := c.Customer
	if u.FirstName != nil {
		if err := validateName("first name", *u.FirstName); err != nil {
			return err
		}
		next.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		if err := validateName("last name", *u.LastName); err != nil {
			return err
		}
		next.LastName = strings.TrimSpace(*u.LastName)
	}
	if u.Income != nil {
		if err := validateIncome(*u.Income); err != nil {
			return err
		}
		next.Income = *u.Income
	}
	if u.ZipCode != nil {
		next.Address.ZipCode = *u.ZipCode
	}
	if u.Street != nil {
		next.Address.Street = *u.Street
	}
	if err := validateAddress(next.Address); err != nil {
		return err
	}

	c.Customer = next
	return nil
}

// HashPassword hashes a plain-text password with bcrypt
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) > 72 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer "+field+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Customer "+field+" cannot exceed 100 characters")
	}
	return nil
}

func validateNationalID(id string) error {
	if id == "" {
		return shared.NewDomainError("INVALID_NATIONAL_ID", "National ID cannot be empty")
	}
	if len(id) > 20 {
		return shared.NewDomainError("INVALID_NATIONAL_ID", "National ID cannot exceed 20 characters")
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return shared.NewDomainError("INVALID_NATIONAL_ID", "National ID can only contain digits")
		}
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateIncome(income decimal.Decimal) error {
	if income.IsNegative() {
		return shared.NewDomainError("INVALID_INCOME", "Income cannot be negative")
	}
	return nil
}

func validateAddress(a Address) error {
	if strings.TrimSpace(a.ZipCode) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Zip code cannot be empty")
	}
	if len(a.ZipCode) > 20 {
		return shared.NewDomainError("INVALID_ADDRESS", "Zip code cannot exceed 20 characters")
	}
	if strings.TrimSpace(a.Street) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street cannot be empty")
	}
	if len(a.Street) > 255 {
		return shared.NewDomainError("INVALID_ADDRESS", "Street cannot exceed 255 characters")
	}
	return nil
}
