package lending

import (
	"fmt"
	"strings"
	"time"

	"github.com/creditline/backend/internal/domain/lending"
	"github.com/creditline/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date exchanged as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate wraps t as a calendar date
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("date must use the YYYY-MM-DD format: %w", err)
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// SubmitCreditRequest is the input of a credit submission.
// Business limits are enforced by the lending validator, not by binding tags.
type SubmitCreditRequest struct {
	CreditValue          *decimal.Decimal `json:"credit_value" binding:"required"`
	DayFirstInstallment  *Date            `json:"day_first_installment" binding:"required"`
	NumberOfInstallments int              `json:"number_of_installments"`
	CustomerID           int64            `json:"customer_id" binding:"required,gt=0"`
}

func (r SubmitCreditRequest) toDomain() lending.CreditRequest {
	req := lending.CreditRequest{NumberOfInstallments: r.NumberOfInstallments}
	if r.CreditValue != nil {
		req.Value = *r.CreditValue
	}
	if r.DayFirstInstallment != nil {
		req.FirstInstallment = r.DayFirstInstallment.Time
	}
	return req
}

// CreditResponse is the detailed view of one credit
type CreditResponse struct {
	CreditCode           uuid.UUID       `json:"credit_code"`
	CreditValue          decimal.Decimal `json:"credit_value"`
	DayFirstInstallment  Date            `json:"day_first_installment"`
	NumberOfInstallments int             `json:"number_of_installments"`
	Status               string          `json:"status"`
	CustomerID           int64           `json:"customer_id"`
	EmailCustomer        string          `json:"email_customer"`
	IncomeCustomer       decimal.Decimal `json:"income_customer"`
}

// CreditListItem is the summary view used when listing a customer's credits
type CreditListItem struct {
	CreditCode           uuid.UUID       `json:"credit_code"`
	CreditValue          decimal.Decimal `json:"credit_value"`
	NumberOfInstallments int             `json:"number_of_installments"`
}

// ToCreditResponse builds the detailed view from a credit and its owner
func ToCreditResponse(c *lending.StoredCredit, owner *partner.StoredCustomer) CreditResponse {
	return CreditResponse{
		CreditCode:           c.Code,
		CreditValue:          c.Value,
		DayFirstInstallment:  NewDate(c.FirstInstallment),
		NumberOfInstallments: c.NumberOfInstallments,
		Status:               c.Status.String(),
		CustomerID:           c.CustomerID,
		EmailCustomer:        owner.Email,
		IncomeCustomer:       owner.Income,
	}
}

// ToCreditListItems converts stored credits to summary views
func ToCreditListItems(credits []lending.StoredCredit) []CreditListItem {
	items := make([]CreditListItem, len(credits))
	for i := range credits {
		items[i] = CreditListItem{
			CreditCode:           credits[i].Code,
			CreditValue:          credits[i].Value,
			NumberOfInstallments: credits[i].NumberOfInstallments,
		}
	}
	return items
}
