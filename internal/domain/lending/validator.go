package lending

import (
	"strings"
	"time"

	"github.com/creditline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Limits applied to every credit request
const (
	MinInstallments = 1
	MaxInstallments = 48

	// FirstInstallmentWindowMonths bounds how far ahead the first installment
	// may be scheduled. The boundary day itself is outside the window.
	FirstInstallmentWindowMonths = 3
)

// Rule names a business rule a credit request must satisfy
type Rule string

const (
	RuleNonNegativeValue    Rule = "non_negative_value"
	RuleInstallmentRange    Rule = "installment_range"
	RuleFirstInstallmentDue Rule = "first_installment_in_future"
	RuleFirstInstallmentMax Rule = "first_installment_within_window"
)

// CreditRequest is the caller-supplied part of a credit
type CreditRequest struct {
	Value                decimal.Decimal
	FirstInstallment     time.Time
	NumberOfInstallments int
}

// Violation records one failed rule
type Violation struct {
	Rule    Rule
	Message string
}

// ValidationError lists every rule a credit request violated.
// It unwraps to a shared.DomainError with code VALIDATION_ERROR.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "Invalid credit request: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the taxonomy kind
func (e *ValidationError) Unwrap() error {
	return shared.NewDomainError(shared.CodeValidation, e.Error())
}

// Has reports whether the given rule was violated
func (e *ValidationError) Has(rule Rule) bool {
	for _, v := range e.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// Rules returns the violated rules in evaluation order
func (e *ValidationError) Rules() []Rule {
	rules := make([]Rule, len(e.Violations))
	for i, v := range e.Violations {
		rules[i] = v.Rule
	}
	return rules
}

// Validator checks credit requests against the lending rules.
// It is safe for concurrent use.
type Validator struct {
	clock shared.Clock
}

// NewValidator creates a validator reading "today" from clock
func NewValidator(clock shared.Clock) *Validator {
	return &Validator{clock: clock}
}

// Validate returns nil when the request is admissible, otherwise a
// *ValidationError listing all violated rules.
func (v *Validator) Validate(req CreditRequest) error {
	var violations []Violation

	if req.Value.IsNegative() {
		violations = append(violations, Violation{
			Rule:    RuleNonNegativeValue,
			Message: "credit value cannot be negative",
		})
	}

	if req.NumberOfInstallments < MinInstallments || req.NumberOfInstallments > MaxInstallments {
		violations = append(violations, Violation{
			Rule:    RuleInstallmentRange,
			Message: "number of installments must be between 1 and 48",
		})
	}

	today := shared.Today(v.clock)
	first := shared.DateOf(req.FirstInstallment)
	if !first.After(today) {
		violations = append(violations, Violation{
			Rule:    RuleFirstInstallmentDue,
			Message: "first installment must be a future date",
		})
	}
	if limit := shared.AddMonths(today, FirstInstallmentWindowMonths); !first.Before(limit) {
		violations = append(violations, Violation{
			Rule:    RuleFirstInstallmentMax,
			Message: "first installment must be within 3 months from today",
		})
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
