package lending

import (
	"context"
	"errors"

	"github.com/creditline/backend/internal/domain/lending"
	"github.com/creditline/backend/internal/domain/partner"
	"github.com/creditline/backend/internal/domain/shared"
	"github.com/creditline/backend/internal/infrastructure/logger"
	"github.com/creditline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CustomerFinder resolves the customer a credit belongs to
type CustomerFinder interface {
	FindByID(ctx context.Context, id int64) (*partner.StoredCustomer, error)
}

// CreditRecorder receives submission outcomes for metrics
type CreditRecorder interface {
	RecordSubmitted(ctx context.Context, status string, value decimal.Decimal)
	RecordRejected(ctx context.Context, rules []string)
}

type nopRecorder struct{}

func (nopRecorder) RecordSubmitted(context.Context, string, decimal.Decimal) {}
func (nopRecorder) RecordRejected(context.Context, []string)                 {}

// CreditService handles credit submission and lookup
type CreditService struct {
	creditRepo lending.CreditRepository
	customers  CustomerFinder
	validator  *lending.Validator
	codes      lending.CodeGenerator
	recorder   CreditRecorder
}

// NewCreditService creates a new CreditService
func NewCreditService(
	creditRepo lending.CreditRepository,
	customers CustomerFinder,
	validator *lending.Validator,
	codes lending.CodeGenerator,
) *CreditService {
	return &CreditService{
		creditRepo: creditRepo,
		customers:  customers,
		validator:  validator,
		codes:      codes,
		recorder:   nopRecorder{},
	}
}

// SetRecorder installs the metrics sink for submissions
func (s *CreditService) SetRecorder(r CreditRecorder) {
	if r == nil {
		r = nopRecorder{}
	}
	s.recorder = r
}

// Submit validates and stores a new credit for an existing customer.
// Nothing is written unless the customer exists and every rule passes.
func (s *CreditService) Submit(ctx context.Context, req SubmitCreditRequest) (*CreditResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "credit", "submit",
		attribute.Int64("customer.id", req.CustomerID),
	)
	defer span.End()
	ctx = logger.WithCustomerID(ctx, req.CustomerID)

	customer, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	creditReq := req.toDomain()
	if err := s.validator.Validate(creditReq); err != nil {
		var verr *lending.ValidationError
		if errors.As(err, &verr) {
			rules := make([]string, 0, len(verr.Violations))
			for _, r := range verr.Rules() {
				rules = append(rules, string(r))
			}
			s.recorder.RecordRejected(ctx, rules)
			logger.L(ctx).Info("Credit request rejected", zap.Strings("rules", rules))
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	credit := lending.NewCredit(s.codes.NewCode(), creditReq, customer.ID)
	stored, err := s.creditRepo.Insert(ctx, credit)
	if err != nil {
		telemetry.RecordError(span, err)
		if !shared.IsConflict(err) && !shared.IsNotFound(err) {
			logger.L(ctx).Error("Failed to store credit", zap.Error(err))
		}
		return nil, err
	}

	s.recorder.RecordSubmitted(ctx, stored.Status.String(), stored.Value)
	span.SetAttributes(attribute.String("credit.code", stored.Code.String()))
	logger.L(ctx).Info("Credit submitted", zap.String("credit_code", stored.Code.String()))

	resp := ToCreditResponse(stored, customer)
	return &resp, nil
}

// ListByCustomer returns the customer's credits in insertion order. An
// unknown customer simply has no credits.
func (s *CreditService) ListByCustomer(ctx context.Context, customerID int64) ([]CreditListItem, error) {
	credits, err := s.creditRepo.FindAllByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToCreditListItems(credits), nil
}

// FindByCode returns the credit only when it belongs to customerID. Unknown
// codes and codes owned by someone else fail with the same error.
func (s *CreditService) FindByCode(ctx context.Context, customerID int64, code uuid.UUID) (*CreditResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "credit", "find_by_code",
		attribute.Int64("customer.id", customerID),
	)
	defer span.End()

	credit, err := s.creditRepo.FindByCode(ctx, code)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, lending.ErrCreditNotFound
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !credit.IsOwnedBy(customerID) {
		return nil, lending.ErrCreditNotFound
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToCreditResponse(credit, customer)
	return &resp, nil
}
