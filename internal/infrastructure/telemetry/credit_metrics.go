package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const creditMeterName = "github.com/creditline/backend/credit"

// Attribute keys shared by the credit instruments.
var (
	AttrRule       = attribute.Key("rule")
	AttrCreditStat = attribute.Key("credit.status")
)

// AmountBuckets are histogram boundaries for requested credit values.
var AmountBuckets = []float64{500, 1000, 5000, 10000, 25000, 50000, 100000, 250000, 500000, 1000000}

// CreditMetrics holds the instruments recorded by credit submission
type CreditMetrics struct {
	submitted metric.Int64Counter
	rejected  metric.Int64Counter
	amount    metric.Float64Histogram
}

// NewCreditMetrics creates the credit instruments on meter
func NewCreditMetrics(meter metric.Meter) (*CreditMetrics, error) {
	submitted, err := meter.Int64Counter("credit_requests_submitted_total",
		metric.WithDescription("Credit requests accepted and stored"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create submitted counter: %w", err)
	}
	rejected, err := meter.Int64Counter("credit_requests_rejected_total",
		metric.WithDescription("Credit requests rejected by a validation rule"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create rejected counter: %w", err)
	}
	amount, err := meter.Float64Histogram("credit_request_value",
		metric.WithDescription("Requested value of accepted credits"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(AmountBuckets...))
	if err != nil {
		return nil, fmt.Errorf("failed to create value histogram: %w", err)
	}

	return &CreditMetrics{submitted: submitted, rejected: rejected, amount: amount}, nil
}

// NewCreditMetricsFromProvider uses the service meter of p
func NewCreditMetricsFromProvider(p *Providers) (*CreditMetrics, error) {
	return NewCreditMetrics(p.Meter(creditMeterName))
}

// RecordSubmitted counts a stored credit and its value
func (m *CreditMetrics) RecordSubmitted(ctx context.Context, status string, value decimal.Decimal) {
	m.submitted.Add(ctx, 1, metric.WithAttributes(AttrCreditStat.String(status)))
	m.amount.Record(ctx, value.InexactFloat64())
}

// RecordRejected counts one rejection per violated rule
func (m *CreditMetrics) RecordRejected(ctx context.Context, rules []string) {
	for _, rule := range rules {
		m.rejected.Add(ctx, 1, metric.WithAttributes(AttrRule.String(rule)))
	}
}
