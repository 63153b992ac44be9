package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type scopeKey struct{}

// scope is the request-scoped logging state carried by a context
type scope struct {
	log        *zap.Logger
	requestID  string
	customerID int64
}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func withScope(ctx context.Context, update func(*scope)) context.Context {
	s := scopeOf(ctx)
	update(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return withScope(ctx, func(s *scope) { s.log = logger })
}

// FromContext returns the attached logger, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l := scopeOf(ctx).log; l != nil {
		return l
	}
	return zap.NewNop()
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withScope(ctx, func(s *scope) { s.requestID = requestID })
}

func GetRequestID(ctx context.Context) string {
	return scopeOf(ctx).requestID
}

// WithCustomerID tags later entries with the customer the request acts on
func WithCustomerID(ctx context.Context, customerID int64) context.Context {
	return withScope(ctx, func(s *scope) { s.customerID = customerID })
}

func GetCustomerID(ctx context.Context) int64 {
	return scopeOf(ctx).customerID
}

// L returns the context logger with trace_id, span_id, request_id and
// customer_id added when ctx carries them.
//
//	logger.L(ctx).Info("Credit submitted", zap.String("credit_code", code))
func L(ctx context.Context) *zap.Logger {
	return WithLogger(ctx, FromContext(ctx))
}

// WithLogger is L with base in place of the attached logger
func WithLogger(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}

	var fields []zap.Field
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.Stringer("trace_id", sc.TraceID()),
			zap.Stringer("span_id", sc.SpanID()),
		)
	}
	s := scopeOf(ctx)
	if s.requestID != "" {
		fields = append(fields, zap.String("request_id", s.requestID))
	}
	if s.customerID != 0 {
		fields = append(fields, zap.Int64("customer_id", s.customerID))
	}

	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
