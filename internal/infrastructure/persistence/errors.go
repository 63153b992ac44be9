package persistence

import (
	"errors"
	"strings"

	"github.com/creditline/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	numericOutOfRange   = "22003"
)

// pgCode returns the SQLSTATE carried by err, if any. It covers connections
// opened without TranslateError.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		pgCode(err) == uniqueViolation ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") // sqlite untranslated
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || pgCode(err) == foreignKeyViolation
}

// isNumericOverflow reports a value too large for its numeric column
func isNumericOverflow(err error) bool {
	return pgCode(err) == numericOutOfRange
}

// translateError maps driver errors to domain errors: notFound for missing
// rows, conflict for uniqueness violations. Anything else passes through.
func translateError(err error, notFound, conflict *shared.DomainError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case isDuplicateKey(err):
		return conflict
	default:
		return err
	}
}
