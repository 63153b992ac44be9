package lending

import (
	"testing"
	"time"

	"github.com/creditline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredit(t *testing.T) {
	code := uuid.New()
	req := validRequest()
	req.FirstInstallment = time.Date(2026, 5, 20, 17, 45, 0, 0, time.UTC)

	credit := NewCredit(code, req, 42)

	assert.Equal(t, code, credit.Code)
	assert.True(t, credit.Value.Equal(req.Value))
	assert.Equal(t, time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC), credit.FirstInstallment)
	assert.Equal(t, 12, credit.NumberOfInstallments)
	assert.Equal(t, CreditStatusInProgress, credit.Status)
	assert.Equal(t, int64(42), credit.CustomerID)
	assert.True(t, credit.IsOwnedBy(42))
	assert.False(t, credit.IsOwnedBy(43))
}

func TestCreditStatus(t *testing.T) {
	t.Run("closed set", func(t *testing.T) {
		for _, s := range AllCreditStatuses() {
			assert.True(t, s.IsValid(), s.String())
		}
		assert.Len(t, AllCreditStatuses(), 3)
		assert.False(t, CreditStatus("CANCELLED").IsValid())
	})

	t.Run("final states", func(t *testing.T) {
		assert.False(t, CreditStatusInProgress.IsFinal())
		assert.True(t, CreditStatusApproved.IsFinal())
		assert.True(t, CreditStatusRejected.IsFinal())
	})

	t.Run("parse", func(t *testing.T) {
		s, err := ParseCreditStatus("APPROVED")
		require.NoError(t, err)
		assert.Equal(t, CreditStatusApproved, s)

		_, err = ParseCreditStatus("approved")
		assert.Error(t, err)
	})
}

func TestUUIDGenerator(t *testing.T) {
	gen := UUIDGenerator{}
	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 100; i++ {
		code := gen.NewCode()
		assert.NotEqual(t, uuid.Nil, code)
		assert.Equal(t, uuid.Version(4), code.Version())
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestParseCode(t *testing.T) {
	code := uuid.New()

	parsed, err := ParseCode(code.String())
	require.NoError(t, err)
	assert.Equal(t, code, parsed)

	_, err = ParseCode("not-a-uuid")
	assert.True(t, shared.IsNotFound(err))
}
