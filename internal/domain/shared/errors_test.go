package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches by code regardless of message", func(t *testing.T) {
		err := NewDomainError(CodeNotFound, "Customer not found")

		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrAlreadyExists))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading credit: %w", NewDomainError(CodeAlreadyExists, "dup"))

		assert.True(t, IsConflict(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("plain errors do not match", func(t *testing.T) {
		err := errors.New("NOT_FOUND")

		assert.False(t, IsNotFound(err))
		assert.False(t, IsValidation(err))
	})
}

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("SOME_CODE", "something happened")
	assert.Equal(t, "something happened", err.Error())
}
