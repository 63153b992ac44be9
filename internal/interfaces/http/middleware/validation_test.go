package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/creditline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationInput struct {
	NationalID string `json:"national_id" binding:"required,national_id"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req registrationInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	})
	return router
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	router := newValidationRouter()

	t.Run("names fields by json tag", func(t *testing.T) {
		body := strings.NewReader(`{"national_id": "12a", "email": "invalid", "password": "abc"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDHeader, "req-validation")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-validation", resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be 1 to 20 digits", fields["national_id"])
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "Must be at least 6 characters", fields["password"])
	})

	t.Run("returns success for valid input", func(t *testing.T) {
		body := strings.NewReader(`{"national_id": "12345678901", "email": "test@example.com", "password": "secret1"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestNationalIDTag(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("national_id", validateNationalID))

	tests := []struct {
		value string
		valid bool
	}{
		{"1", true},
		{"12345678901", true},
		{strings.Repeat("9", 20), true},
		{strings.Repeat("9", 21), false},
		{"", false},
		{"123.456.789-01", false},
		{"１２３", false},
	}
	for _, tt := range tests {
		err := v.Var(tt.value, "national_id")
		if tt.valid {
			assert.NoError(t, err, tt.value)
		} else {
			assert.Error(t, err, tt.value)
		}
	}
}

func TestGetValidationMessage(t *testing.T) {
	type input struct {
		Required string `validate:"required"`
		Email    string `validate:"omitempty,email"`
		Min      string `validate:"min=5"`
		Max      string `validate:"max=3"`
		GT       int    `validate:"gt=0"`
	}

	v := validator.New()
	err := v.Struct(input{Email: "invalid", Min: "ab", Max: "toolong"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	got := map[string]string{}
	for _, e := range verrs {
		got[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, "This field is required", got["Required"])
	assert.Equal(t, "Invalid email format", got["Email"])
	assert.Equal(t, "Must be at least 5 characters", got["Min"])
	assert.Equal(t, "Must be at most 3 characters", got["Max"])
	assert.Equal(t, "Must be greater than 0", got["GT"])
}
