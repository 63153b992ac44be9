package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/creditline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// echoLength answers 200 with the number of bytes read, or 422 when the
// read was cut short by the limit
func echoLength(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.String(http.StatusUnprocessableEntity, "limit %d", tooLarge.Limit)
		return
	}
	c.String(http.StatusOK, "%d", len(data))
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name          string
		limit         int64
		body          string
		contentLength int64
		wantStatus    int
		wantBody      string
	}{
		{"declared size within limit", 64, `{"credit_value":"10"}`, 21, http.StatusOK, "21"},
		{"declared size equal to limit", 4, "abcd", 4, http.StatusOK, "4"},
		{"declared size above limit", 8, strings.Repeat("x", 20), 20, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge},
		{"undeclared body cut at the limit", 8, strings.Repeat("x", 20), -1, http.StatusUnprocessableEntity, "limit 8"},
		{"undeclared body within limit", 8, "abc", -1, http.StatusOK, "3"},
		{"limit disabled", 0, strings.Repeat("x", 20), 20, http.StatusOK, "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(BodyLimit(tt.limit))
			router.POST("/credits", echoLength)

			req := httptest.NewRequest(http.MethodPost, "/credits", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestBodyLimit_NoBody(t *testing.T) {
	router := gin.New()
	router.Use(BodyLimit(1))
	router.GET("/credits", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/credits", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
