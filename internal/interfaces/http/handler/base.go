package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/creditline/backend/internal/domain/lending"
	"github.com/creditline/backend/internal/domain/shared"
	"github.com/creditline/backend/internal/infrastructure/logger"
	"github.com/creditline/backend/internal/interfaces/http/dto"
	"github.com/creditline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	RequestIDKey    = middleware.RequestIDKey
	RequestIDHeader = middleware.RequestIDHeader
)

// BaseHandler writes the dto.Response envelope for the concrete handlers
type BaseHandler struct{}

// getRequestID looks in the gin context, then the request context, then
// the raw header
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := logger.GetRequestID(c.Request.Context()); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

// parseID accepts positive base-10 int64 values only
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryCustomerID reads ?customer_id= and answers 400 when it is not a
// positive integer
func (h *BaseHandler) queryCustomerID(c *gin.Context) (int64, bool) {
	id, ok := parseID(c.Query("customer_id"))
	if !ok {
		h.BadRequest(c, "customer_id must be a positive integer")
	}
	return id, ok
}

// pathID reads the :id path parameter and answers 400 when it is invalid
func (h *BaseHandler) pathID(c *gin.Context) (int64, bool) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.BadRequest(c, "Invalid customer ID format")
	}
	return id, ok
}

// bind decodes the JSON body into req, answering 400 on failure
func (h *BaseHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.BindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta adds meta.total to a list response
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes an error envelope with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindError reports a body that could not be decoded or failed its binding
// tags. Tag failures list one detail per field.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(verrs, getRequestID(c)))
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed request body: "+err.Error())
}

// HandleError writes the envelope for an error returned by a service.
// Business rule violations list one detail per violated rule, domain errors
// take their status from their code and anything else is a 500 that hides
// the cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var (
		ruleErr   *lending.ValidationError
		domainErr *shared.DomainError
	)

	switch {
	case err == nil:
	case errors.As(err, &ruleErr):
		details := make([]dto.ValidationDetail, 0, len(ruleErr.Violations))
		for _, v := range ruleErr.Violations {
			details = append(details, dto.ValidationDetail{Field: string(v.Rule), Message: v.Message})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(ruleErr.Error(), getRequestID(c), details))
	case errors.As(err, &domainErr):
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
	default:
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}
