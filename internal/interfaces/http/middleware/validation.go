package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/creditline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// maxNationalIDLength matches the customers.national_id column
const maxNationalIDLength = 20

var setupValidatorOnce sync.Once

// SetupValidator names binding errors after json (or form) tags and
// registers the national_id tag on gin's validator. Idempotent.
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("national_id", validateNationalID)
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return ""
}

// validateNationalID accepts 1 to 20 ASCII digits
func validateNationalID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > maxNationalIDLength {
		return false
	}
	return strings.Trim(s, "0123456789") == ""
}

// FormatValidationErrors turns binding errors into an ERR_VALIDATION
// envelope with one detail per failed field
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	errors.As(err, &fieldErrs)

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: getValidationMessage(fe)})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes FormatValidationErrors with status 400
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestIDOf(c)))
}

var fixedMessages = map[string]string{
	"required":    "This field is required",
	"email":       "Invalid email format",
	"national_id": "Must be 1 to 20 digits",
	"numeric":     "Must be numeric",
}

var boundPrefixes = map[string]string{
	"gte": "Must be greater than or equal to ",
	"lte": "Must be less than or equal to ",
	"gt":  "Must be greater than ",
	"lt":  "Must be less than ",
	"min": "Must be at least ",
	"max": "Must be at most ",
}

func getValidationMessage(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	prefix, ok := boundPrefixes[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	msg := prefix + fe.Param()
	if (fe.Tag() == "min" || fe.Tag() == "max") && fe.Kind() == reflect.String {
		msg += " characters"
	}
	return msg
}
