package dto

import (
	"net/http"
	"strings"
)

// Envelope error codes have the form ERR_<DESCRIPTION>. Domain errors use
// the bare description, optionally suffixed with _ERROR, and are converted
// by NormalizeErrorCode.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation        = "ERR_VALIDATION"
	ErrCodeInvalidName       = "ERR_INVALID_NAME"
	ErrCodeInvalidNationalID = "ERR_INVALID_NATIONAL_ID"
	ErrCodeInvalidEmail      = "ERR_INVALID_EMAIL"
	ErrCodeInvalidIncome     = "ERR_INVALID_INCOME"
	ErrCodeInvalidAddress    = "ERR_INVALID_ADDRESS"
	ErrCodeInvalidPassword   = "ERR_INVALID_PASSWORD"
	// ErrCodeInvalidStatus means a stored credit has a status this build
	// does not know, so it is a server fault
	ErrCodeInvalidStatus = "ERR_INVALID_STATUS"

	// ErrCodeNotFound is reported with 400 rather than 404 so that a caller
	// probing credit codes learns nothing from the status line
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	ErrCodeConflict         = "ERR_CONFLICT"
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"

	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// statusByCode lists every envelope code. Codes missing here answer 500.
var statusByCode = map[string]int{
	ErrCodeUnknown:       http.StatusInternalServerError,
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeInvalidStatus: http.StatusInternalServerError,

	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeInvalidName:       http.StatusBadRequest,
	ErrCodeInvalidNationalID: http.StatusBadRequest,
	ErrCodeInvalidEmail:      http.StatusBadRequest,
	ErrCodeInvalidIncome:     http.StatusBadRequest,
	ErrCodeInvalidAddress:    http.StatusBadRequest,
	ErrCodeInvalidPassword:   http.StatusBadRequest,
	ErrCodeNotFound:          http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,

	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeDuplicateRequest: http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the status for an envelope code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode turns a domain code such as NOT_FOUND or
// VALIDATION_ERROR into its envelope code. Envelope codes and codes with
// no envelope counterpart are returned unchanged.
func NormalizeErrorCode(code string) string {
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	candidate := "ERR_" + strings.TrimSuffix(code, "_ERROR")
	if _, ok := statusByCode[candidate]; ok {
		return candidate
	}
	return code
}
