package dto

import "net/http"

// Error codes shared between handlers and middleware
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	ErrCodeValidation   = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Unlisted codes fall back to 500 so infrastructure failures never leak
// their details with a misleading client-error status.
var errorCodeHTTPStatus = map[string]int{
	// input and validation -> 400
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeValidation:        http.StatusBadRequest,
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_STOCK":          http.StatusBadRequest,
	"INVALID_BARCODE":        http.StatusBadRequest,
	"INVALID_CATEGORY":       http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_ROLE":           http.StatusBadRequest,
	"INVALID_PERIOD":         http.StatusBadRequest,
	"INVALID_IMAGE":          http.StatusBadRequest,
	"INVALID_USERNAME":       http.StatusBadRequest,
	"INVALID_EMAIL":          http.StatusBadRequest,
	"INVALID_PASSWORD":       http.StatusBadRequest,
	"INVALID_PHONE":          http.StatusBadRequest,
	"INVALID_PRODUCT":        http.StatusBadRequest,
	"INVALID_USER":           http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"WEAK_PASSWORD":          http.StatusBadRequest,

	// authentication -> 401
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,

	// authorization -> 403
	ErrCodeForbidden:   http.StatusForbidden,
	"ACCOUNT_LOCKED":   http.StatusForbidden,
	"ACCOUNT_DISABLED": http.StatusForbidden,

	// resources
	ErrCodeNotFound:        http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CATEGORY_IN_USE":      http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"TRANSACTION_FAILED":   http.StatusConflict,

	// business rules -> 422
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"OUT_OF_STOCK":       http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"EMPTY_CART":         http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":     http.StatusUnprocessableEntity,
	"ALREADY_INACTIVE":   http.StatusUnprocessableEntity,
	"ALREADY_CANCELLED":  http.StatusUnprocessableEntity,
	"TOTAL_MISMATCH":     http.StatusUnprocessableEntity,

	// infrastructure
	"STORAGE_DISABLED": http.StatusServiceUnavailable,
	ErrCodeRateLimited: http.StatusTooManyRequests,
	ErrCodeInternal:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
