package dto

import (
	"net/http"

	"github.com/farmabill/backend/internal/domain/shared"
)

// Interface-layer error codes for failures that never reach the domain
const (
	// ErrCodeBadRequest is used for malformed requests and binding failures
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "FORBIDDEN"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. The
// mapping is purely mechanical; handlers never pick status codes by hand.
var errorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:          http.StatusBadRequest,
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeDuplicate:           http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeBusinessRule:        http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition:   http.StatusUnprocessableEntity,
	shared.CodeCreditLimitExceeded: http.StatusUnprocessableEntity,
	shared.CodeInsufficientFunds:   http.StatusUnprocessableEntity,
	shared.CodeUnauthorized:        http.StatusUnauthorized,

	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeForbidden:  http.StatusForbidden,
	ErrCodeInternal:   http.StatusInternalServerError,
}

// HTTPStatus returns the status code for an error code, defaulting to 500
// for unknown codes.
func HTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
