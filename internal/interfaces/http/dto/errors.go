package dto

import (
	"net/http"

	"github.com/qiustore/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error kinds to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:   http.StatusBadRequest,
	shared.CodeUnauthorized: http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,
	shared.CodeNotFound:     http.StatusNotFound,
	shared.CodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
