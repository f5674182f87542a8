package platformerrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse represents the standard error response format.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail contains error details for HTTP responses.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes err as a JSON error response. Server-side failures are
// logged and reported with a generic message so driver details never leak.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	var platformErr *PlatformError
	if !errors.As(err, &platformErr) {
		platformErr = NewError(c.Request.Context(), LayerRoute, ErrorTypeInternal, "internal server error", err, "")
	}

	status := ErrorTypeToHTTPStatus(platformErr.Type)
	message := platformErr.Message
	if status >= http.StatusInternalServerError {
		LogError(log, platformErr)
		message = "internal server error"
	}

	requestID := platformErr.RequestID
	if requestID == "" {
		requestID = RequestIDFromContext(c.Request.Context())
	}

	c.AbortWithStatusJSON(status, HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   message,
			Type:      ErrorTypeToString(platformErr.Type),
			Code:      platformErr.UUID,
			RequestID: requestID,
		},
	})
}

// ErrorTypeToString converts an ErrorType to a snake_case string for API responses.
func ErrorTypeToString(t ErrorType) string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeConflict:
		return "conflict_error"
	case ErrorTypeUnauthorized:
		return "unauthorized_error"
	case ErrorTypeForbidden:
		return "forbidden_error"
	case ErrorTypeRateLimited:
		return "rate_limited_error"
	case ErrorTypeExternal:
		return "external_error"
	case ErrorTypeDatabaseError:
		return "storage_error"
	case ErrorTypeInternal:
		fallthrough
	default:
		return "internal_error"
	}
}
