package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error kinds. Billing-gate failures (OrganizationInactive,
// NoActiveSubscription, LimitReached) all surface as 402.
const (
	KindUnauthenticated        = "UNAUTHENTICATED"
	KindForbidden              = "FORBIDDEN"
	KindNotAssociated          = "NOT_ASSOCIATED"
	KindNotFound               = "NOT_FOUND"
	KindOrganizationInactive   = "ORGANIZATION_INACTIVE"
	KindNoActiveSubscription   = "NO_ACTIVE_SUBSCRIPTION"
	KindLimitReached           = "LIMIT_REACHED"
	KindValidation             = "VALIDATION_ERROR"
)

// AppError is a guard or billing-gate failure. Guards return these before any
// mutation is attempted.
type AppError struct {
	Kind    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

func Unauthenticated(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotAssociated() *AppError {
	return &AppError{Kind: KindNotAssociated, Message: "User must belong to an organization"}
}

// NotFound covers both genuinely absent resources and resources owned by
// another organization. The two are deliberately indistinguishable.
func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func OrganizationInactive() *AppError {
	return &AppError{Kind: KindOrganizationInactive, Message: "Organization is not active"}
}

func NoActiveSubscription() *AppError {
	return &AppError{Kind: KindNoActiveSubscription, Message: "No active subscription"}
}

func LimitReached(message string) *AppError {
	return &AppError{Kind: KindLimitReached, Message: message}
}

func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// KindOf returns the error kind, or "" for non-AppError errors.
func KindOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind string) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to its HTTP status code. Unknown errors are 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden, KindNotAssociated:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindOrganizationInactive, KindNoActiveSubscription, KindLimitReached:
		return http.StatusPaymentRequired
	case KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// RespondError writes err as a JSON error envelope. AppErrors keep their kind
// and message; everything else becomes a generic server error.
func RespondError(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(HTTPStatus(err), CreateErrorResponse(appErr.Kind, appErr.Message, nil))
	}
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "Internal server error", nil))
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(KindValidation, "Validation failed", details))
}
