package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

const (
	// Validation (400)
	ErrCodeValidationInvalidLat    ErrorCode = "validation_invalid_latitude"
	ErrCodeValidationInvalidLon    ErrorCode = "validation_invalid_longitude"
	ErrCodeValidationInvalidRows   ErrorCode = "validation_invalid_max_rows"
	ErrCodeValidationInvalidRange  ErrorCode = "validation_invalid_date_range"
	ErrCodeValidationMissingField  ErrorCode = "validation_missing_required_field"
	ErrCodeValidationHorizon       ErrorCode = "validation_horizon_out_of_range"

	// Data sparsity
	ErrCodeInsufficientData ErrorCode = "insufficient_data"
	ErrCodeEmptyWindow      ErrorCode = "empty_window"

	// Packing
	ErrCodeTooManyOverlaps ErrorCode = "too_many_overlaps"

	// Upstream (502/429)
	ErrCodeUpstreamForecast    ErrorCode = "upstream_forecast_unavailable"
	ErrCodeUpstreamCalendar    ErrorCode = "upstream_calendar_unavailable"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"

	// Internal (500)
	ErrCodeConfigInvalid      ErrorCode = "config_invalid"
	ErrCodeInternalCache      ErrorCode = "internal_cache_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns 500 for unrecognized codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest // 400
	case c == ErrCodeTooManyOverlaps:
		return http.StatusUnprocessableEntity // 422
	case c == ErrCodeUpstreamRateLimited:
		return http.StatusTooManyRequests // 429
	case c == ErrCodeInsufficientData:
		return http.StatusBadGateway // 502: upstream did not deliver a usable horizon
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}

// AppError is the standard application error type used throughout the
// pipeline. All domain errors are expressed as AppError to enable consistent
// formatting, HTTP status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error with the provided details merged in.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInsufficientData reports a merged timeline too short or empty to render.
// This is fatal to the whole derivation: no meaningful output exists without
// a usable horizon.
func NewInsufficientData(message string) *AppError {
	return NewAppError(ErrCodeInsufficientData, message, nil)
}

// NewEmptyWindow reports a rolling-window query with zero qualifying samples.
// Callers inside the rule engine absorb this as "no warning for that
// day/rule"; it never propagates past derivation.
func NewEmptyWindow(message string) *AppError {
	return NewAppError(ErrCodeEmptyWindow, message, nil)
}

// HasCode reports whether err is (or wraps) an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var app *AppError
	return errors.As(err, &app) && app.Code == code
}

// IsEmptyWindow reports whether err is an empty rolling-window result.
func IsEmptyWindow(err error) bool { return HasCode(err, ErrCodeEmptyWindow) }

// IsInsufficientData reports whether err is a fatal data-sparsity failure.
func IsInsufficientData(err error) bool { return HasCode(err, ErrCodeInsufficientData) }

// IsTooManyOverlaps reports whether err is a strict-mode packing overflow.
func IsTooManyOverlaps(err error) bool { return HasCode(err, ErrCodeTooManyOverlaps) }
