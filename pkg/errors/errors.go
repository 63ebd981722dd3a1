package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an AppError independently of its HTTP status
type Kind string

const (
	KindValidation   Kind = "validation"
	KindReference    Kind = "reference"
	KindDelivery     Kind = "delivery"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// AppError is a custom error type that includes an HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so sentinels like ErrValidation work with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// NewAppError creates a new AppError
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Kind:    kindForCode(code),
	}
}

func kindForCode(code int) Kind {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindReference
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}

// Sentinels, compare with errors.Is
var (
	ErrValidation   = &AppError{Code: http.StatusUnprocessableEntity, Message: "Validation failed", Kind: KindValidation}
	ErrReference    = &AppError{Code: http.StatusNotFound, Message: "Referenced resource not found", Kind: KindReference}
	ErrDelivery     = &AppError{Code: http.StatusBadGateway, Message: "Real-time delivery failed", Kind: KindDelivery}
	ErrUnauthorized = NewAppError(http.StatusUnauthorized, "Unauthorized access")
	ErrRateLimit    = NewAppError(http.StatusTooManyRequests, "Rate limit exceeded")
)

// Validation reports malformed input. Nothing has been written when it is returned.
func Validation(msg string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Message: msg, Kind: KindValidation}
}

// Reference reports an id that does not resolve to an existing record
func Reference(msg string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: msg, Kind: KindReference}
}

// Delivery wraps a failed real-time publish
func Delivery(channel string, err error) *AppError {
	return &AppError{Code: http.StatusBadGateway, Message: "publish to " + channel + " failed", Kind: KindDelivery, Err: err}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg, Kind: KindValidation}
}

func Unauthorized(msg string) *AppError {
	return NewAppError(http.StatusUnauthorized, msg)
}

func Conflict(msg string) *AppError {
	return NewAppError(http.StatusConflict, msg)
}

// Internal hides err from the client message but keeps it for logging
func Internal(msg string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: msg, Kind: KindInternal, Err: err}
}

// As returns the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
