package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Default user-facing messages keyed by upstream outcome. A backend-supplied
// message always takes precedence.
const (
	msgUnauthorized = "Your session has expired. Please sign in again."
	msgForbidden    = "You do not have permission to perform this action."
	msgNotFound     = "The requested record was not found."
	msgConflict     = "The record conflicts with existing data."
	msgValidation   = "The request was rejected. Please check the values and try again."
	msgUnavailable  = "The server could not complete the request. Please try again."
	msgUnreachable  = "Unable to reach the server. Please try again."
	msgTimeout      = "Request timed out. Please try again."
	msgCanceled     = "Request was canceled."
)

// MapStatus converts a non-2xx upstream response into an AppError. message is
// the optional human-readable text the backend returned; cause is kept for
// logging and errors.Is checks.
func MapStatus(status int, message string, cause error) *AppError {
	code, fallback := codeForStatus(status)
	if message == "" {
		message = fallback
	}
	return &AppError{Code: code, Message: message, Cause: cause}
}

func codeForStatus(status int) (ErrorCode, string) {
	switch {
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized, msgUnauthorized
	case status == http.StatusForbidden:
		return ErrCodeForbidden, msgForbidden
	case status == http.StatusNotFound:
		return ErrCodeNotFound, msgNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict, msgConflict
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrCodeTimeout, msgTimeout
	case status >= 400 && status < 500:
		return ErrCodeValidation, msgValidation
	default:
		return ErrCodeUnavailable, msgUnavailable
	}
}

// MapTransportError converts an error returned before any response arrived
// (dial failures, timeouts, cancellation). Errors that already carry an
// AppError are returned unchanged.
func MapTransportError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, msgCanceled)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, msgTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(err, ErrCodeTimeout, msgTimeout)
	}
	return Wrap(err, ErrCodeUnavailable, msgUnreachable)
}
