// Package errors derives the low-cardinality error labels used on metrics
// and log lines.
package errors

import (
	"context"
	goerrors "errors"

	apperrors "github.com/target/backoffice-ui/internal/errors"
)

// ClassUnknown labels errors that carry no application error code.
const ClassUnknown = "unknown"

// Classify returns the application error code carried by err (unauthorized,
// validation, unavailable, timeout, ...). Bare context errors map to timeout
// and canceled. It returns "" for a nil error.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.AppError
	if goerrors.As(err, &appErr) && appErr.Code != "" {
		return string(appErr.Code)
	}
	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return string(apperrors.ErrCodeTimeout)
	case goerrors.Is(err, context.Canceled):
		return string(apperrors.ErrCodeCanceled)
	}
	return ClassUnknown
}
