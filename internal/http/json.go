package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/target/backoffice-ui/internal/errors"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// writeAppError maps an application error to a JSON error response. Only
// messages meant for users are exposed.
func writeAppError(w http.ResponseWriter, err error) {
	code, errCode := http.StatusInternalServerError, "internal_error"
	switch {
	case apperrors.IsNotFound(err):
		code, errCode = http.StatusNotFound, "not_found"
	case apperrors.IsValidation(err):
		code, errCode = http.StatusBadRequest, "validation_failed"
	case apperrors.IsConflict(err):
		code, errCode = http.StatusConflict, "conflict"
	case apperrors.IsUnauthorized(err):
		code, errCode = http.StatusUnauthorized, "authentication_required"
	case apperrors.IsForbidden(err):
		code, errCode = http.StatusForbidden, "insufficient_permissions"
	case apperrors.IsUnavailable(err), apperrors.IsTimeout(err):
		code, errCode = http.StatusBadGateway, "upstream_unavailable"
	}
	WriteJSON(w, code, map[string]string{
		"error":   errCode,
		"message": apperrors.UserMessage(err, http.StatusText(code)),
	})
}
