package errors

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		code    ErrorCode
		wantMsg string
	}{
		{"401 uses default message", http.StatusUnauthorized, "", ErrCodeUnauthorized, msgUnauthorized},
		{"403", http.StatusForbidden, "", ErrCodeForbidden, msgForbidden},
		{"404", http.StatusNotFound, "", ErrCodeNotFound, msgNotFound},
		{"409 keeps backend message", http.StatusConflict, "Duplicate tax ID", ErrCodeConflict, "Duplicate tax ID"},
		{"422 validation", http.StatusUnprocessableEntity, "Name is required", ErrCodeValidation, "Name is required"},
		{"400 validation default", http.StatusBadRequest, "", ErrCodeValidation, msgValidation},
		{"504 timeout", http.StatusGatewayTimeout, "", ErrCodeTimeout, msgTimeout},
		{"500 unavailable", http.StatusInternalServerError, "", ErrCodeUnavailable, msgUnavailable},
		{"502 with message", http.StatusBadGateway, "Upstream down", ErrCodeUnavailable, "Upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := errors.New("status error")
			err := MapStatus(tt.status, tt.message, cause)
			if err.Code != tt.code {
				t.Errorf("MapStatus(%d).Code = %v, want %v", tt.status, err.Code, tt.code)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("MapStatus(%d).Message = %q, want %q", tt.status, err.Message, tt.wantMsg)
			}
			if !errors.Is(err, cause) {
				t.Errorf("MapStatus(%d) lost its cause", tt.status)
			}
		})
	}
}

func TestMapTransportError(t *testing.T) {
	if MapTransportError(nil) != nil {
		t.Fatal("MapTransportError(nil) should be nil")
	}
	if !IsCanceled(MapTransportError(context.Canceled)) {
		t.Error("context.Canceled should map to canceled")
	}
	if !IsTimeout(MapTransportError(context.DeadlineExceeded)) {
		t.Error("context.DeadlineExceeded should map to timeout")
	}
	if !IsUnavailable(MapTransportError(errors.New("dial tcp: connection refused"))) {
		t.Error("dial error should map to unavailable")
	}

	existing := NotFound("gone")
	if got := MapTransportError(existing); !errors.Is(got, existing) || !IsNotFound(got) {
		t.Error("existing AppError should pass through unchanged")
	}
}
