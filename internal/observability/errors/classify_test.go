package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/target/backoffice-ui/internal/errors"
)

func TestClassify(t *testing.T) {
	upstream := goerrors.New("backend GET suppliers")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "401", err: apperrors.MapStatus(http.StatusUnauthorized, "", upstream), want: "unauthorized"},
		{name: "404", err: apperrors.MapStatus(http.StatusNotFound, "", upstream), want: "not_found"},
		{name: "422", err: apperrors.MapStatus(http.StatusUnprocessableEntity, "bad tax id", upstream), want: "validation"},
		{name: "500", err: apperrors.MapStatus(http.StatusInternalServerError, "", upstream), want: "unavailable"},
		{name: "503", err: apperrors.MapStatus(http.StatusServiceUnavailable, "", upstream), want: "unavailable"},
		{name: "504", err: apperrors.MapStatus(http.StatusGatewayTimeout, "", upstream), want: "timeout"},
		{
			name: "wrapped by caller",
			err:  fmt.Errorf("list suppliers: %w", apperrors.MapStatus(http.StatusConflict, "", upstream)),
			want: "conflict",
		},
		{name: "transport timeout", err: apperrors.MapTransportError(context.DeadlineExceeded), want: "timeout"},
		{name: "bare canceled", err: fmt.Errorf("fetch: %w", context.Canceled), want: "canceled"},
		{name: "plain error", err: goerrors.New("dial tcp: refused"), want: ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
