package workshop

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "client input",
			err:        fmt.Errorf("parse: %w", NewClientInputError("missing id")),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "missing id",
		},
		{
			name:       "upstream status",
			err:        &UpstreamError{Service: "details api", Status: 503},
			wantStatus: http.StatusBadGateway,
			wantMsg:    "details api error: status 503",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("detail 1: %w", ErrItemNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    "Item not found",
		},
		{
			name:       "other",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, msg := HTTPStatus(tt.err)
			require.Equal(t, tt.wantStatus, status)
			require.Equal(t, tt.wantMsg, msg)
		})
	}
}
