package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", fmt.Errorf("period %q: %w", "yearly", pkgerrors.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"unauthorized", pkgerrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", fmt.Errorf("delete: %w", pkgerrors.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"not found", fmt.Errorf("peptide: %w", pkgerrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"conflict", pkgerrors.ErrConflict, http.StatusConflict, "conflict"},
		{"store", fmt.Errorf("%w: dial tcp: timeout", pkgerrors.ErrStoreUnavailable), http.StatusServiceUnavailable, "store_unavailable"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal"},
		{"explicit", fmt.Errorf("wrapped: %w", New(http.StatusTeapot, "teapot", nil)), http.StatusTeapot, "teapot"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromError(tc.err)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.code, got.Code)
		})
	}
	assert.Nil(t, FromError(nil))
}
