package handling

import (
	"coffeeshop_server/lib"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	logger := gecho.NewDefaultLogger()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "validation", err: lib.NewValidationError("Waiter is required"), wantCode: http.StatusBadRequest, wantBody: "Waiter is required"},
		{name: "wrapped validation", err: fmt.Errorf("create: %w", lib.NewValidationError("Quantity must be greater than 0")), wantCode: http.StatusBadRequest, wantBody: "Quantity must be greater than 0"},
		{name: "not found with message", err: lib.NewNotFoundError("Order not found with ID: %d", 42), wantCode: http.StatusNotFound, wantBody: "Order not found with ID: 42"},
		{name: "bare not found", err: lib.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "conflict", err: fmt.Errorf("save: %w", lib.ErrConflict), wantCode: http.StatusConflict},
		{name: "referenced", err: lib.ErrReferenced, wantCode: http.StatusConflict},
		{name: "bad credentials", err: lib.ErrInvalidCredentials, wantCode: http.StatusUnauthorized},
		{name: "disabled account", err: lib.ErrAccountDisabled, wantCode: http.StatusUnauthorized},
		{name: "forbidden", err: lib.ErrForbidden, wantCode: http.StatusForbidden},
		{name: "unexpected", err: errors.New("connection reset"), wantCode: http.StatusInternalServerError, wantBody: "Failed to load orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(tt.err, "Failed to load orders", logger, rec)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandleErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(errors.New("pq: password authentication failed"), "Failed to create order", gecho.NewDefaultLogger(), rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")
}
