package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/storage"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrNotAuthenticated, http.StatusUnauthorized},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrFlagProtected, http.StatusConflict},
		{services.ErrServiceDisabled, http.StatusForbidden},
		{services.ErrUpgradeRequired, http.StatusPaymentRequired},
		{services.ErrServiceUnavailable, http.StatusNotFound},
		{fmt.Errorf("assets: %w", storage.ErrNotFound), http.StatusNotFound},
		{services.ErrSearchInFlight, http.StatusConflict},
		{services.ErrEmptyMessage, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: interval", services.ErrInvalidAutomation), http.StatusUnprocessableEntity},
		{services.ErrUnknownSetting, http.StatusUnprocessableEntity},
		{services.ErrUnknownAutomation, http.StatusNotFound},
		{services.ErrUnknownStore, http.StatusNotFound},
		{services.ErrBusy, http.StatusTooManyRequests},
		{context.Canceled, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			code, msg := statusOf(tc.err)
			assert.Equal(t, tc.want, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestUnauthorizedMessageHidesDetail(t *testing.T) {
	_, msg := statusOf(services.ErrNotAuthenticated)
	assert.Equal(t, "Unauthorized", msg)
	_, msg = statusOf(fmt.Errorf("db down"))
	assert.Equal(t, "Internal Server Error", msg)
}
