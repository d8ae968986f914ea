// Package controllers is the HTTP surface over app/services.
package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
	"github.com/shashiranjanraj/souqhup/pkg/storage"
)

// statusOf maps a service error onto an HTTP status and client message.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrServiceDisabled):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrUpgradeRequired):
		return http.StatusPaymentRequired, err.Error()
	case errors.Is(err, services.ErrServiceUnavailable),
		errors.Is(err, services.ErrUnknownPost),
		errors.Is(err, services.ErrUnknownInquiry),
		errors.Is(err, services.ErrNoFeed),
		errors.Is(err, services.ErrNoChat),
		errors.Is(err, services.ErrUnknownStore),
		errors.Is(err, services.ErrUnknownAutomation),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrAlreadyAuthenticated),
		errors.Is(err, services.ErrFlagProtected),
		errors.Is(err, services.ErrSearchInFlight),
		errors.Is(err, services.ErrAnalysisInFlight):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrRoleNotOffered),
		errors.Is(err, services.ErrInvalidPlan),
		errors.Is(err, services.ErrNoImages),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrInvalidAutomation),
		errors.Is(err, services.ErrUnknownSetting):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, services.ErrBusy):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Request cancelled"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// fail answers err, logging the ones that are not the client's doing.
// data, when not nil, is sent along, typically the unchanged state.
func fail(c *ctx.Context, err error, data any) {
	code, msg := statusOf(err)
	if code >= http.StatusInternalServerError {
		c.Log().Error("request failed", "path", c.Path(), "error", err)
	}
	c.Fail(code, msg, data)
}

// signedIn loads the session of the request device and refuses devices
// that are signed out.
func signedIn(c *ctx.Context, sessions *services.SessionService) (models.SessionState, bool) {
	state, err := sessions.State(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return state, false
	}
	if !state.LoggedIn {
		fail(c, services.ErrNotAuthenticated, nil)
		return state, false
	}
	return state, true
}

// serviceParam parses the {service} path parameter.
func serviceParam(c *ctx.Context) (models.Service, bool) {
	svc, err := models.ParseService(c.Param("service"))
	if err != nil {
		c.NotFound(err.Error())
		return "", false
	}
	return svc, true
}
