package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/pkg/auth"
	"github.com/shashiranjanraj/souqhup/pkg/session"
)

func opts() session.Options {
	return session.Options{CookieName: "souqhup_device", TTL: time.Hour, HTTPOnly: true, Path: "/"}
}

func echoDevice() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(session.DeviceID(r.Context())))
	})
}

func TestNewDeviceGetsCookie(t *testing.T) {
	signer := auth.NewSigner("secret", time.Hour)
	h := session.Middleware(signer, opts())(echoDevice())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "souqhup_device", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	id, err := signer.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Body.String())
}

func TestKnownDeviceIsReused(t *testing.T) {
	signer := auth.NewSigner("secret", time.Hour)
	token, err := signer.Issue("device-7")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "souqhup_device", Value: token})
	rec := httptest.NewRecorder()
	session.Middleware(signer, opts())(echoDevice()).ServeHTTP(rec, req)

	assert.Equal(t, "device-7", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestTamperedCookieMintsNewDevice(t *testing.T) {
	other, _ := auth.NewSigner("other", time.Hour).Issue("device-7")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "souqhup_device", Value: other})
	rec := httptest.NewRecorder()
	session.Middleware(auth.NewSigner("secret", time.Hour), opts())(echoDevice()).ServeHTTP(rec, req)

	assert.NotEqual(t, "device-7", rec.Body.String())
	assert.Len(t, rec.Result().Cookies(), 1)
}
