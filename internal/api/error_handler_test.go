package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/micellaneous/accounts-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec.Code, body.Error
}

func TestErrorHandler_DomainMappings(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"conflict", fmt.Errorf("%w: username %q", domain.ErrUserExists, "alice"), http.StatusConflict, "user already exists"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username/password supplied"},
		{"old password", domain.ErrOldPasswordIncorrect, http.StatusBadRequest, "Old password is incorrect"},
		{"access denied", &domain.AccessDeniedError{Reason: "You don't have the rights to access user 7 information"}, http.StatusForbidden, "You don't have the rights to access user 7 information"},
		{"malformed token", domain.ErrMalformedToken, http.StatusUnauthorized, "invalid token"},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many failed login attempts"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := renderError(t, tc.err)
			if code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, code)
			}
			if msg != tc.wantMsg {
				t.Fatalf("expected %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "authentication required"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if msg != "authentication required" {
		t.Fatalf("unexpected message: %q", msg)
	}
}
