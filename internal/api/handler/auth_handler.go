package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/micellaneous/accounts-api/internal/api/metrics"
	"github.com/micellaneous/accounts-api/internal/core/domain"
	"github.com/micellaneous/accounts-api/internal/core/ports"
)

// AuthHandler serves login and token validation.
type AuthHandler struct {
	users   ports.UserService
	tokens  ports.TokenService
	limiter ports.LoginLimiter
	audit   ports.Auditor
}

// NewAuthHandler wires the login endpoints. limiter and audit are optional;
// nil disables throttling and audit recording respectively.
func NewAuthHandler(users ports.UserService, tokens ports.TokenService, limiter ports.LoginLimiter, audit ports.Auditor) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, limiter: limiter, audit: audit}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type validateTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type validateTokenResponse struct {
	Valid bool `json:"valid"`
}

// Login verifies credentials and issues a session token.
//
// @Summary      Login with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/v1/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	if h.limiter != nil {
		if err := h.limiter.Allow(ctx, req.Username); err != nil {
			if errors.Is(err, domain.ErrTooManyAttempts) {
				metrics.LoginsTotal.WithLabelValues("throttled").Inc()
				return err
			}
			// Throttling is best effort: fail open on infrastructure errors.
		}
	}

	user, err := h.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		if h.limiter != nil {
			_ = h.limiter.RecordFailure(ctx, req.Username)
		}
		h.record(domain.AuditEvent{
			Actor:      req.Username,
			Action:     domain.AuditLoginFailed,
			OccurredAt: time.Now().UTC(),
		})
		return err
	}

	token, err := h.tokens.Issue(user.Username, user.Roles(), 0)
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	if h.limiter != nil {
		_ = h.limiter.Reset(ctx, req.Username)
	}
	h.record(domain.AuditEvent{
		Actor:      user.Username,
		Action:     domain.AuditLoginSucceeded,
		TargetID:   user.ID,
		OccurredAt: time.Now().UTC(),
	})

	return c.JSON(http.StatusOK, loginResponse{User: user, Token: token})
}

// ValidateToken reports whether a previously issued token is still live.
// Failure is folded into {"valid": false} rather than an error status.
//
// @Summary      Validate a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      validateTokenRequest  true  "Token to check"
// @Success      200   {object}  validateTokenResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/login/token [post]
func (h *AuthHandler) ValidateToken(c echo.Context) error {
	var req validateTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	valid := h.tokens.TryValidate(req.Token)
	if valid {
		metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
	} else {
		metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
	}

	return c.JSON(http.StatusOK, validateTokenResponse{Valid: valid})
}

func (h *AuthHandler) record(event domain.AuditEvent) {
	if h.audit != nil {
		h.audit.Enqueue(event)
	}
}
