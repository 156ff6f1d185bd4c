package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/micellaneous/accounts-api/internal/core/domain"
	"github.com/micellaneous/accounts-api/internal/core/ports"
)

const defaultTokenTTL = 10 * time.Hour

// TokenConfig carries the signing material for the token codec. The secret is
// process-wide, read-only after startup, and passed in explicitly instead of
// being read from global configuration.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// TokenService issues and verifies HS256-signed session tokens carrying
// {sub, roles, iat, exp}. Tokens are self-contained and never persisted;
// there is no server-side revocation beyond the expiry timestamp.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(cfg TokenConfig) *TokenService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(cfg.Secret), ttl: ttl}
}

type sessionClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Issue signs a token for subject with the given role claims. A ttl <= 0
// falls back to the configured default lifetime.
func (s *TokenService) Issue(subject string, roles []string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := time.Now()
	claims := sessionClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and decodes the claims, failing with
// domain.ErrMalformedToken on any structural or signature problem. Expiry is
// deliberately not judged here; an expired token still parses so that
// TryValidate and ValidateOrFail own the liveness decision.
func (s *TokenService) Parse(token string) (*ports.TokenClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	out := &ports.TokenClaims{
		Subject: claims.Subject,
		Roles:   claims.Roles,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// TryValidate reports whether the token parses and is unexpired. Never errors;
// call sites that treat a bad token as anonymous use this variant.
func (s *TokenService) TryValidate(token string) bool {
	claims, err := s.Parse(token)
	if err != nil {
		return false
	}
	return claims.ExpiresAt.After(time.Now())
}

// ValidateOrFail is the hardened variant: malformed and expired tokens both
// fail with an error matching domain.ErrAccessDenied.
func (s *TokenService) ValidateOrFail(token string) error {
	claims, err := s.Parse(token)
	if err != nil {
		return &domain.AccessDeniedError{Reason: "invalid token"}
	}
	if !claims.ExpiresAt.After(time.Now()) {
		return &domain.AccessDeniedError{Reason: "token expired"}
	}
	return nil
}
