package ports

import (
	"time"
)

// TokenClaims is the decoded payload of a session token.
type TokenClaims struct {
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService creates and verifies signed, time-bounded session tokens.
//
// Two validation primitives exist on purpose: TryValidate folds every failure
// into false for call sites that treat a bad token as anonymous, while
// ValidateOrFail surfaces a domain.ErrAccessDenied for hardened call sites.
type TokenService interface {
	// Issue signs a token for subject carrying the role claims. A ttl <= 0
	// falls back to the configured default lifetime.
	Issue(subject string, roles []string, ttl time.Duration) (string, error)

	// Parse verifies the signature and decodes the claims, failing with
	// domain.ErrMalformedToken on any structural or signature problem.
	Parse(token string) (*TokenClaims, error)

	// TryValidate reports whether the token parses and is unexpired. Never errors.
	TryValidate(token string) bool

	// ValidateOrFail returns a domain.ErrAccessDenied-matching error when the
	// token is malformed or expired, nil otherwise.
	ValidateOrFail(token string) error
}
