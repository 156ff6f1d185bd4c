package domain

import "time"

// Role values mirror the stored enumeration; they double as token role claims.
const (
	RoleUser          = "USER"
	RoleAdministrator = "ADMINISTRATOR"
)

// validityYears is the span of the default account validity window. Accounts
// created without an explicit window are effectively unbounded.
const validityYears = 1000

// User models a stored account record.
//
// ID and Username are immutable once assigned. PasswordHash is never
// serialized and only changes through a password change or a full
// administrative update.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	ValidFrom    time.Time `json:"valid_from"`
	ValidUntil   time.Time `json:"valid_until"`
}

// NewUser builds an account with the default state: active, USER role unless
// one is given, and the default validity window starting now.
func NewUser(username, passwordHash, name, surname, email, role string) *User {
	now := time.Now().UTC()
	if role == "" {
		role = RoleUser
	}
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Name:         name,
		Surname:      surname,
		Email:        email,
		Role:         role,
		Active:       true,
		ValidFrom:    now,
		ValidUntil:   now.AddDate(validityYears, 0, 0),
	}
}

// IsAdministrator reports whether the account carries the ADMINISTRATOR role.
func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

// IsValidAt reports whether the account may authenticate or act at the given
// instant: it must be enabled and the instant must fall inside the
// [ValidFrom, ValidUntil] window. Evaluated at login and re-checked on every
// authenticated request.
func (u *User) IsValidAt(now time.Time) bool {
	return u.Active && !now.Before(u.ValidFrom) && !now.After(u.ValidUntil)
}

// Roles returns the role claim list embedded in issued tokens.
func (u *User) Roles() []string {
	return []string{u.Role}
}

// IsValidRole reports whether s is one of the known role names.
func IsValidRole(s string) bool {
	return s == RoleUser || s == RoleAdministrator
}
