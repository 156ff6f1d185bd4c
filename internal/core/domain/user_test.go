package domain

import (
	"testing"
	"time"
)

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser("alice", "hash", "Alice", "Smith", "alice@example.com", "")

	if u.Role != RoleUser {
		t.Fatalf("expected default USER role, got %q", u.Role)
	}
	if !u.Active {
		t.Fatalf("new accounts default to active")
	}
	if u.ValidFrom.After(time.Now()) {
		t.Fatalf("validity window must start now")
	}
	if u.ValidUntil.Before(time.Now().AddDate(999, 0, 0)) {
		t.Fatalf("expected far-future sentinel, got %v", u.ValidUntil)
	}
	if u.ValidFrom.After(u.ValidUntil) {
		t.Fatalf("validFrom must not exceed validUntil")
	}
}

func TestUser_IsValidAt(t *testing.T) {
	now := time.Now()
	base := User{
		Active:     true,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
	}

	cases := []struct {
		name   string
		mutate func(*User)
		at     time.Time
		want   bool
	}{
		{"inside window", func(*User) {}, now, true},
		{"at window start", func(*User) {}, base.ValidFrom, true},
		{"at window end", func(*User) {}, base.ValidUntil, true},
		{"before window", func(*User) {}, now.Add(-2 * time.Hour), false},
		{"after window", func(*User) {}, now.Add(2 * time.Hour), false},
		{"disabled", func(u *User) { u.Active = false }, now, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := base
			tc.mutate(&u)
			if got := u.IsValidAt(tc.at); got != tc.want {
				t.Fatalf("IsValidAt = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUser_Roles(t *testing.T) {
	u := User{Role: RoleAdministrator}
	roles := u.Roles()
	if len(roles) != 1 || roles[0] != RoleAdministrator {
		t.Fatalf("unexpected role claims: %v", roles)
	}
	if !u.IsAdministrator() {
		t.Fatalf("expected administrator")
	}
}
