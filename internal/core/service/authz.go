package service

import (
	"fmt"

	"github.com/micellaneous/accounts-api/internal/core/domain"
)

// Authorization policy: the single source of truth for per-resource access
// decisions. Route-level role gating calls into the same predicates.

// IsAdministrator reports whether the identity holds the ADMINISTRATOR role.
// A nil identity (anonymous request) is never an administrator.
func IsAdministrator(u *domain.User) bool {
	return u != nil && u.IsAdministrator()
}

// CanAccessUserInfo implements the self-or-admin rule: an identity may access
// a target account's information when it is an administrator or when the
// target is itself.
func CanAccessUserInfo(requester *domain.User, targetID int) bool {
	if requester == nil {
		return false
	}
	return requester.IsAdministrator() || requester.ID == targetID
}

// EnforceUserInfoAccess fails with an access-denied error when
// CanAccessUserInfo does not hold.
func EnforceUserInfoAccess(requester *domain.User, targetID int) error {
	if CanAccessUserInfo(requester, targetID) {
		return nil
	}
	return &domain.AccessDeniedError{
		Reason: fmt.Sprintf("You don't have the rights to access user %d information", targetID),
	}
}
