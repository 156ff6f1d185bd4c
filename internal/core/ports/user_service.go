package ports

import (
	"context"

	"github.com/micellaneous/accounts-api/internal/core/domain"
)

// UserInput is the full profile payload used by create and update. Update is
// a full replacement: every field is applied, and the password is re-hashed
// even when it did not change. Active is optional so an omitted value is
// distinguishable from an explicit false: nil keeps the default (true) on
// create and the stored value on update.
type UserInput struct {
	Username string
	Password string
	Name     string
	Surname  string
	Email    string
	Role     string
	Active   *bool
}

// UserService covers credential verification and account management.
type UserService interface {
	// Authenticate verifies a username/password pair. Unknown username, wrong
	// password and an invalid (disabled or out-of-window) account all fail
	// with the same domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	Create(ctx context.Context, input UserInput) (*domain.User, error)
	Modify(ctx context.Context, id int, input UserInput) (*domain.User, error)
	ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword string) (*domain.User, error)
	Get(ctx context.Context, id int) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, pageIndex, pageSize int) (*Page, error)
	Delete(ctx context.Context, id int) error
	SetActive(ctx context.Context, id int, active bool) (*domain.User, error)
}
