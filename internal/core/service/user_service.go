package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/micellaneous/accounts-api/internal/core/domain"
	"github.com/micellaneous/accounts-api/internal/core/ports"
)

// UserService implements account management and credential verification on
// top of a UserRepository and a PasswordHasher.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log}
}

// Authenticate verifies a username/password pair against the stored identity
// and the account validity policy. All three failure causes — unknown
// username, wrong password, invalid account — collapse into the identical
// domain.ErrInvalidCredentials so callers cannot enumerate users.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil ||
		!s.hasher.Verify(password, user.PasswordHash) ||
		!user.IsValidAt(time.Now()) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Create hashes the supplied plaintext password and persists a new account
// with defaults applied (active unless the input explicitly disables it, USER
// role when none is given, unbounded validity window).
func (s *UserService) Create(ctx context.Context, input ports.UserInput) (*domain.User, error) {
	if existing, err := s.repo.FindByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %q", domain.ErrUserExists, input.Username)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(input.Username, hash, input.Name, input.Surname, input.Email, input.Role)
	if input.Active != nil {
		user.Active = *input.Active
	}

	created, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Int("id", created.ID).Msg("user created")
	return created, nil
}

// Modify replaces the full profile of an existing account. The password is
// re-hashed unconditionally, matching the update-path behavior of the
// original system: callers always supply a plaintext password.
func (s *UserService) Modify(ctx context.Context, id int, input ports.UserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.Name = input.Name
	user.Surname = input.Surname
	user.Email = input.Email
	user.Role = input.Role
	if input.Active != nil {
		user.Active = *input.Active
	}
	user.PasswordHash = hash

	return s.repo.Save(ctx, user)
}

// ChangePassword replaces the account's credential after verifying the old
// one. On a mismatch the stored hash is left untouched.
func (s *UserService) ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword string) (*domain.User, error) {
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return nil, domain.ErrOldPasswordIncorrect
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	s.log.Info().Str("username", user.Username).Msg("password changed")
	return s.repo.Save(ctx, user)
}

func (s *UserService) Get(ctx context.Context, id int) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context, pageIndex, pageSize int) (*ports.Page, error) {
	return s.repo.List(ctx, pageIndex, pageSize)
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteByID(ctx, id)
}

// SetActive flips the enabled flag. Because the per-request liveness re-check
// consults this flag, disabling an account invalidates all of its outstanding
// tokens without a revocation list.
func (s *UserService) SetActive(ctx context.Context, id int, active bool) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	return s.repo.Save(ctx, user)
}
