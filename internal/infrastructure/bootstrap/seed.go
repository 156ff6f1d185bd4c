// Package bootstrap seeds the account store with an initial administrator so
// a fresh deployment has a way in. Enabled by the INIT_DB flag; existing
// accounts are never touched.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/micellaneous/accounts-api/internal/core/domain"
	"github.com/micellaneous/accounts-api/internal/core/ports"
)

// SeedAdmin creates the named administrator account unless it already exists.
func SeedAdmin(ctx context.Context, users ports.UserService, username, password string, log zerolog.Logger) error {
	if _, err := users.GetByUsername(ctx, username); err == nil {
		log.Debug().Str("username", username).Msg("seed admin already present")
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed admin lookup: %w", err)
	}

	admin, err := users.Create(ctx, ports.UserInput{
		Username: username,
		Password: password,
		Name:     "Administrator",
		Role:     domain.RoleAdministrator,
	})
	if err != nil {
		return fmt.Errorf("seed admin create: %w", err)
	}

	log.Info().Str("username", admin.Username).Int("id", admin.ID).Msg("seed administrator created")
	return nil
}
