package ports

import (
	"context"

	"github.com/micellaneous/accounts-api/internal/core/domain"
)

// Page is one slice of a paged listing.
type Page struct {
	Items      []*domain.User `json:"items"`
	PageIndex  int            `json:"page"`
	PageSize   int            `json:"size"`
	TotalItems int64          `json:"total_items"`
}

// UserRepository is the persistence contract for account records.
// Save performs insert-or-update and assigns ID on first insert; the backing
// store enforces username uniqueness at write time.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteByID(ctx context.Context, id int) error
	List(ctx context.Context, pageIndex, pageSize int) (*Page, error)
	CountAll(ctx context.Context) (int64, error)
}
