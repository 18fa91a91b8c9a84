package users

import (
	"context"

	"github.com/susradar/susradar-server/internal/models"
)

// Repository persists credential records keyed by normalized username.
// Get returns (nil, nil) when the user does not exist. Put inserts or
// replaces the record; no operation deletes one.
type Repository interface {
	Get(ctx context.Context, username string) (*models.User, error)
	Put(ctx context.Context, u *models.User) error
}
