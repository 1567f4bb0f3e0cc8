package repository

import (
	"context"

	"startupmarket/internal/domain/entity"
)

type FavoriteRepository interface {
	// Add is idempotent: adding an existing pair returns the stored row.
	Add(ctx context.Context, userID, productID string) (*entity.Favorite, error)

	// Remove is idempotent: removing a missing pair is not an error.
	Remove(ctx context.Context, userID, productID string) error

	Exists(ctx context.Context, userID, productID string) (bool, error)

	// ListByUserID returns every favorite of the user, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*entity.Favorite, error)
}
