package repository

import (
	"context"

	"startupmarket/internal/domain/entity"
)

type CategoryRepository interface {
	// Seed inserts the given categories, leaving existing values untouched.
	Seed(ctx context.Context, categories []*entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
	GetByValue(ctx context.Context, value string) (*entity.Category, error)
}
