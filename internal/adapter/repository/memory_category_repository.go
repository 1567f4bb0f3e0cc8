package repository

import (
	"context"
	"sort"
	"sync"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

type memoryCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]entity.Category
}

func NewMemoryCategoryRepository() repository.CategoryRepository {
	return &memoryCategoryRepository{categories: make(map[string]entity.Category)}
}

func (r *memoryCategoryRepository) Seed(ctx context.Context, categories []*entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range categories {
		if _, ok := r.categories[c.Value]; !ok {
			r.categories[c.Value] = *c
		}
	}
	return nil
}

func (r *memoryCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]*entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		c := c
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].Value < categories[j].Value
	})
	return categories, nil
}

func (r *memoryCategoryRepository) GetByValue(ctx context.Context, value string) (*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[value]
	if !ok {
		return nil, errors.NotFound("Category", nil)
	}
	return &c, nil
}
