package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
)

type memoryFavoriteRepository struct {
	mu        sync.RWMutex
	favorites map[string]entity.Favorite
}

func NewMemoryFavoriteRepository() repository.FavoriteRepository {
	return &memoryFavoriteRepository{favorites: make(map[string]entity.Favorite)}
}

func (r *memoryFavoriteRepository) Add(ctx context.Context, userID, productID string) (*entity.Favorite, error) {
	id := entity.FavoriteID(userID, productID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.favorites[id]; ok {
		return &existing, nil
	}

	favorite := entity.Favorite{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}
	r.favorites[id] = favorite
	return &favorite, nil
}

func (r *memoryFavoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.favorites, entity.FavoriteID(userID, productID))
	return nil
}

func (r *memoryFavoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.favorites[entity.FavoriteID(userID, productID)]
	return ok, nil
}

func (r *memoryFavoriteRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	r.mu.RLock()
	var favorites []*entity.Favorite
	for _, f := range r.favorites {
		if f.UserID == userID {
			favorite := f
			favorites = append(favorites, &favorite)
		}
	}
	r.mu.RUnlock()

	sort.Slice(favorites, func(i, j int) bool {
		if !favorites[i].CreatedAt.Equal(favorites[j].CreatedAt) {
			return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
		}
		return favorites[i].ID > favorites[j].ID
	})
	return favorites, nil
}
