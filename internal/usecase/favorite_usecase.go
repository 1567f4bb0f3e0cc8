package usecase

import (
	"context"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/logger"
	"startupmarket/pkg/utils"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteUseCase(
	favoriteRepo repository.FavoriteRepository,
	productRepo repository.ProductRepository,
) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

// AddFavorite is idempotent. Adding a product twice returns the first row.
func (u *FavoriteUseCase) AddFavorite(ctx context.Context, userID, productID string) (*entity.FavoriteWithProduct, error) {
	logger.Debug("Adding product %s to favorites for user %s", productID, userID)

	product, err := u.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	favorite, err := u.favoriteRepo.Add(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	return &entity.FavoriteWithProduct{
		ID:        favorite.ID,
		UserID:    favorite.UserID,
		ProductID: favorite.ProductID,
		Product:   product,
		CreatedAt: favorite.CreatedAt,
	}, nil
}

func (u *FavoriteUseCase) RemoveFavorite(ctx context.Context, userID, productID string) error {
	logger.Debug("Removing product %s from favorites for user %s", productID, userID)

	return u.favoriteRepo.Remove(ctx, userID, productID)
}

// ListFavorites pages over the user's favorites whose product is still listed.
func (u *FavoriteUseCase) ListFavorites(ctx context.Context, userID string, page, pageSize int) ([]*entity.FavoriteWithProduct, int64, error) {
	favorites, err := u.favoriteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ProductID)
	}

	products, err := u.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	visible := make([]*entity.FavoriteWithProduct, 0, len(favorites))
	for _, f := range favorites {
		product, ok := products[f.ProductID]
		if !ok || !product.IsActive {
			continue
		}
		visible = append(visible, &entity.FavoriteWithProduct{
			ID:        f.ID,
			UserID:    f.UserID,
			ProductID: f.ProductID,
			Product:   product,
			CreatedAt: f.CreatedAt,
		})
	}

	pagination := utils.NewPaginationParams(page, pageSize)

	total := int64(len(visible))
	if pagination.Offset < 0 || pagination.Offset >= len(visible) {
		return []*entity.FavoriteWithProduct{}, total, nil
	}
	end := len(visible)
	if pagination.Offset+pagination.PageSize < end {
		end = pagination.Offset + pagination.PageSize
	}

	return visible[pagination.Offset:end], total, nil
}

func (u *FavoriteUseCase) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	return u.favoriteRepo.Exists(ctx, userID, productID)
}

func (u *FavoriteUseCase) CountFavorites(ctx context.Context, userID string) (int64, error) {
	favorites, err := u.favoriteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(favorites)), nil
}
