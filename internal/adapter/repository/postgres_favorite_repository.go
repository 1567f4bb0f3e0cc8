package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

type favoriteRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ProductID string    `db:"product_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *favoriteRow) toEntity() *entity.Favorite {
	return &entity.Favorite{
		ID:        r.ID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		CreatedAt: r.CreatedAt,
	}
}

type postgresFavoriteRepository struct {
	db *sqlx.DB
}

func NewPostgresFavoriteRepository(db *sqlx.DB) repository.FavoriteRepository {
	return &postgresFavoriteRepository{db: db}
}

func (r *postgresFavoriteRepository) Add(ctx context.Context, userID, productID string) (*entity.Favorite, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, entity.FavoriteID(userID, productID), userID, productID, time.Now().UTC())
	if err != nil {
		return nil, errors.Internal("Failed to add favorite", err)
	}

	var row favoriteRow
	err = r.db.GetContext(ctx, &row, `
		SELECT id, user_id, product_id, created_at FROM favorites WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return nil, errors.Internal("Failed to get favorite", err)
	}

	return row.toEntity(), nil
}

func (r *postgresFavoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return errors.Internal("Failed to remove favorite", err)
	}

	return nil
}

func (r *postgresFavoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)
	`, userID, productID)
	if err != nil {
		return false, errors.Internal("Failed to check favorite", err)
	}

	return exists, nil
}

func (r *postgresFavoriteRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	var rows []favoriteRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, product_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, errors.Internal("Failed to get favorites", err)
	}

	favorites := make([]*entity.Favorite, 0, len(rows))
	for i := range rows {
		favorites = append(favorites, rows[i].toEntity())
	}

	return favorites, nil
}
