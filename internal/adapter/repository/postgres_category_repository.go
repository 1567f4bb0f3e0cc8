package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jmoiron/sqlx"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

type categoryRow struct {
	Value     string `db:"value"`
	Label     string `db:"label"`
	SortOrder int    `db:"sort_order"`
}

type postgresCategoryRepository struct {
	db *sqlx.DB
}

func NewPostgresCategoryRepository(db *sqlx.DB) repository.CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

func (r *postgresCategoryRepository) Seed(ctx context.Context, categories []*entity.Category) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO categories (value, label, sort_order)
		VALUES (:value, :label, :sort_order)
		ON CONFLICT (value) DO NOTHING
	`)
	if err != nil {
		return errors.Internal("Failed to prepare category seed", err)
	}
	defer stmt.Close()

	for _, c := range categories {
		row := categoryRow{Value: c.Value, Label: c.Label, SortOrder: c.SortOrder}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return errors.Internal("Failed to seed category "+c.Value, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Internal("Failed to commit category seed", err)
	}
	return nil
}

func (r *postgresCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	var rows []categoryRow
	err := r.db.SelectContext(ctx, &rows, `SELECT value, label, sort_order FROM categories ORDER BY sort_order, value`)
	if err != nil {
		return nil, errors.Internal("Failed to list categories", err)
	}

	categories := make([]*entity.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, &entity.Category{Value: row.Value, Label: row.Label, SortOrder: row.SortOrder})
	}
	return categories, nil
}

func (r *postgresCategoryRepository) GetByValue(ctx context.Context, value string) (*entity.Category, error) {
	var row categoryRow
	err := r.db.GetContext(ctx, &row, `SELECT value, label, sort_order FROM categories WHERE value = $1`, value)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("Category", err)
		}
		return nil, errors.Internal("Failed to get category", err)
	}
	return &entity.Category{Value: row.Value, Label: row.Label, SortOrder: row.SortOrder}, nil
}
