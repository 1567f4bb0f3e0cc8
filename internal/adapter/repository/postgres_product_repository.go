package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

const productColumns = `id, seller_id, name, description, category, location, revenue, ask_value, profit,
	image, documents, is_active, created_at, updated_at`

type productRow struct {
	ID          string          `db:"id"`
	SellerID    string          `db:"seller_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	Location    string          `db:"location"`
	Revenue     decimal.Decimal `db:"revenue"`
	AskValue    decimal.Decimal `db:"ask_value"`
	Profit      decimal.Decimal `db:"profit"`
	Image       string          `db:"image"`
	Documents   pq.StringArray  `db:"documents"`
	IsActive    bool            `db:"is_active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:          r.ID,
		SellerID:    r.SellerID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		Revenue:     r.Revenue,
		AskValue:    r.AskValue,
		Profit:      r.Profit,
		Image:       r.Image,
		Documents:   []string(r.Documents),
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type postgresProductRepository struct {
	db *sqlx.DB
}

func NewPostgresProductRepository(db *sqlx.DB) repository.ProductRepository {
	return &postgresProductRepository{db: db}
}

func (r *postgresProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	documents := product.Documents
	if documents == nil {
		documents = []string{}
	}

	row := &productRow{
		ID:          product.ID,
		SellerID:    product.SellerID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Location:    product.Location,
		Revenue:     product.Revenue,
		AskValue:    product.AskValue,
		Profit:      product.Profit,
		Image:       product.Image,
		Documents:   pq.StringArray(documents),
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (:id, :seller_id, :name, :description, :category, :location, :revenue, :ask_value, :profit,
			:image, :documents, :is_active, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *postgresProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	return row.toEntity(), nil
}

func (r *postgresProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Internal("Failed to build product query", err)
	}

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Internal("Failed to batch fetch products", err)
	}

	for i := range rows {
		products[rows[i].ID] = rows[i].toEntity()
	}

	return products, nil
}

func (r *postgresProductRepository) ListActive(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	return r.list(ctx, "is_active = TRUE", nil, limit, offset)
}

func (r *postgresProductRepository) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error) {
	return r.list(ctx, "seller_id = $1", []interface{}{sellerID}, limit, offset)
}

func (r *postgresProductRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products SET is_active = $1, updated_at = $2 WHERE id = $3
	`, active, time.Now().UTC(), id)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal("Failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NotFound("Product", nil)
	}

	return nil
}

func (r *postgresProductRepository) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*entity.Product, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT count(*) FROM products WHERE "+where, args...); err != nil {
		return nil, 0, errors.Internal("Failed to count products", err)
	}

	query := "SELECT " + productColumns + " FROM products WHERE " + where + " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, errors.Internal("Failed to list products", err)
	}

	products := make([]*entity.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toEntity())
	}

	return products, total, nil
}
