package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

const offerColumns = `id, product_id, product_name, buyer_id, seller_id, amount, message, status,
	counter_amount, counter_message, counter_response_message, version, created_at, updated_at`

type offerRow struct {
	ID                     string              `db:"id"`
	ProductID              string              `db:"product_id"`
	ProductName            string              `db:"product_name"`
	BuyerID                string              `db:"buyer_id"`
	SellerID               string              `db:"seller_id"`
	Amount                 decimal.Decimal     `db:"amount"`
	Message                string              `db:"message"`
	Status                 string              `db:"status"`
	CounterAmount          decimal.NullDecimal `db:"counter_amount"`
	CounterMessage         string              `db:"counter_message"`
	CounterResponseMessage string              `db:"counter_response_message"`
	Version                int64               `db:"version"`
	CreatedAt              time.Time           `db:"created_at"`
	UpdatedAt              time.Time           `db:"updated_at"`
}

func newOfferRow(o *entity.Offer) *offerRow {
	row := &offerRow{
		ID:                     o.ID,
		ProductID:              o.ProductID,
		ProductName:            o.ProductName,
		BuyerID:                o.BuyerID,
		SellerID:               o.SellerID,
		Amount:                 o.Amount,
		Message:                o.Message,
		Status:                 string(o.Status),
		CounterMessage:         o.CounterMessage,
		CounterResponseMessage: o.CounterResponseMessage,
		Version:                o.Version,
		CreatedAt:              o.CreatedAt,
		UpdatedAt:              o.UpdatedAt,
	}
	if o.CounterAmount != nil {
		row.CounterAmount = decimal.NewNullDecimal(*o.CounterAmount)
	}
	return row
}

func (r *offerRow) toEntity() *entity.Offer {
	offer := &entity.Offer{
		ID:                     r.ID,
		ProductID:              r.ProductID,
		ProductName:            r.ProductName,
		BuyerID:                r.BuyerID,
		SellerID:               r.SellerID,
		Amount:                 r.Amount,
		Message:                r.Message,
		Status:                 entity.OfferStatus(r.Status),
		CounterMessage:         r.CounterMessage,
		CounterResponseMessage: r.CounterResponseMessage,
		Version:                r.Version,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
	if r.CounterAmount.Valid {
		counter := r.CounterAmount.Decimal
		offer.CounterAmount = &counter
	}
	return offer
}

type postgresOfferRepository struct {
	db *sqlx.DB
}

func NewPostgresOfferRepository(db *sqlx.DB) repository.OfferRepository {
	return &postgresOfferRepository{db: db}
}

func (r *postgresOfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}

	query := `
		INSERT INTO offers (` + offerColumns + `)
		VALUES (:id, :product_id, :product_name, :buyer_id, :seller_id, :amount, :message, :status,
			:counter_amount, :counter_message, :counter_response_message, :version, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, newOfferRow(offer)); err != nil {
		return errors.Internal("Failed to create offer", err)
	}

	return nil
}

func (r *postgresOfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	var row offerRow
	err := r.db.GetContext(ctx, &row, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("Offer", err)
		}
		return nil, errors.Internal("Failed to get offer", err)
	}

	return row.toEntity(), nil
}

// Transition locks the row for the lifetime of the transaction. The version
// guard on the update protects against writers that skipped the lock.
func (r *postgresOfferRepository) Transition(ctx context.Context, id string, fn repository.TransitionFunc) (*entity.Offer, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	var row offerRow
	err = tx.GetContext(ctx, &row, `SELECT `+offerColumns+` FROM offers WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("Offer", err)
		}
		return nil, errors.Internal("Failed to get offer", err)
	}

	offer := row.toEntity()
	previousVersion := offer.Version

	if err := fn(offer); err != nil {
		return nil, err
	}

	updated := newOfferRow(offer)
	result, err := tx.ExecContext(ctx, `
		UPDATE offers
		SET status = $1,
		    counter_amount = $2,
		    counter_message = $3,
		    counter_response_message = $4,
		    version = $5,
		    updated_at = $6
		WHERE id = $7 AND version = $8
	`,
		updated.Status,
		updated.CounterAmount,
		updated.CounterMessage,
		updated.CounterResponseMessage,
		updated.Version,
		updated.UpdatedAt,
		id,
		previousVersion,
	)
	if err != nil {
		return nil, errors.Internal("Failed to update offer", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Internal("Failed to get rows affected", err)
	}
	if rows == 0 {
		return nil, errors.InvalidState("Offer was modified concurrently")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Internal("Failed to commit transaction", err)
	}

	return offer, nil
}

func (r *postgresOfferRepository) List(ctx context.Context, filter entity.OfferFilter, limit, offset int) ([]*entity.Offer, int64, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if filter.BuyerID != "" {
		conditions = append(conditions, "buyer_id = :buyer_id")
		args["buyer_id"] = filter.BuyerID
	}
	if filter.SellerID != "" {
		conditions = append(conditions, "seller_id = :seller_id")
		args["seller_id"] = filter.SellerID
	}
	if filter.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = filter.ProductID
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = string(filter.Status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	total, err := namedCount(ctx, r.db, "SELECT count(*) FROM offers"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count offers", err)
	}

	query := "SELECT " + offerColumns + " FROM offers" + whereClause + " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Internal("Failed to prepare offer query", err)
	}
	defer nstmt.Close()

	var rows []offerRow
	if err := nstmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, 0, errors.Internal("Failed to list offers", err)
	}

	offers := make([]*entity.Offer, 0, len(rows))
	for i := range rows {
		offers = append(offers, rows[i].toEntity())
	}

	return offers, total, nil
}

func (r *postgresOfferRepository) CreateLog(ctx context.Context, log *entity.OfferLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO offer_logs (id, offer_id, from_status, to_status, actor_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, log.ID, log.OfferID, string(log.FromStatus), string(log.ToStatus), log.ActorID, log.Note, log.CreatedAt)
	if err != nil {
		return errors.Internal("Failed to create offer log", err)
	}

	return nil
}

func (r *postgresOfferRepository) ListLogsByOfferID(ctx context.Context, offerID string) ([]*entity.OfferLog, error) {
	var rows []struct {
		ID         string    `db:"id"`
		OfferID    string    `db:"offer_id"`
		FromStatus string    `db:"from_status"`
		ToStatus   string    `db:"to_status"`
		ActorID    string    `db:"actor_id"`
		Note       string    `db:"note"`
		CreatedAt  time.Time `db:"created_at"`
	}

	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, offer_id, from_status, to_status, actor_id, note, created_at
		FROM offer_logs
		WHERE offer_id = $1
		ORDER BY created_at ASC
	`, offerID)
	if err != nil {
		return nil, errors.Internal("Failed to list offer logs", err)
	}

	logs := make([]*entity.OfferLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, &entity.OfferLog{
			ID:         row.ID,
			OfferID:    row.OfferID,
			FromStatus: entity.OfferStatus(row.FromStatus),
			ToStatus:   entity.OfferStatus(row.ToStatus),
			ActorID:    row.ActorID,
			Note:       row.Note,
			CreatedAt:  row.CreatedAt,
		})
	}

	return logs, nil
}

func namedCount(ctx context.Context, db *sqlx.DB, query string, args map[string]interface{}) (int64, error) {
	rows, err := db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}
