package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

const (
	offersCollection    = "offers"
	offerLogsCollection = "offer_logs"
)

// offerDocument is the Firestore shape of an offer. Money is stored as
// decimal strings so no precision is lost to float64.
type offerDocument struct {
	ID                     string    `firestore:"id"`
	ProductID              string    `firestore:"productId"`
	ProductName            string    `firestore:"productName"`
	BuyerID                string    `firestore:"buyerId"`
	SellerID               string    `firestore:"sellerId"`
	Amount                 string    `firestore:"amount"`
	Message                string    `firestore:"message,omitempty"`
	Status                 string    `firestore:"status"`
	CounterAmount          string    `firestore:"counterAmount,omitempty"`
	CounterMessage         string    `firestore:"counterMessage,omitempty"`
	CounterResponseMessage string    `firestore:"counterResponseMessage,omitempty"`
	Version                int64     `firestore:"version"`
	CreatedAt              time.Time `firestore:"createdAt"`
	UpdatedAt              time.Time `firestore:"updatedAt"`
}

func newOfferDocument(o *entity.Offer) *offerDocument {
	doc := &offerDocument{
		ID:                     o.ID,
		ProductID:              o.ProductID,
		ProductName:            o.ProductName,
		BuyerID:                o.BuyerID,
		SellerID:               o.SellerID,
		Amount:                 o.Amount.String(),
		Message:                o.Message,
		Status:                 string(o.Status),
		CounterMessage:         o.CounterMessage,
		CounterResponseMessage: o.CounterResponseMessage,
		Version:                o.Version,
		CreatedAt:              o.CreatedAt,
		UpdatedAt:              o.UpdatedAt,
	}
	if o.CounterAmount != nil {
		doc.CounterAmount = o.CounterAmount.String()
	}
	return doc
}

func (d *offerDocument) toEntity() (*entity.Offer, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, err
	}

	offer := &entity.Offer{
		ID:                     d.ID,
		ProductID:              d.ProductID,
		ProductName:            d.ProductName,
		BuyerID:                d.BuyerID,
		SellerID:               d.SellerID,
		Amount:                 amount,
		Message:                d.Message,
		Status:                 entity.OfferStatus(d.Status),
		CounterMessage:         d.CounterMessage,
		CounterResponseMessage: d.CounterResponseMessage,
		Version:                d.Version,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}

	if d.CounterAmount != "" {
		counter, err := decimal.NewFromString(d.CounterAmount)
		if err != nil {
			return nil, err
		}
		offer.CounterAmount = &counter
	}
	return offer, nil
}

type firestoreOfferRepository struct {
	client *firestore.Client
}

func NewFirestoreOfferRepository(client *firestore.Client) repository.OfferRepository {
	return &firestoreOfferRepository{
		client: client,
	}
}

func (r *firestoreOfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}

	_, err := r.client.Collection(offersCollection).Doc(offer.ID).Create(ctx, newOfferDocument(offer))
	if err != nil {
		return errors.Internal("Failed to create offer", err)
	}

	return nil
}

func (r *firestoreOfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	doc, err := r.client.Collection(offersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Offer", err)
		}
		return nil, errors.Internal("Failed to get offer", err)
	}

	return decodeOffer(doc)
}

func (r *firestoreOfferRepository) Transition(ctx context.Context, id string, fn repository.TransitionFunc) (*entity.Offer, error) {
	ref := r.client.Collection(offersCollection).Doc(id)

	var result *entity.Offer
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Offer", err)
			}
			return errors.Internal("Failed to get offer", err)
		}

		offer, err := decodeOffer(snap)
		if err != nil {
			return err
		}

		if err := fn(offer); err != nil {
			return err
		}

		result = offer
		return tx.Set(ref, newOfferDocument(offer))
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *firestoreOfferRepository) List(ctx context.Context, filter entity.OfferFilter, limit, offset int) ([]*entity.Offer, int64, error) {
	query := r.client.Collection(offersCollection).Query

	if filter.BuyerID != "" {
		query = query.Where("buyerId", "==", filter.BuyerID)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.ProductID != "" {
		query = query.Where("productId", "==", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}

	total, err := countQuery(ctx, query)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count offers", err)
	}

	query = query.OrderBy("createdAt", firestore.Desc).OrderBy("id", firestore.Desc)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	offers := []*entity.Offer{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate offers", err)
		}

		offer, err := decodeOffer(doc)
		if err != nil {
			return nil, 0, err
		}
		offers = append(offers, offer)
	}

	return offers, total, nil
}

func (r *firestoreOfferRepository) CreateLog(ctx context.Context, log *entity.OfferLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := r.client.Collection(offerLogsCollection).Doc(log.ID).Set(ctx, map[string]interface{}{
		"id":         log.ID,
		"offerId":    log.OfferID,
		"fromStatus": string(log.FromStatus),
		"toStatus":   string(log.ToStatus),
		"actorId":    log.ActorID,
		"note":       log.Note,
		"createdAt":  log.CreatedAt,
	})
	if err != nil {
		return errors.Internal("Failed to create offer log", err)
	}

	return nil
}

func (r *firestoreOfferRepository) ListLogsByOfferID(ctx context.Context, offerID string) ([]*entity.OfferLog, error) {
	query := r.client.Collection(offerLogsCollection).
		Where("offerId", "==", offerID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	logs := []*entity.OfferLog{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate offer logs", err)
		}

		var raw struct {
			ID         string    `firestore:"id"`
			OfferID    string    `firestore:"offerId"`
			FromStatus string    `firestore:"fromStatus"`
			ToStatus   string    `firestore:"toStatus"`
			ActorID    string    `firestore:"actorId"`
			Note       string    `firestore:"note"`
			CreatedAt  time.Time `firestore:"createdAt"`
		}
		if err := doc.DataTo(&raw); err != nil {
			return nil, errors.Internal("Failed to parse offer log data", err)
		}

		logs = append(logs, &entity.OfferLog{
			ID:         raw.ID,
			OfferID:    raw.OfferID,
			FromStatus: entity.OfferStatus(raw.FromStatus),
			ToStatus:   entity.OfferStatus(raw.ToStatus),
			ActorID:    raw.ActorID,
			Note:       raw.Note,
			CreatedAt:  raw.CreatedAt,
		})
	}

	return logs, nil
}

func decodeOffer(snap *firestore.DocumentSnapshot) (*entity.Offer, error) {
	var doc offerDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Internal("Failed to parse offer data", err)
	}

	offer, err := doc.toEntity()
	if err != nil {
		return nil, errors.Internal("Failed to parse offer amount", err)
	}
	return offer, nil
}

func countQuery(ctx context.Context, query firestore.Query) (int64, error) {
	results, err := query.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, err
	}

	value, ok := results["total"].(*firestorepb.Value)
	if !ok {
		return 0, nil
	}
	return value.GetIntegerValue(), nil
}
