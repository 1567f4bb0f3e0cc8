package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

type memoryOfferRepository struct {
	mu     sync.Mutex
	offers map[string]*entity.Offer
	logs   map[string][]*entity.OfferLog
}

// NewMemoryOfferRepository keeps offers in process memory. It backs the
// "memory" storage driver and the use case tests.
func NewMemoryOfferRepository() repository.OfferRepository {
	return &memoryOfferRepository{
		offers: make(map[string]*entity.Offer),
		logs:   make(map[string][]*entity.OfferLog),
	}
}

func (r *memoryOfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.offers[offer.ID]; exists {
		return errors.Internal("Failed to create offer", nil)
	}
	r.offers[offer.ID] = cloneOffer(offer)
	return nil
}

func (r *memoryOfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	offer, ok := r.offers[id]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}
	return cloneOffer(offer), nil
}

func (r *memoryOfferRepository) Transition(ctx context.Context, id string, fn repository.TransitionFunc) (*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.offers[id]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}

	working := cloneOffer(stored)
	if err := fn(working); err != nil {
		return nil, err
	}

	r.offers[id] = cloneOffer(working)
	return working, nil
}

func (r *memoryOfferRepository) List(ctx context.Context, filter entity.OfferFilter, limit, offset int) ([]*entity.Offer, int64, error) {
	r.mu.Lock()
	var matched []*entity.Offer
	for _, offer := range r.offers {
		if matchesFilter(offer, filter) {
			matched = append(matched, cloneOffer(offer))
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	return paginate(matched, limit, offset), total, nil
}

func (r *memoryOfferRepository) CreateLog(ctx context.Context, log *entity.OfferLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := *log
	r.logs[log.OfferID] = append(r.logs[log.OfferID], &entry)
	return nil
}

func (r *memoryOfferRepository) ListLogsByOfferID(ctx context.Context, offerID string) ([]*entity.OfferLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs := make([]*entity.OfferLog, 0, len(r.logs[offerID]))
	for _, l := range r.logs[offerID] {
		entry := *l
		logs = append(logs, &entry)
	}
	return logs, nil
}

func matchesFilter(offer *entity.Offer, filter entity.OfferFilter) bool {
	if filter.BuyerID != "" && offer.BuyerID != filter.BuyerID {
		return false
	}
	if filter.SellerID != "" && offer.SellerID != filter.SellerID {
		return false
	}
	if filter.ProductID != "" && offer.ProductID != filter.ProductID {
		return false
	}
	if filter.Status != "" && offer.Status != filter.Status {
		return false
	}
	return true
}

func cloneOffer(o *entity.Offer) *entity.Offer {
	c := *o
	if o.CounterAmount != nil {
		amount := *o.CounterAmount
		c.CounterAmount = &amount
	}
	return &c
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
