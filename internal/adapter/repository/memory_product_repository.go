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

type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]*entity.Product
}

func NewMemoryProductRepository() repository.ProductRepository {
	return &memoryProductRepository{products: make(map[string]*entity.Product)}
}

func (r *memoryProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *memoryProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	return cloneProduct(product), nil
}

func (r *memoryProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			result[id] = cloneProduct(product)
		}
	}
	return result, nil
}

func (r *memoryProductRepository) ListActive(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	return r.list(func(p *entity.Product) bool { return p.IsActive }, limit, offset)
}

func (r *memoryProductRepository) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error) {
	return r.list(func(p *entity.Product) bool { return p.SellerID == sellerID }, limit, offset)
}

func (r *memoryProductRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	product.IsActive = active
	product.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryProductRepository) list(keep func(*entity.Product) bool, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.RLock()
	var matched []*entity.Product
	for _, product := range r.products {
		if keep(product) {
			matched = append(matched, cloneProduct(product))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return paginate(matched, limit, offset), int64(len(matched)), nil
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	c.Documents = append([]string(nil), p.Documents...)
	return &c
}
