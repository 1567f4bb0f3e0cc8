package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

const productsCollection = "products"

// Firestore caps GetAll batches used for favorite lookups.
const productBatchSize = 30

type productDocument struct {
	ID          string    `firestore:"id"`
	SellerID    string    `firestore:"sellerId"`
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	Category    string    `firestore:"category"`
	Location    string    `firestore:"location"`
	Revenue     string    `firestore:"revenue"`
	AskValue    string    `firestore:"askValue"`
	Profit      string    `firestore:"profit"`
	Image       string    `firestore:"image,omitempty"`
	Documents   []string  `firestore:"documents"`
	IsActive    bool      `firestore:"isActive"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func newProductDocument(p *entity.Product) *productDocument {
	return &productDocument{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Location:    p.Location,
		Revenue:     p.Revenue.String(),
		AskValue:    p.AskValue.String(),
		Profit:      p.Profit.String(),
		Image:       p.Image,
		Documents:   p.Documents,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d *productDocument) toEntity() *entity.Product {
	return &entity.Product{
		ID:          d.ID,
		SellerID:    d.SellerID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		Revenue:     parseDecimal(d.Revenue),
		AskValue:    parseDecimal(d.AskValue),
		Profit:      parseDecimal(d.Profit),
		Image:       d.Image,
		Documents:   d.Documents,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		doc := r.client.Collection(productsCollection).NewDoc()
		product.ID = doc.ID
	}

	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, newProductDocument(product))
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection(productsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	var product productDocument
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}

	return product.toEntity(), nil
}

func (r *firestoreProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(ids))

	for i := 0; i < len(ids); i += productBatchSize {
		end := i + productBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		refs := make([]*firestore.DocumentRef, 0, end-i)
		for _, id := range ids[i:end] {
			refs = append(refs, r.client.Collection(productsCollection).Doc(id))
		}

		docs, err := r.client.GetAll(ctx, refs)
		if err != nil {
			return nil, errors.Internal("Failed to batch fetch products", err)
		}

		for _, doc := range docs {
			if doc == nil || !doc.Exists() {
				continue
			}
			var product productDocument
			if err := doc.DataTo(&product); err != nil {
				continue
			}
			products[doc.Ref.ID] = product.toEntity()
		}
	}

	return products, nil
}

func (r *firestoreProductRepository) ListActive(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection(productsCollection).Query.Where("isActive", "==", true)
	return r.list(ctx, query, limit, offset)
}

func (r *firestoreProductRepository) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection(productsCollection).Query.Where("sellerId", "==", sellerID)
	return r.list(ctx, query, limit, offset)
}

func (r *firestoreProductRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.client.Collection(productsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: active},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Product", err)
		}
		return errors.Internal("Failed to update product", err)
	}

	return nil
}

func (r *firestoreProductRepository) list(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Product, int64, error) {
	total, err := countQuery(ctx, query)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count products", err)
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

	products := []*entity.Product{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate products", err)
		}

		var product productDocument
		if err := doc.DataTo(&product); err != nil {
			return nil, 0, errors.Internal("Failed to parse product data", err)
		}
		products = append(products, product.toEntity())
	}

	return products, total, nil
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
