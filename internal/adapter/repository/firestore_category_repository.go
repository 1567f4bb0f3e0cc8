package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

const categoriesCollection = "categories"

type categoryDocument struct {
	Value     string `firestore:"value"`
	Label     string `firestore:"label"`
	SortOrder int    `firestore:"sortOrder"`
}

func (d *categoryDocument) toEntity() *entity.Category {
	return &entity.Category{Value: d.Value, Label: d.Label, SortOrder: d.SortOrder}
}

type firestoreCategoryRepository struct {
	client *firestore.Client
}

func NewFirestoreCategoryRepository(client *firestore.Client) repository.CategoryRepository {
	return &firestoreCategoryRepository{
		client: client,
	}
}

func (r *firestoreCategoryRepository) Seed(ctx context.Context, categories []*entity.Category) error {
	for _, c := range categories {
		ref := r.client.Collection(categoriesCollection).Doc(c.Value)
		_, err := ref.Create(ctx, &categoryDocument{Value: c.Value, Label: c.Label, SortOrder: c.SortOrder})
		if err != nil && status.Code(err) != codes.AlreadyExists {
			return errors.Internal("Failed to seed category "+c.Value, err)
		}
	}
	return nil
}

func (r *firestoreCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	iter := r.client.Collection(categoriesCollection).OrderBy("sortOrder", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var categories []*entity.Category
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list categories", err)
		}

		var c categoryDocument
		if err := doc.DataTo(&c); err != nil {
			return nil, errors.Internal("Failed to parse category data", err)
		}
		categories = append(categories, c.toEntity())
	}

	return categories, nil
}

func (r *firestoreCategoryRepository) GetByValue(ctx context.Context, value string) (*entity.Category, error) {
	if value == "" {
		return nil, errors.NotFound("Category", nil)
	}

	doc, err := r.client.Collection(categoriesCollection).Doc(value).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Category", err)
		}
		return nil, errors.Internal("Failed to get category", err)
	}

	var c categoryDocument
	if err := doc.DataTo(&c); err != nil {
		return nil, errors.Internal("Failed to parse category data", err)
	}
	return c.toEntity(), nil
}
