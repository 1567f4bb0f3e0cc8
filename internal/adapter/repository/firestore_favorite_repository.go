package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
	"startupmarket/pkg/logger"
)

const favoritesCollection = "favorites"

type favoriteDocument struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"userId"`
	ProductID string    `firestore:"productId"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func (d *favoriteDocument) toEntity() *entity.Favorite {
	return &entity.Favorite{
		ID:        d.ID,
		UserID:    d.UserID,
		ProductID: d.ProductID,
		CreatedAt: d.CreatedAt,
	}
}

type firestoreFavoriteRepository struct {
	client *firestore.Client
}

func NewFirestoreFavoriteRepository(client *firestore.Client) repository.FavoriteRepository {
	return &firestoreFavoriteRepository{client: client}
}

func (r *firestoreFavoriteRepository) Add(ctx context.Context, userID, productID string) (*entity.Favorite, error) {
	id := entity.FavoriteID(userID, productID)
	ref := r.client.Collection(favoritesCollection).Doc(id)

	doc := favoriteDocument{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}

	// Create fails on an existing document, which makes concurrent adds
	// collapse onto a single row.
	_, err := ref.Create(ctx, doc)
	if err == nil {
		logger.Debug("Added product %s to favorites for user %s", productID, userID)
		return doc.toEntity(), nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, errors.Internal("Failed to add favorite", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to get favorite", err)
	}

	var existing favoriteDocument
	if err := snap.DataTo(&existing); err != nil {
		return nil, errors.Internal("Failed to parse favorite", err)
	}
	return existing.toEntity(), nil
}

func (r *firestoreFavoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	// Deleting a missing document is a no-op in Firestore.
	_, err := r.client.Collection(favoritesCollection).Doc(entity.FavoriteID(userID, productID)).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to remove favorite", err)
	}

	return nil
}

func (r *firestoreFavoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	doc, err := r.client.Collection(favoritesCollection).Doc(entity.FavoriteID(userID, productID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to check favorite", err)
	}

	return doc.Exists(), nil
}

func (r *firestoreFavoriteRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	iter := r.client.Collection(favoritesCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	favorites := []*entity.Favorite{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to get favorites", err)
		}

		var item favoriteDocument
		if err := doc.DataTo(&item); err != nil {
			logger.Warn("Error parsing favorite %s: %v", doc.Ref.ID, err)
			continue
		}
		favorites = append(favorites, item.toEntity())
	}

	return favorites, nil
}
