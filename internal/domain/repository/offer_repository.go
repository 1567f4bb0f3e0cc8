package repository

import (
	"context"

	"startupmarket/internal/domain/entity"
)

// TransitionFunc mutates an offer in place. Returning an error aborts the
// write and the error is passed back to the caller unchanged.
type TransitionFunc func(offer *entity.Offer) error

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	GetByID(ctx context.Context, id string) (*entity.Offer, error)

	// Transition loads the offer, applies fn and persists the result as one
	// atomic step. Of several concurrent transitions on the same offer only one
	// observes the pre-transition state.
	Transition(ctx context.Context, id string, fn TransitionFunc) (*entity.Offer, error)

	// List returns offers matching filter ordered by createdAt desc, id desc.
	List(ctx context.Context, filter entity.OfferFilter, limit, offset int) ([]*entity.Offer, int64, error)

	CreateLog(ctx context.Context, log *entity.OfferLog) error
	ListLogsByOfferID(ctx context.Context, offerID string) ([]*entity.OfferLog, error)
}
