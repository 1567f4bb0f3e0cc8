package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/internal/domain/service"
	"startupmarket/pkg/errors"
	"startupmarket/pkg/logger"
	"startupmarket/pkg/utils"
)

type OfferUseCase struct {
	offerRepo   repository.OfferRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	notifier    service.OfferNotifier
}

func NewOfferUseCase(
	offerRepo repository.OfferRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notifier service.OfferNotifier,
) *OfferUseCase {
	if notifier == nil {
		notifier = service.NewMultiNotifier()
	}
	return &OfferUseCase{
		offerRepo:   offerRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

type CreateOfferInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Message   string          `json:"message" validate:"max=2000"`
}

type CounterOfferInput struct {
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message" validate:"max=2000"`
}

type CounterResponseType string

const (
	CounterResponseAccept CounterResponseType = "accept"
	CounterResponseReject CounterResponseType = "reject"
)

type RespondToCounterInput struct {
	ResponseType CounterResponseType `json:"response_type" validate:"required,oneof=accept reject"`
	Message      string              `json:"message" validate:"max=2000"`
}

// OfferActionResult is returned by every transition. Contacts are set only
// once the offer reached an accepted state.
type OfferActionResult struct {
	Offer         *entity.Offer    `json:"offer"`
	BuyerContact  *entity.Contact  `json:"buyer_contact,omitempty"`
	SellerContact *entity.Contact  `json:"seller_contact,omitempty"`
	AgreedAmount  *decimal.Decimal `json:"agreed_amount,omitempty"`
}

type ListOffersInput struct {
	Status   entity.OfferStatus
	Page     int
	PageSize int
}

func (uc *OfferUseCase) CreateOffer(ctx context.Context, buyerID string, input CreateOfferInput) (*entity.Offer, error) {
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, buyerID); err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Validation("Complete your profile before making an offer")
		}
		return nil, err
	}

	offer, err := entity.NewOffer(product, buyerID, input.Amount, input.Message)
	if err != nil {
		return nil, err
	}
	offer.ID = uuid.New().String()

	if err := uc.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	logger.Info("Offer %s created by %s on product %s", offer.ID, buyerID, product.ID)

	uc.recordLog(ctx, offer, "", buyerID, offer.Message)
	uc.notify(ctx, entity.OfferEventCreated, offer, buyerID, offer.SellerID)

	return offer, nil
}

// GetOffer returns the offer to either party. Anyone else gets NotFound.
func (uc *OfferUseCase) GetOffer(ctx context.Context, offerID, requesterID string) (*entity.Offer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if !offer.IsParty(requesterID) {
		return nil, errors.NotFound("Offer", nil)
	}

	return offer, nil
}

func (uc *OfferUseCase) History(ctx context.Context, offerID, requesterID string) ([]*entity.OfferLog, error) {
	if _, err := uc.GetOffer(ctx, offerID, requesterID); err != nil {
		return nil, err
	}

	return uc.offerRepo.ListLogsByOfferID(ctx, offerID)
}

func (uc *OfferUseCase) Accept(ctx context.Context, offerID, actorID string) (*OfferActionResult, error) {
	return uc.transition(ctx, offerID, actorID, "", func(o *entity.Offer) error {
		return o.Accept(actorID)
	})
}

func (uc *OfferUseCase) Reject(ctx context.Context, offerID, actorID string) (*OfferActionResult, error) {
	return uc.transition(ctx, offerID, actorID, "", func(o *entity.Offer) error {
		return o.Reject(actorID)
	})
}

func (uc *OfferUseCase) Counter(ctx context.Context, offerID, actorID string, input CounterOfferInput) (*OfferActionResult, error) {
	return uc.transition(ctx, offerID, actorID, input.Message, func(o *entity.Offer) error {
		return o.Counter(actorID, input.Amount, input.Message)
	})
}

func (uc *OfferUseCase) RespondToCounter(ctx context.Context, offerID, actorID string, input RespondToCounterInput) (*OfferActionResult, error) {
	switch input.ResponseType {
	case CounterResponseAccept:
		return uc.transition(ctx, offerID, actorID, input.Message, func(o *entity.Offer) error {
			return o.AcceptCounter(actorID, input.Message)
		})
	case CounterResponseReject:
		return uc.transition(ctx, offerID, actorID, input.Message, func(o *entity.Offer) error {
			return o.RejectCounter(actorID, input.Message)
		})
	default:
		return nil, errors.Validation("response_type must be accept or reject")
	}
}

func (uc *OfferUseCase) ListReceived(ctx context.Context, userID string, input ListOffersInput) ([]*entity.Offer, int64, error) {
	return uc.list(ctx, entity.OfferFilter{SellerID: userID}, input)
}

func (uc *OfferUseCase) ListSent(ctx context.Context, userID string, input ListOffersInput) ([]*entity.Offer, int64, error) {
	return uc.list(ctx, entity.OfferFilter{BuyerID: userID}, input)
}

// ListForProduct is restricted to the product owner. Other callers, and
// unknown products, both yield NotFound.
func (uc *OfferUseCase) ListForProduct(ctx context.Context, productID, requesterID string, input ListOffersInput) ([]*entity.Offer, int64, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	if product.SellerID != requesterID {
		return nil, 0, errors.NotFound("Product", nil)
	}

	return uc.list(ctx, entity.OfferFilter{ProductID: productID}, input)
}

func (uc *OfferUseCase) list(ctx context.Context, filter entity.OfferFilter, input ListOffersInput) ([]*entity.Offer, int64, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, 0, errors.Validation("Invalid status filter")
	}
	filter.Status = input.Status

	pagination := utils.NewPaginationParams(input.Page, input.PageSize)

	return uc.offerRepo.List(ctx, filter, pagination.PageSize, pagination.Offset)
}

// transition runs fn atomically against the stored offer and derives the
// contact exchange from the committed status. Both profiles are loaded before
// the write so a committed acceptance always carries contacts.
func (uc *OfferUseCase) transition(ctx context.Context, offerID, actorID, note string, fn repository.TransitionFunc) (*OfferActionResult, error) {
	current, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	// Dry-run on a copy so a stranger is rejected before any profile is read.
	preview := *current
	if err := fn(&preview); err != nil {
		return nil, err
	}

	var buyer, seller *entity.User
	if preview.Status.IsAccepted() {
		if buyer, err = uc.userRepo.GetByID(ctx, current.BuyerID); err != nil {
			return nil, err
		}
		if seller, err = uc.userRepo.GetByID(ctx, current.SellerID); err != nil {
			return nil, err
		}
	}

	fromStatus := current.Status
	offer, err := uc.offerRepo.Transition(ctx, offerID, fn)
	if err != nil {
		logger.Debug("Offer %s transition by %s failed: %v", offerID, actorID, err)
		return nil, err
	}

	logger.Info("Offer %s moved from %s to %s by %s", offer.ID, fromStatus, offer.Status, actorID)

	uc.recordLog(ctx, offer, fromStatus, actorID, note)

	recipient := offer.BuyerID
	if actorID == offer.BuyerID {
		recipient = offer.SellerID
	}
	uc.notify(ctx, entity.OfferEventTransitioned, offer, actorID, recipient)

	result := &OfferActionResult{Offer: offer}
	if agreed, ok := offer.AgreedAmount(); ok {
		result.AgreedAmount = &agreed
	}
	if exchange := service.DiscloseContacts(offer.Status, buyer, seller); exchange != nil {
		result.BuyerContact = &exchange.BuyerContact
		result.SellerContact = &exchange.SellerContact
	}

	return result, nil
}

func (uc *OfferUseCase) recordLog(ctx context.Context, offer *entity.Offer, from entity.OfferStatus, actorID, note string) {
	err := uc.offerRepo.CreateLog(ctx, &entity.OfferLog{
		OfferID:    offer.ID,
		FromStatus: from,
		ToStatus:   offer.Status,
		ActorID:    actorID,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		logger.LogOfferError(offer.ID, string(offer.Status), err)
	}
}

func (uc *OfferUseCase) notify(ctx context.Context, eventType entity.OfferEventType, offer *entity.Offer, actorID, recipientID string) {
	event := entity.OfferEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		OfferID:     offer.ID,
		ProductID:   offer.ProductID,
		ActorID:     actorID,
		RecipientID: recipientID,
		Status:      offer.Status,
		OccurredAt:  time.Now().UTC(),
	}

	if err := uc.notifier.Notify(ctx, event); err != nil {
		logger.Warn("Failed to deliver %s for offer %s: %v", eventType, offer.ID, err)
	}
}
