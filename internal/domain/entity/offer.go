package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"startupmarket/pkg/errors"
)

type OfferStatus string

const (
	OfferStatusPending         OfferStatus = "pending"
	OfferStatusAccepted        OfferStatus = "accepted"
	OfferStatusRejected        OfferStatus = "rejected"
	OfferStatusCountered       OfferStatus = "countered"
	OfferStatusCounterAccepted OfferStatus = "counter_accepted"
	OfferStatusCounterRejected OfferStatus = "counter_rejected"
)

func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected,
		OfferStatusCountered, OfferStatusCounterAccepted, OfferStatusCounterRejected:
		return true
	}
	return false
}

func (s OfferStatus) IsTerminal() bool {
	switch s {
	case OfferStatusAccepted, OfferStatusRejected, OfferStatusCounterAccepted, OfferStatusCounterRejected:
		return true
	}
	return false
}

// IsAccepted reports whether both parties agreed on a price.
func (s OfferStatus) IsAccepted() bool {
	return s == OfferStatusAccepted || s == OfferStatusCounterAccepted
}

type Offer struct {
	ID                     string           `json:"id"`
	ProductID              string           `json:"product_id"`
	ProductName            string           `json:"product_name"`
	BuyerID                string           `json:"buyer_id"`
	SellerID               string           `json:"seller_id"`
	Amount                 decimal.Decimal  `json:"amount"`
	Message                string           `json:"message,omitempty"`
	Status                 OfferStatus      `json:"status"`
	CounterAmount          *decimal.Decimal `json:"counter_amount,omitempty"`
	CounterMessage         string           `json:"counter_message,omitempty"`
	CounterResponseMessage string           `json:"counter_response_message,omitempty"`
	Version                int64            `json:"version"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

// NewOffer builds a pending offer from buyer against product.
func NewOffer(product *Product, buyerID string, amount decimal.Decimal, message string) (*Offer, error) {
	if buyerID == product.SellerID {
		return nil, errors.Unauthorized("Cannot make an offer on your own product", nil)
	}
	if err := ValidatePositiveMoney("amount", amount); err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, errors.Validation("Product is not accepting offers")
	}

	now := time.Now().UTC()
	return &Offer{
		ProductID:   product.ID,
		ProductName: product.Name,
		BuyerID:     buyerID,
		SellerID:    product.SellerID,
		Amount:      amount,
		Message:     message,
		Status:      OfferStatusPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (o *Offer) IsParty(userID string) bool {
	return userID != "" && (o.BuyerID == userID || o.SellerID == userID)
}

// Accept is the seller accepting a pending offer.
func (o *Offer) Accept(actorID string) error {
	if err := o.requireSeller(actorID); err != nil {
		return err
	}
	return o.moveTo(OfferStatusPending, OfferStatusAccepted)
}

// Reject is the seller rejecting a pending offer.
func (o *Offer) Reject(actorID string) error {
	if err := o.requireSeller(actorID); err != nil {
		return err
	}
	return o.moveTo(OfferStatusPending, OfferStatusRejected)
}

// Counter is the seller proposing a new price. The original amount stays untouched.
func (o *Offer) Counter(actorID string, amount decimal.Decimal, message string) error {
	if err := o.requireSeller(actorID); err != nil {
		return err
	}
	if err := ValidatePositiveMoney("counter amount", amount); err != nil {
		return err
	}
	if err := o.moveTo(OfferStatusPending, OfferStatusCountered); err != nil {
		return err
	}

	counter := amount
	o.CounterAmount = &counter
	o.CounterMessage = message
	return nil
}

// AcceptCounter is the buyer accepting the seller's counter-offer.
func (o *Offer) AcceptCounter(actorID, message string) error {
	if err := o.requireBuyer(actorID); err != nil {
		return err
	}
	if err := o.moveTo(OfferStatusCountered, OfferStatusCounterAccepted); err != nil {
		return err
	}
	o.CounterResponseMessage = message
	return nil
}

// RejectCounter is the buyer declining the seller's counter-offer.
func (o *Offer) RejectCounter(actorID, message string) error {
	if err := o.requireBuyer(actorID); err != nil {
		return err
	}
	if err := o.moveTo(OfferStatusCountered, OfferStatusCounterRejected); err != nil {
		return err
	}
	o.CounterResponseMessage = message
	return nil
}

// AgreedAmount is the price both sides settled on, if any.
func (o *Offer) AgreedAmount() (decimal.Decimal, bool) {
	switch o.Status {
	case OfferStatusAccepted:
		return o.Amount, true
	case OfferStatusCounterAccepted:
		if o.CounterAmount != nil {
			return *o.CounterAmount, true
		}
	}
	return decimal.Zero, false
}

func (o *Offer) requireSeller(actorID string) error {
	if actorID == "" || actorID != o.SellerID {
		return errors.Unauthorized("Only the seller can perform this action", nil)
	}
	return nil
}

func (o *Offer) requireBuyer(actorID string) error {
	if actorID == "" || actorID != o.BuyerID {
		return errors.Unauthorized("Only the buyer can respond to a counter offer", nil)
	}
	return nil
}

func (o *Offer) moveTo(expected, next OfferStatus) error {
	if o.Status != expected {
		return errors.InvalidState("Offer is " + string(o.Status) + ", expected " + string(expected))
	}
	o.Status = next
	o.Version++
	o.UpdatedAt = time.Now().UTC()
	return nil
}

type OfferLog struct {
	ID         string      `json:"id"`
	OfferID    string      `json:"offer_id"`
	FromStatus OfferStatus `json:"from_status,omitempty"`
	ToStatus   OfferStatus `json:"to_status"`
	ActorID    string      `json:"actor_id"`
	Note       string      `json:"note,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OfferFilter narrows offer listings.
type OfferFilter struct {
	BuyerID   string
	SellerID  string
	ProductID string
	Status    OfferStatus
}
