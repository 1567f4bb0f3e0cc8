package entity

import (
	"time"
)

type OfferEventType string

const (
	OfferEventCreated      OfferEventType = "offer.created"
	OfferEventTransitioned OfferEventType = "offer.transitioned"
)

// OfferEvent is pushed to the counterparty after a committed change.
// It never carries contact details.
type OfferEvent struct {
	ID          string         `json:"id"`
	Type        OfferEventType `json:"type"`
	OfferID     string         `json:"offer_id"`
	ProductID   string         `json:"product_id"`
	ActorID     string         `json:"actor_id"`
	RecipientID string         `json:"recipient_id"`
	Status      OfferStatus    `json:"status"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
