package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startupmarket/internal/domain/entity"
)

func TestDiscloseContacts(t *testing.T) {
	buyer := &entity.User{ID: "b", Name: "Bea Buyer", Email: "bea@example.com", Phone: "+1 555 0100"}
	seller := &entity.User{ID: "s", Name: "Sam Seller", Email: "sam@example.com"}

	tests := []struct {
		status   entity.OfferStatus
		disclose bool
	}{
		{entity.OfferStatusPending, false},
		{entity.OfferStatusRejected, false},
		{entity.OfferStatusCountered, false},
		{entity.OfferStatusCounterRejected, false},
		{entity.OfferStatusAccepted, true},
		{entity.OfferStatusCounterAccepted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			exchange := DiscloseContacts(tt.status, buyer, seller)
			if !tt.disclose {
				assert.Nil(t, exchange)
				return
			}

			require.NotNil(t, exchange)
			assert.Equal(t, entity.Contact{Name: "Bea Buyer", Email: "bea@example.com", Phone: "+1 555 0100"}, exchange.BuyerContact)
			assert.Equal(t, entity.Contact{Name: "Sam Seller", Email: "sam@example.com"}, exchange.SellerContact)
		})
	}
}

func TestDiscloseContactsMissingProfile(t *testing.T) {
	seller := &entity.User{ID: "s", Name: "Sam", Email: "sam@example.com"}

	assert.Nil(t, DiscloseContacts(entity.OfferStatusAccepted, nil, seller))
	assert.Nil(t, DiscloseContacts(entity.OfferStatusAccepted, seller, nil))
}

type recordingNotifier struct {
	events []entity.OfferEvent
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, event entity.OfferEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func TestMultiNotifier(t *testing.T) {
	first := &recordingNotifier{err: errors.New("socket closed")}
	second := &recordingNotifier{}

	notifier := NewMultiNotifier(first, nil, second)
	err := notifier.Notify(context.Background(), entity.OfferEvent{OfferID: "o-1"})

	assert.ErrorContains(t, err, "socket closed")
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}

func TestMultiNotifierEmpty(t *testing.T) {
	assert.NoError(t, NewMultiNotifier().Notify(context.Background(), entity.OfferEvent{}))
}
