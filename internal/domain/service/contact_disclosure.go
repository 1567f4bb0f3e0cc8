package service

import (
	"startupmarket/internal/domain/entity"
)

// DiscloseContacts returns both parties' contact details when the offer has
// been accepted (directly or via counter-offer) and nil otherwise. It is the
// only place contact details are derived from profiles.
func DiscloseContacts(status entity.OfferStatus, buyer, seller *entity.User) *entity.ContactExchange {
	if !status.IsAccepted() || buyer == nil || seller == nil {
		return nil
	}

	return &entity.ContactExchange{
		BuyerContact:  buyer.Contact(),
		SellerContact: seller.Contact(),
	}
}
