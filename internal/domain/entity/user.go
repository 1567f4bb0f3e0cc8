package entity

import (
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact is the subset of a profile exchanged once an offer is accepted.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func (u *User) Contact() Contact {
	return Contact{
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}

type ContactExchange struct {
	BuyerContact  Contact `json:"buyer_contact"`
	SellerContact Contact `json:"seller_contact"`
}
