package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"seller_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Location    string          `json:"location"`
	Revenue     decimal.Decimal `json:"revenue"`
	AskValue    decimal.Decimal `json:"ask_value"`
	Profit      decimal.Decimal `json:"profit"`
	Image       string          `json:"image,omitempty"`
	Documents   []string        `json:"documents"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate checks the listing's financials. Profit may be negative.
func (p *Product) Validate() error {
	if err := ValidatePositiveMoney("ask_value", p.AskValue); err != nil {
		return err
	}
	if err := ValidateMoney("revenue", p.Revenue); err != nil {
		return err
	}
	return ValidateMoney("profit", p.Profit)
}
