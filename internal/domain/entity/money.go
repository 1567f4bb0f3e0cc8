package entity

import (
	"github.com/shopspring/decimal"

	"startupmarket/pkg/errors"
)

// Money values are persisted as NUMERIC(20, 2): two fractional digits and
// at most eighteen integer digits.
const (
	MoneyScale         = 2
	moneyIntegerDigits = 18
)

var maxMoney = decimal.New(1, moneyIntegerDigits)

// ValidateMoney rejects amounts that storage would round or overflow.
func ValidateMoney(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return errors.Validation(field + " must have at most 2 decimal places")
	}
	if amount.Abs().GreaterThanOrEqual(maxMoney) {
		return errors.Validation(field + " is too large")
	}
	return nil
}

// ValidatePositiveMoney is ValidateMoney for amounts that must be above zero.
func ValidatePositiveMoney(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Validation(field + " must be greater than 0")
	}
	return ValidateMoney(field, amount)
}
