package domain

import "github.com/shopspring/decimal"

// TokenBalanceCheck is the result of a pre-flight balance check for a
// purchase. It is computed on demand and never persisted.
type TokenBalanceCheck struct {
	HasEnough bool
	Balance   decimal.Decimal
	Required  decimal.Decimal
	Shortfall decimal.Decimal // Required - Balance when short, zero otherwise
}

// NewTokenBalanceCheck compares a balance against a required spend.
func NewTokenBalanceCheck(balance, required decimal.Decimal) TokenBalanceCheck {
	chk := TokenBalanceCheck{
		HasEnough: balance.GreaterThanOrEqual(required),
		Balance:   balance,
		Required:  required,
	}
	if !chk.HasEnough {
		chk.Shortfall = required.Sub(balance)
	} else {
		chk.Shortfall = decimal.Zero
	}
	return chk
}
