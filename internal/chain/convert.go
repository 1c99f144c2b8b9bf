package chain

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/domain"
)

// ToBaseUnits converts a human-decimal amount into the contract's
// integer fixed-point representation for the given currency (wei for
// the native currency, 6-decimal units for the stables). Digits past
// the currency's precision are truncated.
func ToBaseUnits(amount decimal.Decimal, c domain.Currency) *big.Int {
	return amount.Shift(c.Decimals()).Truncate(0).BigInt()
}

// FromBaseUnits converts a contract fixed-point integer back into a
// human-decimal amount. A nil value is treated as zero.
func FromBaseUnits(v *big.Int, c domain.Currency) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -c.Decimals())
}
