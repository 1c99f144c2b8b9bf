package domain

// Currency identifies one of the marketplace's settlement currencies.
type Currency string

const (
	CurrencyETH  Currency = "ETH"
	CurrencyUSDC Currency = "USDC"
	CurrencyUSDT Currency = "USDT"
)

// Currencies returns every settlement currency in display priority
// order: the native currency first, then the stable tokens in
// contract-declared order. PaymentResolver and the UI both rely on
// this order being stable.
func Currencies() []Currency {
	return []Currency{CurrencyETH, CurrencyUSDC, CurrencyUSDT}
}

// Decimals returns the fixed-point precision the contract uses for
// amounts in this currency: 18 for the native currency, 6 for the
// ERC-20 stables.
func (c Currency) Decimals() int32 {
	if c == CurrencyETH {
		return 18
	}
	return 6
}

// Native reports whether the currency settles in the chain's native
// coin rather than through an ERC-20 contract.
func (c Currency) Native() bool {
	return c == CurrencyETH
}
