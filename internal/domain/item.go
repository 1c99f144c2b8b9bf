package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// MarketItem represents one minted, listable token as the marketplace
// contract reports it. Prices are human-decimal amounts; a zero price
// means the item is not for sale in that currency.
type MarketItem struct {
	TokenID uint64
	Seller  common.Address

	// CustodialOwner is the owner the marketplace bookkeeping records.
	// While an item is listed this is the marketplace contract itself.
	CustodialOwner common.Address

	// ActualOwner is the holder reported by the token contract. It can
	// diverge from CustodialOwner during listing and settlement.
	ActualOwner common.Address

	EthPrice  decimal.Decimal
	UsdcPrice decimal.Decimal
	UsdtPrice decimal.Decimal

	Sold     bool
	ListedAt time.Time

	RoyaltyBps       int // basis points, 0-1000
	RoyaltyRecipient common.Address

	// TokenURI is the content-addressed metadata pointer. Empty when
	// the URI sub-read failed or the token carries none.
	TokenURI string
}

// Price returns the item's listed price in the given currency.
func (m MarketItem) Price(c Currency) decimal.Decimal {
	switch c {
	case CurrencyUSDC:
		return m.UsdcPrice
	case CurrencyUSDT:
		return m.UsdtPrice
	default:
		return m.EthPrice
	}
}

// Listed reports whether the item is an active, unsold listing with at
// least one positive price.
func (m MarketItem) Listed() bool {
	if m.Sold {
		return false
	}
	for _, c := range Currencies() {
		if m.Price(c).IsPositive() {
			return true
		}
	}
	return false
}
