// Package payment derives the accepted settlement currencies for a
// market item.
package payment

import (
	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/domain"
)

// Method is one accepted way to pay for an item.
type Method struct {
	Currency domain.Currency
	Amount   decimal.Decimal
}

// Methods returns the item's accepted payment methods in fixed
// priority order: native currency first, then the stable tokens in
// contract-declared order. A currency is included only when its price
// is strictly positive. The order is a deliberate stable tie-break,
// never derived from amounts, so the UI can rely on it.
func Methods(item domain.MarketItem) []Method {
	var out []Method
	for _, c := range domain.Currencies() {
		if p := item.Price(c); p.IsPositive() {
			out = append(out, Method{Currency: c, Amount: p})
		}
	}
	return out
}

// Primary returns the display price: the first accepted method. ok is
// false when the item is not for sale in any currency.
func Primary(item domain.MarketItem) (Method, bool) {
	methods := Methods(item)
	if len(methods) == 0 {
		return Method{}, false
	}
	return methods[0], true
}
