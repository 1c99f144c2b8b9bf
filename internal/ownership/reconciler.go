// Package ownership reconciles the marketplace's bookkeeping owner
// with the token contract's actual holder.
package ownership

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/mintbay/marketgate/internal/domain"
)

// Owns reports whether addr meaningfully owns the item: either the
// marketplace records it as owner, or the token contract does. A
// seller mid-relist, or a buyer during settlement, must not vanish
// from their own collection view, so the two views are OR-ed.
func Owns(item domain.MarketItem, addr common.Address) bool {
	return item.CustodialOwner == addr || item.ActualOwner == addr
}

// IsListed reports whether the item is in marketplace escrow, i.e.
// the bookkeeping owner is the marketplace contract itself.
func IsListed(item domain.MarketItem, marketplace common.Address) bool {
	return item.CustodialOwner == marketplace
}
