package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// MarketReader is the read surface of the marketplace contract plus
// the token and currency contracts it references. Every call is a
// fresh round trip; nothing is cached behind this interface.
type MarketReader interface {
	// GetMarketItem returns one item, or ErrNotFound when the token
	// does not exist or the read reverts.
	GetMarketItem(ctx context.Context, tokenID uint64) (MarketItem, error)

	// TokenURI returns the content-addressed metadata pointer for a
	// token, or an error when the sub-read fails.
	TokenURI(ctx context.Context, tokenID uint64) (string, error)

	// OwnerOf returns the token contract's actual holder.
	OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error)

	TotalTokens(ctx context.Context) (uint64, error)
	TotalSold(ctx context.Context) (uint64, error)

	ListingPrice(ctx context.Context) (decimal.Decimal, error)
	TokenListingFee(ctx context.Context, c Currency) (decimal.Decimal, error)

	// Allowance returns how much of currency c the owner has approved
	// the marketplace to spend. Only valid for non-native currencies.
	Allowance(ctx context.Context, owner common.Address, c Currency) (decimal.Decimal, error)

	// BalanceOf returns the owner's balance in currency c.
	BalanceOf(ctx context.Context, owner common.Address, c Currency) (decimal.Decimal, error)

	EmergencyStatus(ctx context.Context) (EmergencyWithdrawStatus, error)
	ContractOwner(ctx context.Context) (common.Address, error)
	IsPaused(ctx context.Context) (bool, error)
	IsBlacklisted(ctx context.Context, addr common.Address) (bool, error)

	// MarketplaceAddress returns the marketplace contract's own
	// address, used to recognize escrow custody.
	MarketplaceAddress() common.Address
}

// TxResult describes a submitted and confirmed transaction.
type TxResult struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

// MarketWriter is the write surface of the marketplace. Every method
// submits a transaction signed by the configured operator key and
// blocks until it is mined or ctx (bounded by the configured
// confirmation deadline) expires.
type MarketWriter interface {
	CreateToken(ctx context.Context, uri string, prices map[Currency]decimal.Decimal, royaltyBps int, royaltyRecipient common.Address) (TxResult, error)
	UpdateItemPrices(ctx context.Context, tokenID uint64, prices map[Currency]decimal.Decimal) (TxResult, error)
	ResellToken(ctx context.Context, tokenID uint64, prices map[Currency]decimal.Decimal) (TxResult, error)

	// PurchaseETH buys an item settling in the native currency,
	// attaching the item's listed price as transaction value.
	PurchaseETH(ctx context.Context, tokenID uint64, price decimal.Decimal) (TxResult, error)

	// PurchaseToken buys an item settling in an ERC-20 currency. The
	// caller is responsible for ensuring sufficient allowance first.
	PurchaseToken(ctx context.Context, tokenID uint64, c Currency) (TxResult, error)

	// Approve grants the marketplace an allowance of exactly amount in
	// currency c.
	Approve(ctx context.Context, c Currency, amount decimal.Decimal) (TxResult, error)
}

// AdminWriter is the marketplace's admin-only write surface. Admin
// authority is enforced on-chain; this layer only reflects it.
type AdminWriter interface {
	Pause(ctx context.Context) (TxResult, error)
	Unpause(ctx context.Context) (TxResult, error)
	SetUserBlacklist(ctx context.Context, addr common.Address, blocked bool) (TxResult, error)
	SetTokenBlacklist(ctx context.Context, tokenID uint64, blocked bool) (TxResult, error)
	UpdateListingPrice(ctx context.Context, price decimal.Decimal) (TxResult, error)
	UpdatePlatformFee(ctx context.Context, feeBps int) (TxResult, error)
	UpdateFeeRecipient(ctx context.Context, addr common.Address) (TxResult, error)

	EmergencyInitiate(ctx context.Context) (TxResult, error)
	EmergencyCancel(ctx context.Context) (TxResult, error)
	EmergencyWithdraw(ctx context.Context) (TxResult, error)
}
