// Package approval sequences the allowance-check, approve, and spend
// steps required for ERC-20 settled purchases.
package approval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/domain"
)

// chainAccess is the slice of the gateway the coordinator needs.
type chainAccess interface {
	Allowance(ctx context.Context, owner common.Address, c domain.Currency) (decimal.Decimal, error)
	BalanceOf(ctx context.Context, owner common.Address, c domain.Currency) (decimal.Decimal, error)
	Approve(ctx context.Context, c domain.Currency, amount decimal.Decimal) (domain.TxResult, error)
	PurchaseToken(ctx context.Context, tokenID uint64, c domain.Currency) (domain.TxResult, error)
}

// Coordinator makes token-currency purchases safe under the ERC-20
// allowance model: for a given (buyer, currency) pair the approval is
// confirmed before the purchase is submitted, never concurrently.
type Coordinator struct {
	chain  chainAccess
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCoordinator creates a Coordinator over the given gateway.
func NewCoordinator(chain chainAccess, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		chain:  chain,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// CheckBalance is the pre-flight balance check for a purchase.
func (co *Coordinator) CheckBalance(ctx context.Context, buyer common.Address, c domain.Currency, required decimal.Decimal) (domain.TokenBalanceCheck, error) {
	balance, err := co.chain.BalanceOf(ctx, buyer, c)
	if err != nil {
		return domain.TokenBalanceCheck{}, fmt.Errorf("approval: balance of %s: %w", c, err)
	}
	return domain.NewTokenBalanceCheck(balance, required), nil
}

// Purchase runs the full approve-then-spend sequence for one item.
// Insufficient allowance is not an error: it triggers an approval for
// exactly the required amount, whose confirmation must land before the
// purchase is submitted. A failed approval surfaces as
// ErrApprovalFailed and the purchase is never attempted; a failed
// purchase surfaces as ErrPurchaseFailed.
func (co *Coordinator) Purchase(ctx context.Context, buyer common.Address, tokenID uint64, c domain.Currency, price decimal.Decimal) (domain.TxResult, error) {
	if c.Native() {
		return domain.TxResult{}, fmt.Errorf("approval: %s settles natively, no approval flow", c)
	}

	chk, err := co.CheckBalance(ctx, buyer, c, price)
	if err != nil {
		return domain.TxResult{}, err
	}
	if !chk.HasEnough {
		return domain.TxResult{}, fmt.Errorf("approval: need %s %s, have %s: %w",
			chk.Required, c, chk.Balance, domain.ErrInsufficientBalance)
	}

	// One flow at a time per (buyer, currency): a purchase must never
	// race an outstanding approval for the same pair.
	lock := co.pairLock(buyer, c)
	lock.Lock()
	defer lock.Unlock()

	allowance, err := co.chain.Allowance(ctx, buyer, c)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("approval: allowance %s: %w", c, err)
	}

	if allowance.LessThan(price) {
		res, err := co.chain.Approve(ctx, c, price)
		if err != nil {
			return domain.TxResult{}, fmt.Errorf("approval: approve %s %s: %w: %w",
				price, c, domain.ErrApprovalFailed, err)
		}
		co.logger.InfoContext(ctx, "approval: allowance granted",
			slog.String("currency", string(c)),
			slog.String("amount", price.String()),
			slog.String("tx", res.TxHash.Hex()),
		)
	}

	res, err := co.chain.PurchaseToken(ctx, tokenID, c)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("approval: purchase token %d in %s: %w: %w",
			tokenID, c, domain.ErrPurchaseFailed, err)
	}

	co.logger.InfoContext(ctx, "approval: purchase confirmed",
		slog.Uint64("token_id", tokenID),
		slog.String("currency", string(c)),
		slog.String("tx", res.TxHash.Hex()),
	)
	return res, nil
}

// pairLock returns the mutex serializing flows for one (buyer,
// currency) pair, creating it on first use.
func (co *Coordinator) pairLock(buyer common.Address, c domain.Currency) *sync.Mutex {
	key := buyer.Hex() + "/" + string(c)

	co.mu.Lock()
	defer co.mu.Unlock()
	lock, ok := co.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		co.locks[key] = lock
	}
	return lock
}
