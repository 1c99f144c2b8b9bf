package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/domain"
)

// CreateToken mints a new token with the given metadata URI, prices,
// and royalty settings. The native listing fee is attached as value.
func (g *Gateway) CreateToken(ctx context.Context, uri string, prices map[domain.Currency]decimal.Decimal, royaltyBps int, royaltyRecipient common.Address) (domain.TxResult, error) {
	listing, err := g.ListingPrice(ctx)
	if err != nil {
		return domain.TxResult{}, err
	}
	data, err := g.marketABI.Pack("createToken",
		uri,
		priceArg(prices, domain.CurrencyETH),
		priceArg(prices, domain.CurrencyUSDC),
		priceArg(prices, domain.CurrencyUSDT),
		big.NewInt(int64(royaltyBps)),
		royaltyRecipient,
	)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack createToken: %w", err)
	}
	return g.submit(ctx, "createToken", g.cfg.MarketAddress, ToBaseUnits(listing, domain.CurrencyETH), data)
}

// UpdateItemPrices rewrites the per-currency prices of an unsold item.
func (g *Gateway) UpdateItemPrices(ctx context.Context, tokenID uint64, prices map[domain.Currency]decimal.Decimal) (domain.TxResult, error) {
	data, err := g.marketABI.Pack("updateItemPrices",
		new(big.Int).SetUint64(tokenID),
		priceArg(prices, domain.CurrencyETH),
		priceArg(prices, domain.CurrencyUSDC),
		priceArg(prices, domain.CurrencyUSDT),
	)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack updateItemPrices: %w", err)
	}
	return g.submit(ctx, "updateItemPrices", g.cfg.MarketAddress, nil, data)
}

// ResellToken puts a previously bought token back on the market,
// attaching the native listing fee.
func (g *Gateway) ResellToken(ctx context.Context, tokenID uint64, prices map[domain.Currency]decimal.Decimal) (domain.TxResult, error) {
	listing, err := g.ListingPrice(ctx)
	if err != nil {
		return domain.TxResult{}, err
	}
	data, err := g.marketABI.Pack("resellToken",
		new(big.Int).SetUint64(tokenID),
		priceArg(prices, domain.CurrencyETH),
		priceArg(prices, domain.CurrencyUSDC),
		priceArg(prices, domain.CurrencyUSDT),
	)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack resellToken: %w", err)
	}
	return g.submit(ctx, "resellToken", g.cfg.MarketAddress, ToBaseUnits(listing, domain.CurrencyETH), data)
}

// PurchaseETH buys an item settling in the native currency.
func (g *Gateway) PurchaseETH(ctx context.Context, tokenID uint64, price decimal.Decimal) (domain.TxResult, error) {
	data, err := g.marketABI.Pack("createMarketSaleETH", new(big.Int).SetUint64(tokenID))
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack createMarketSaleETH: %w", err)
	}
	return g.submit(ctx, "createMarketSaleETH", g.cfg.MarketAddress, ToBaseUnits(price, domain.CurrencyETH), data)
}

// PurchaseToken buys an item settling in an ERC-20 currency. Allowance
// must already cover the price; the approval coordinator guarantees
// that ordering.
func (g *Gateway) PurchaseToken(ctx context.Context, tokenID uint64, c domain.Currency) (domain.TxResult, error) {
	token, err := g.tokenAddress(c)
	if err != nil {
		return domain.TxResult{}, err
	}
	data, err := g.marketABI.Pack("createMarketSaleToken", new(big.Int).SetUint64(tokenID), token)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack createMarketSaleToken: %w", err)
	}
	return g.submit(ctx, "createMarketSaleToken", g.cfg.MarketAddress, nil, data)
}

// Approve grants the marketplace an allowance of exactly amount in
// currency c.
func (g *Gateway) Approve(ctx context.Context, c domain.Currency, amount decimal.Decimal) (domain.TxResult, error) {
	token, err := g.tokenAddress(c)
	if err != nil {
		return domain.TxResult{}, err
	}
	data, err := g.erc20ABI.Pack("approve", g.cfg.MarketAddress, ToBaseUnits(amount, c))
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack approve: %w", err)
	}
	return g.submit(ctx, "approve "+string(c), token, nil, data)
}

// --------------------------------------------------------------------------
// Admin writes. Authorization is enforced by the contract; these only
// carry the transaction.
// --------------------------------------------------------------------------

func (g *Gateway) Pause(ctx context.Context) (domain.TxResult, error) {
	return g.submitSimple(ctx, "pause")
}

func (g *Gateway) Unpause(ctx context.Context) (domain.TxResult, error) {
	return g.submitSimple(ctx, "unpause")
}

func (g *Gateway) SetUserBlacklist(ctx context.Context, addr common.Address, blocked bool) (domain.TxResult, error) {
	data, err := g.marketABI.Pack("setUserBlacklist", addr, blocked)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack setUserBlacklist: %w", err)
	}
	return g.submit(ctx, "setUserBlacklist", g.cfg.MarketAddress, nil, data)
}

func (g *Gateway) SetTokenBlacklist(ctx context.Context, tokenID uint64, blocked bool) (domain.TxResult, error) {
	data, err := g.marketABI.Pack("setTokenBlacklist", new(big.Int).SetUint64(tokenID), blocked)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack setTokenBlacklist: %w", err)
	}
	return g.submit(ctx, "setTokenBlacklist", g.cfg.MarketAddress, nil, data)
}

func (g *Gateway) UpdateListingPrice(ctx context.Context, price decimal.Decimal) (domain.TxResult, error) {
	data, err := g.marketABI.Pack("updateListingPrice", ToBaseUnits(price, domain.CurrencyETH))
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack updateListingPrice: %w", err)
	}
	return g.submit(ctx, "updateListingPrice", g.cfg.MarketAddress, nil, data)
}

func (g *Gateway) UpdatePlatformFee(ctx context.Context, feeBps int) (domain.TxResult, error) {
	data, err := g.marketABI.Pack("updatePlatformFee", big.NewInt(int64(feeBps)))
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack updatePlatformFee: %w", err)
	}
	return g.submit(ctx, "updatePlatformFee", g.cfg.MarketAddress, nil, data)
}

func (g *Gateway) UpdateFeeRecipient(ctx context.Context, addr common.Address) (domain.TxResult, error) {
	data, err := g.marketABI.Pack("updateFeeRecipient", addr)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack updateFeeRecipient: %w", err)
	}
	return g.submit(ctx, "updateFeeRecipient", g.cfg.MarketAddress, nil, data)
}

func (g *Gateway) EmergencyInitiate(ctx context.Context) (domain.TxResult, error) {
	return g.submitSimple(ctx, "initiateEmergencyWithdraw")
}

func (g *Gateway) EmergencyCancel(ctx context.Context) (domain.TxResult, error) {
	return g.submitSimple(ctx, "cancelEmergencyWithdraw")
}

func (g *Gateway) EmergencyWithdraw(ctx context.Context) (domain.TxResult, error) {
	return g.submitSimple(ctx, "executeEmergencyWithdraw")
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// submitSimple packs a no-argument marketplace call and submits it.
func (g *Gateway) submitSimple(ctx context.Context, method string) (domain.TxResult, error) {
	data, err := g.marketABI.Pack(method)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pack %s: %w", method, err)
	}
	return g.submit(ctx, method, g.cfg.MarketAddress, nil, data)
}

// submit signs, sends, and waits for one transaction. The confirmation
// wait is bounded by the configured ConfirmTimeout so a stalled chain
// cannot hang the caller forever.
func (g *Gateway) submit(ctx context.Context, op string, to common.Address, value *big.Int, data []byte) (domain.TxResult, error) {
	if g.signer == nil {
		return domain.TxResult{}, fmt.Errorf("chain: %s: no operator key: %w", op, domain.ErrUnauthorized)
	}
	from := g.signer.Address()

	nonce, err := g.client.PendingNonceAt(ctx, from)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: %s: nonce: %w", op, err)
	}
	gasPrice, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: %s: gas price: %w", op, err)
	}

	msg := ethereum.CallMsg{From: from, To: &to, Value: value, Data: data}
	gasLimit, err := g.client.EstimateGas(ctx, msg)
	if err != nil {
		// Estimation executes the call, so contract-rule violations
		// surface here before any gas is spent.
		return domain.TxResult{}, classifySubmitError(op, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit + gasLimit/5, // headroom over the estimate
		To:       &to,
		Value:    value,
		Data:     data,
	})
	signed, err := g.signer.SignTx(tx)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: %s: %w", op, err)
	}

	if err := g.client.SendTransaction(ctx, signed); err != nil {
		return domain.TxResult{}, classifySubmitError(op, err)
	}

	g.logger.InfoContext(ctx, "chain: transaction submitted",
		slog.String("op", op),
		slog.String("tx", signed.Hash().Hex()),
	)

	return g.waitMined(ctx, op, signed.Hash())
}

// waitMined polls for the receipt until the transaction is mined or
// the confirmation deadline passes.
func (g *Gateway) waitMined(ctx context.Context, op string, hash common.Hash) (domain.TxResult, error) {
	waitCtx, cancel := context.WithTimeout(ctx, g.cfg.ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := g.client.TransactionReceipt(waitCtx, hash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return domain.TxResult{}, fmt.Errorf("chain: %s: tx %s: %w", op, hash.Hex(), domain.ErrTxReverted)
			}
			return domain.TxResult{
				TxHash:      hash,
				BlockNumber: receipt.BlockNumber.Uint64(),
				GasUsed:     receipt.GasUsed,
			}, nil
		}
		if !errors.Is(err, ethereum.NotFound) && waitCtx.Err() == nil {
			g.logger.WarnContext(ctx, "chain: receipt poll failed",
				slog.String("op", op),
				slog.String("tx", hash.Hex()),
				slog.String("error", err.Error()),
			)
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return domain.TxResult{}, fmt.Errorf("chain: %s: tx %s: %w", op, hash.Hex(), domain.ErrContextDone)
			}
			return domain.TxResult{}, fmt.Errorf("chain: %s: tx %s after %s: %w", op, hash.Hex(), g.cfg.ConfirmTimeout, domain.ErrConfirmTimeout)
		case <-ticker.C:
		}
	}
}

// priceArg converts an optional human-decimal price into base units,
// defaulting to zero ("not for sale in this currency").
func priceArg(prices map[domain.Currency]decimal.Decimal, c domain.Currency) *big.Int {
	p, ok := prices[c]
	if !ok {
		return new(big.Int)
	}
	return ToBaseUnits(p, c)
}
