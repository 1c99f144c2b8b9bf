package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/crypto"
	"github.com/mintbay/marketgate/internal/domain"
)

// GatewayConfig holds everything the gateway needs besides the client
// and signer. It is constructed once at startup and injected; gateway
// methods never read ambient state.
type GatewayConfig struct {
	MarketAddress  common.Address
	TokenAddresses map[domain.Currency]common.Address

	// ConfirmTimeout bounds every write-confirmation wait.
	ConfirmTimeout time.Duration
	// PollInterval is the receipt polling cadence.
	PollInterval time.Duration
}

// Gateway is the stateless typed facade over the marketplace contract
// and its settlement-token contracts. It implements
// domain.MarketReader, domain.MarketWriter, and domain.AdminWriter.
type Gateway struct {
	client *ethclient.Client
	signer *crypto.TxSigner
	cfg    GatewayConfig

	marketABI abi.ABI
	erc20ABI  abi.ABI

	logger *slog.Logger
}

// NewGateway parses the embedded ABIs and returns a ready gateway.
// signer may be nil for a read-only gateway; writes then fail with
// ErrUnauthorized.
func NewGateway(client *ethclient.Client, signer *crypto.TxSigner, cfg GatewayConfig, logger *slog.Logger) (*Gateway, error) {
	mABI, err := abi.JSON(strings.NewReader(marketABI))
	if err != nil {
		return nil, fmt.Errorf("chain: parse market abi: %w", err)
	}
	tABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("chain: parse erc20 abi: %w", err)
	}

	for _, c := range domain.Currencies() {
		if c.Native() {
			continue
		}
		if _, ok := cfg.TokenAddresses[c]; !ok {
			return nil, fmt.Errorf("chain: missing token address for %s", c)
		}
	}

	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 2 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}

	return &Gateway{
		client:    client,
		signer:    signer,
		cfg:       cfg,
		marketABI: mABI,
		erc20ABI:  tABI,
		logger:    logger,
	}, nil
}

// MarketplaceAddress returns the marketplace contract's own address.
func (g *Gateway) MarketplaceAddress() common.Address {
	return g.cfg.MarketAddress
}

// marketItemResult mirrors getMarketItem's outputs.
type marketItemResult struct {
	TokenId           *big.Int
	Seller            common.Address
	Owner             common.Address
	EthPrice          *big.Int
	UsdcPrice         *big.Int
	UsdtPrice         *big.Int
	Sold              bool
	ListedAt          *big.Int
	RoyaltyPercentage *big.Int
	RoyaltyRecipient  common.Address
}

// GetMarketItem reads one item. A reverting or empty read maps to
// domain.ErrNotFound.
func (g *Gateway) GetMarketItem(ctx context.Context, tokenID uint64) (domain.MarketItem, error) {
	out, err := g.callMarket(ctx, "getMarketItem", new(big.Int).SetUint64(tokenID))
	if err != nil {
		if isRevert(err) {
			return domain.MarketItem{}, fmt.Errorf("chain: market item %d: %w", tokenID, domain.ErrNotFound)
		}
		return domain.MarketItem{}, fmt.Errorf("chain: market item %d: %w", tokenID, err)
	}

	var raw marketItemResult
	if err := g.marketABI.UnpackIntoInterface(&raw, "getMarketItem", out); err != nil {
		return domain.MarketItem{}, fmt.Errorf("chain: decode market item %d: %w", tokenID, err)
	}
	if raw.TokenId == nil || raw.TokenId.Sign() == 0 {
		return domain.MarketItem{}, fmt.Errorf("chain: market item %d: %w", tokenID, domain.ErrNotFound)
	}

	item := domain.MarketItem{
		TokenID:          raw.TokenId.Uint64(),
		Seller:           raw.Seller,
		CustodialOwner:   raw.Owner,
		EthPrice:         FromBaseUnits(raw.EthPrice, domain.CurrencyETH),
		UsdcPrice:        FromBaseUnits(raw.UsdcPrice, domain.CurrencyUSDC),
		UsdtPrice:        FromBaseUnits(raw.UsdtPrice, domain.CurrencyUSDT),
		Sold:             raw.Sold,
		RoyaltyRecipient: raw.RoyaltyRecipient,
	}
	if raw.ListedAt != nil && raw.ListedAt.Sign() > 0 {
		item.ListedAt = time.Unix(raw.ListedAt.Int64(), 0).UTC()
	}
	if raw.RoyaltyPercentage != nil {
		item.RoyaltyBps = int(raw.RoyaltyPercentage.Int64())
	}
	return item, nil
}

// TokenURI reads the content-addressed metadata pointer for a token.
func (g *Gateway) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	out, err := g.callMarket(ctx, "tokenURI", new(big.Int).SetUint64(tokenID))
	if err != nil {
		return "", fmt.Errorf("chain: token uri %d: %w", tokenID, err)
	}
	var uri string
	if err := g.marketABI.UnpackIntoInterface(&uri, "tokenURI", out); err != nil {
		return "", fmt.Errorf("chain: decode token uri %d: %w", tokenID, err)
	}
	return uri, nil
}

// OwnerOf reads the token contract's actual holder.
func (g *Gateway) OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error) {
	out, err := g.callMarket(ctx, "ownerOf", new(big.Int).SetUint64(tokenID))
	if err != nil {
		if isRevert(err) {
			return common.Address{}, fmt.Errorf("chain: owner of %d: %w", tokenID, domain.ErrNotFound)
		}
		return common.Address{}, fmt.Errorf("chain: owner of %d: %w", tokenID, err)
	}
	var addr common.Address
	if err := g.marketABI.UnpackIntoInterface(&addr, "ownerOf", out); err != nil {
		return common.Address{}, fmt.Errorf("chain: decode owner of %d: %w", tokenID, err)
	}
	return addr, nil
}

// TotalTokens returns the highest minted token id.
func (g *Gateway) TotalTokens(ctx context.Context) (uint64, error) {
	return g.readUint(ctx, "totalTokens")
}

// TotalSold returns the number of completed sales.
func (g *Gateway) TotalSold(ctx context.Context) (uint64, error) {
	return g.readUint(ctx, "totalSold")
}

// ListingPrice returns the native-currency listing fee.
func (g *Gateway) ListingPrice(ctx context.Context) (decimal.Decimal, error) {
	out, err := g.callMarket(ctx, "getListingPrice")
	if err != nil {
		return decimal.Zero, fmt.Errorf("chain: listing price: %w", err)
	}
	var v *big.Int
	if err := g.marketABI.UnpackIntoInterface(&v, "getListingPrice", out); err != nil {
		return decimal.Zero, fmt.Errorf("chain: decode listing price: %w", err)
	}
	return FromBaseUnits(v, domain.CurrencyETH), nil
}

// TokenListingFee returns the per-token-currency listing fee.
func (g *Gateway) TokenListingFee(ctx context.Context, c domain.Currency) (decimal.Decimal, error) {
	addr, err := g.tokenAddress(c)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := g.callMarket(ctx, "getTokenListingFee", addr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("chain: token listing fee %s: %w", c, err)
	}
	var v *big.Int
	if err := g.marketABI.UnpackIntoInterface(&v, "getTokenListingFee", out); err != nil {
		return decimal.Zero, fmt.Errorf("chain: decode token listing fee %s: %w", c, err)
	}
	return FromBaseUnits(v, c), nil
}

// Allowance returns the marketplace's spendable allowance from owner
// in currency c.
func (g *Gateway) Allowance(ctx context.Context, owner common.Address, c domain.Currency) (decimal.Decimal, error) {
	addr, err := g.tokenAddress(c)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := g.callToken(ctx, addr, "allowance", owner, g.cfg.MarketAddress)
	if err != nil {
		return decimal.Zero, fmt.Errorf("chain: allowance %s: %w", c, err)
	}
	var v *big.Int
	if err := g.erc20ABI.UnpackIntoInterface(&v, "allowance", out); err != nil {
		return decimal.Zero, fmt.Errorf("chain: decode allowance %s: %w", c, err)
	}
	return FromBaseUnits(v, c), nil
}

// BalanceOf returns owner's balance in currency c. The native balance
// comes straight from the chain state.
func (g *Gateway) BalanceOf(ctx context.Context, owner common.Address, c domain.Currency) (decimal.Decimal, error) {
	if c.Native() {
		wei, err := g.client.BalanceAt(ctx, owner, nil)
		if err != nil {
			return decimal.Zero, fmt.Errorf("chain: native balance: %w", err)
		}
		return FromBaseUnits(wei, c), nil
	}

	addr, err := g.tokenAddress(c)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := g.callToken(ctx, addr, "balanceOf", owner)
	if err != nil {
		return decimal.Zero, fmt.Errorf("chain: balance %s: %w", c, err)
	}
	var v *big.Int
	if err := g.erc20ABI.UnpackIntoInterface(&v, "balanceOf", out); err != nil {
		return decimal.Zero, fmt.Errorf("chain: decode balance %s: %w", c, err)
	}
	return FromBaseUnits(v, c), nil
}

// EmergencyStatus reads the contract's global emergency-withdraw slot.
func (g *Gateway) EmergencyStatus(ctx context.Context) (domain.EmergencyWithdrawStatus, error) {
	out, err := g.callMarket(ctx, "emergencyWithdrawStatus")
	if err != nil {
		return domain.EmergencyWithdrawStatus{}, fmt.Errorf("chain: emergency status: %w", err)
	}
	var raw struct {
		Enabled bool
		ReadyAt *big.Int
	}
	if err := g.marketABI.UnpackIntoInterface(&raw, "emergencyWithdrawStatus", out); err != nil {
		return domain.EmergencyWithdrawStatus{}, fmt.Errorf("chain: decode emergency status: %w", err)
	}
	status := domain.EmergencyWithdrawStatus{Enabled: raw.Enabled}
	if raw.ReadyAt != nil && raw.ReadyAt.Sign() > 0 {
		status.ReadyAt = time.Unix(raw.ReadyAt.Int64(), 0).UTC()
	}
	return status, nil
}

// ContractOwner returns the marketplace's admin address.
func (g *Gateway) ContractOwner(ctx context.Context) (common.Address, error) {
	out, err := g.callMarket(ctx, "owner")
	if err != nil {
		return common.Address{}, fmt.Errorf("chain: contract owner: %w", err)
	}
	var addr common.Address
	if err := g.marketABI.UnpackIntoInterface(&addr, "owner", out); err != nil {
		return common.Address{}, fmt.Errorf("chain: decode contract owner: %w", err)
	}
	return addr, nil
}

// IsPaused reports whether the marketplace is paused.
func (g *Gateway) IsPaused(ctx context.Context) (bool, error) {
	out, err := g.callMarket(ctx, "paused")
	if err != nil {
		return false, fmt.Errorf("chain: paused: %w", err)
	}
	var paused bool
	if err := g.marketABI.UnpackIntoInterface(&paused, "paused", out); err != nil {
		return false, fmt.Errorf("chain: decode paused: %w", err)
	}
	return paused, nil
}

// IsBlacklisted reports whether an address is blocked from trading.
func (g *Gateway) IsBlacklisted(ctx context.Context, addr common.Address) (bool, error) {
	out, err := g.callMarket(ctx, "blacklisted", addr)
	if err != nil {
		return false, fmt.Errorf("chain: blacklisted: %w", err)
	}
	var blocked bool
	if err := g.marketABI.UnpackIntoInterface(&blocked, "blacklisted", out); err != nil {
		return false, fmt.Errorf("chain: decode blacklisted: %w", err)
	}
	return blocked, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

func (g *Gateway) readUint(ctx context.Context, method string) (uint64, error) {
	out, err := g.callMarket(ctx, method)
	if err != nil {
		return 0, fmt.Errorf("chain: %s: %w", method, err)
	}
	var v *big.Int
	if err := g.marketABI.UnpackIntoInterface(&v, method, out); err != nil {
		return 0, fmt.Errorf("chain: decode %s: %w", method, err)
	}
	return v.Uint64(), nil
}

func (g *Gateway) callMarket(ctx context.Context, method string, args ...any) ([]byte, error) {
	return g.call(ctx, g.marketABI, g.cfg.MarketAddress, method, args...)
}

func (g *Gateway) callToken(ctx context.Context, token common.Address, method string, args ...any) ([]byte, error) {
	return g.call(ctx, g.erc20ABI, token, method, args...)
}

func (g *Gateway) call(ctx context.Context, contractABI abi.ABI, to common.Address, method string, args ...any) ([]byte, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	return g.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}

func (g *Gateway) tokenAddress(c domain.Currency) (common.Address, error) {
	if c.Native() {
		return common.Address{}, fmt.Errorf("chain: %s has no token contract", c)
	}
	addr, ok := g.cfg.TokenAddresses[c]
	if !ok {
		return common.Address{}, fmt.Errorf("chain: no address configured for %s", c)
	}
	return addr, nil
}
