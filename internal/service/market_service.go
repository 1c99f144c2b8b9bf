package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mintbay/marketgate/internal/approval"
	"github.com/mintbay/marketgate/internal/domain"
	"github.com/mintbay/marketgate/internal/metadata"
	"github.com/mintbay/marketgate/internal/ownership"
	"github.com/mintbay/marketgate/internal/payment"
)

// metadataHydrateLimit caps concurrent gateway fetches during batch
// hydration.
const metadataHydrateLimit = 8

// MarketService composes the contract gateway, the approval
// coordinator, and the metadata resolver into the operations the UI
// consumes.
type MarketService struct {
	reader      domain.MarketReader
	writer      domain.MarketWriter
	coordinator *approval.Coordinator
	metadata    *metadata.Resolver
	logger      *slog.Logger
}

// NewMarketService creates a MarketService with all required
// dependencies.
func NewMarketService(
	reader domain.MarketReader,
	writer domain.MarketWriter,
	coordinator *approval.Coordinator,
	resolver *metadata.Resolver,
	logger *slog.Logger,
) *MarketService {
	return &MarketService{
		reader:      reader,
		writer:      writer,
		coordinator: coordinator,
		metadata:    resolver,
		logger:      logger,
	}
}

// GetItem returns one item with its actual holder and URI resolved.
func (s *MarketService) GetItem(ctx context.Context, tokenID uint64) (domain.MarketItem, error) {
	item, err := s.reader.GetMarketItem(ctx, tokenID)
	if err != nil {
		return domain.MarketItem{}, fmt.Errorf("market_service: get item %d: %w", tokenID, err)
	}
	s.enrich(ctx, &item)
	return item, nil
}

// FetchMarketItems returns every active, unsold listing. Sub-fetch
// failures degrade the affected item instead of failing the batch: a
// token whose read reverts is skipped as nonexistent, and a failed
// URI read leaves TokenURI empty.
func (s *MarketService) FetchMarketItems(ctx context.Context) ([]domain.MarketItem, error) {
	total, err := s.reader.TotalTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("market_service: total tokens: %w", err)
	}

	items := make([]domain.MarketItem, 0, total)
	for id := uint64(1); id <= total; id++ {
		item, err := s.reader.GetMarketItem(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("market_service: fetch items: %w", ctx.Err())
			}
			s.logger.WarnContext(ctx, "market_service: item read failed, skipping",
				slog.Uint64("token_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !item.Listed() || !ownership.IsListed(item, s.reader.MarketplaceAddress()) {
			continue
		}
		s.enrich(ctx, &item)
		items = append(items, item)
	}
	return items, nil
}

// FetchOwned returns every token the address meaningfully owns, in
// either the custodial or the actual sense. The scan is linear over
// all minted ids; tokens that revert on read are skipped.
func (s *MarketService) FetchOwned(ctx context.Context, addr common.Address) ([]domain.MarketItem, error) {
	total, err := s.reader.TotalTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("market_service: total tokens: %w", err)
	}

	var items []domain.MarketItem
	for id := uint64(1); id <= total; id++ {
		item, err := s.reader.GetMarketItem(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("market_service: fetch owned: %w", ctx.Err())
			}
			s.logger.WarnContext(ctx, "market_service: item read failed, skipping",
				slog.Uint64("token_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.enrich(ctx, &item)
		if ownership.Owns(item, addr) {
			items = append(items, item)
		}
	}
	return items, nil
}

// HydrateMetadata resolves metadata for a batch of items concurrently.
// Results are indexed by position. One item's failure never blocks or
// cancels another's, because the resolver degrades per item instead of
// erroring.
func (s *MarketService) HydrateMetadata(ctx context.Context, items []domain.MarketItem) []metadata.Result {
	results := make([]metadata.Result, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(metadataHydrateLimit)
	for i, item := range items {
		g.Go(func() error {
			results[i] = s.metadata.Resolve(gctx, item.TokenID, item.TokenURI)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return results
}

// ResolveMetadata resolves one item's metadata.
func (s *MarketService) ResolveMetadata(ctx context.Context, item domain.MarketItem) metadata.Result {
	return s.metadata.Resolve(ctx, item.TokenID, item.TokenURI)
}

// PaymentMethods returns the item's accepted settlement currencies in
// display order.
func (s *MarketService) PaymentMethods(item domain.MarketItem) []payment.Method {
	return payment.Methods(item)
}

// BuyETH purchases an item settling in the native currency, with a
// balance pre-flight.
func (s *MarketService) BuyETH(ctx context.Context, buyer common.Address, tokenID uint64) (domain.TxResult, error) {
	item, err := s.reader.GetMarketItem(ctx, tokenID)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("market_service: buy %d: %w", tokenID, err)
	}
	price := item.Price(domain.CurrencyETH)
	if !price.IsPositive() {
		return domain.TxResult{}, fmt.Errorf("market_service: item %d not for sale in %s: %w",
			tokenID, domain.CurrencyETH, domain.ErrNotFound)
	}

	balance, err := s.reader.BalanceOf(ctx, buyer, domain.CurrencyETH)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("market_service: buy %d: balance: %w", tokenID, err)
	}
	if chk := domain.NewTokenBalanceCheck(balance, price); !chk.HasEnough {
		return domain.TxResult{}, fmt.Errorf("market_service: need %s ETH, short %s: %w",
			chk.Required, chk.Shortfall, domain.ErrInsufficientBalance)
	}

	res, err := s.writer.PurchaseETH(ctx, tokenID, price)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("market_service: buy %d: %w", tokenID, err)
	}
	return res, nil
}

// BuyToken purchases an item settling in an ERC-20 currency through
// the approval coordinator.
func (s *MarketService) BuyToken(ctx context.Context, buyer common.Address, tokenID uint64, c domain.Currency) (domain.TxResult, error) {
	item, err := s.reader.GetMarketItem(ctx, tokenID)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("market_service: buy %d: %w", tokenID, err)
	}
	price := item.Price(c)
	if !price.IsPositive() {
		return domain.TxResult{}, fmt.Errorf("market_service: item %d not for sale in %s: %w",
			tokenID, c, domain.ErrNotFound)
	}
	return s.coordinator.Purchase(ctx, buyer, tokenID, c, price)
}

// CheckBalance runs the purchase pre-flight for any currency.
func (s *MarketService) CheckBalance(ctx context.Context, buyer common.Address, c domain.Currency, required decimal.Decimal) (domain.TokenBalanceCheck, error) {
	return s.coordinator.CheckBalance(ctx, buyer, c, required)
}

// CreateToken mints and lists a new token.
func (s *MarketService) CreateToken(ctx context.Context, uri string, prices map[domain.Currency]decimal.Decimal, royaltyBps int, royaltyRecipient common.Address) (domain.TxResult, error) {
	if err := validateListing(prices, royaltyBps); err != nil {
		return domain.TxResult{}, err
	}
	res, err := s.writer.CreateToken(ctx, uri, prices, royaltyBps, royaltyRecipient)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("market_service: create token: %w", err)
	}
	return res, nil
}

// Resell relists a previously bought token.
func (s *MarketService) Resell(ctx context.Context, tokenID uint64, prices map[domain.Currency]decimal.Decimal) (domain.TxResult, error) {
	if err := validatePrices(prices); err != nil {
		return domain.TxResult{}, err
	}
	res, err := s.writer.ResellToken(ctx, tokenID, prices)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("market_service: resell %d: %w", tokenID, err)
	}
	return res, nil
}

// UpdatePrices rewrites an unsold item's prices.
func (s *MarketService) UpdatePrices(ctx context.Context, tokenID uint64, prices map[domain.Currency]decimal.Decimal) (domain.TxResult, error) {
	if err := validatePrices(prices); err != nil {
		return domain.TxResult{}, err
	}
	res, err := s.writer.UpdateItemPrices(ctx, tokenID, prices)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("market_service: update prices %d: %w", tokenID, err)
	}
	return res, nil
}

// enrich fills the item's actual holder and URI, degrading on sub-read
// failure rather than propagating it.
func (s *MarketService) enrich(ctx context.Context, item *domain.MarketItem) {
	if owner, err := s.reader.OwnerOf(ctx, item.TokenID); err == nil {
		item.ActualOwner = owner
	} else {
		s.logger.DebugContext(ctx, "market_service: ownerOf failed",
			slog.Uint64("token_id", item.TokenID),
			slog.String("error", err.Error()),
		)
	}

	uri, err := s.reader.TokenURI(ctx, item.TokenID)
	if err != nil {
		s.logger.DebugContext(ctx, "market_service: tokenURI failed",
			slog.Uint64("token_id", item.TokenID),
			slog.String("error", err.Error()),
		)
		item.TokenURI = ""
		return
	}
	item.TokenURI = uri
}

// validateListing checks listing parameters before spending gas.
func validateListing(prices map[domain.Currency]decimal.Decimal, royaltyBps int) error {
	if royaltyBps < 0 || royaltyBps > 1000 {
		return fmt.Errorf("market_service: royalty %d bps outside [0,1000]: %w", royaltyBps, domain.ErrInvalidState)
	}
	return validatePrices(prices)
}

// validatePrices requires at least one strictly positive price and no
// negatives.
func validatePrices(prices map[domain.Currency]decimal.Decimal) error {
	anyPositive := false
	for c, p := range prices {
		if p.IsNegative() {
			return fmt.Errorf("market_service: negative %s price: %w", c, domain.ErrInvalidState)
		}
		if p.IsPositive() {
			anyPositive = true
		}
	}
	if !anyPositive {
		return fmt.Errorf("market_service: listing needs at least one positive price: %w", domain.ErrInvalidState)
	}
	return nil
}
