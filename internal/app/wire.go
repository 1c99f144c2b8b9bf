package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mintbay/marketgate/internal/admin"
	"github.com/mintbay/marketgate/internal/approval"
	"github.com/mintbay/marketgate/internal/cache/memory"
	"github.com/mintbay/marketgate/internal/cache/redis"
	"github.com/mintbay/marketgate/internal/chain"
	"github.com/mintbay/marketgate/internal/config"
	"github.com/mintbay/marketgate/internal/crypto"
	"github.com/mintbay/marketgate/internal/domain"
	"github.com/mintbay/marketgate/internal/metadata"
	"github.com/mintbay/marketgate/internal/service"
)

// Dependencies bundles everything the HTTP layer needs to operate. It
// is constructed by Wire and torn down by the returned cleanup
// function.
type Dependencies struct {
	Gateway  *chain.Gateway
	Markets  *service.MarketService
	Admin    *service.AdminService
	Resolver *metadata.Resolver
	Limiter  domain.RateLimiter
}

// Wire constructs all concrete dependency implementations from the
// given configuration and returns them together with a cleanup
// function that should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Chain client ---
	client, err := chain.Dial(ctx, cfg.Chain.RPCURL, cfg.Chain.ChainID)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: chain: %w", err)
	}
	closers = append(closers, client.Close)

	// --- Operator signer (optional; reads work without one) ---
	var signer *crypto.TxSigner
	if cfg.HasOperatorKey() {
		keyHex, err := crypto.LoadKey(crypto.KeyConfig{
			RawPrivateKey:    cfg.Wallet.PrivateKey,
			EncryptedKeyPath: cfg.Wallet.EncryptedKeyPath,
			KeyPassword:      cfg.Wallet.KeyPassword,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: operator key: %w", err)
		}
		signer, err = crypto.NewTxSigner(keyHex, cfg.Chain.ChainID)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: operator key: %w", err)
		}
		logger.InfoContext(ctx, "operator signer loaded",
			slog.String("address", signer.Address().Hex()),
		)
	} else {
		logger.InfoContext(ctx, "no operator key configured, write endpoints disabled")
	}

	// --- Contract gateway ---
	gateway, err := chain.NewGateway(client, signer, chain.GatewayConfig{
		MarketAddress: common.HexToAddress(cfg.Chain.ContractAddress),
		TokenAddresses: map[domain.Currency]common.Address{
			domain.CurrencyUSDC: common.HexToAddress(cfg.Chain.UsdcAddress),
			domain.CurrencyUSDT: common.HexToAddress(cfg.Chain.UsdtAddress),
		},
		ConfirmTimeout: cfg.Chain.TxConfirmTimeout.Duration,
		PollInterval:   cfg.Chain.PollInterval.Duration,
	}, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: gateway: %w", err)
	}

	// --- Metadata cache ---
	var cache domain.MetadataCache
	var rdb *redis.Client
	switch cfg.Cache.Backend {
	case "redis":
		rdb, err = redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { rdb.Close() })
		cache = redis.NewMetadataCache(rdb, cfg.Cache.TTL.Duration)
	default:
		cache = memory.NewMetadataCache(cfg.Cache.TTL.Duration)
	}

	// --- Metadata resolver ---
	resolver := metadata.NewResolver(cfg.Metadata.Gateways, logger,
		metadata.WithCache(cache),
	)
	if err := resolver.Check(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: resolver: %w", err)
	}

	// --- Rate limiter ---
	var limiter domain.RateLimiter
	if rdb != nil {
		limiter = redis.NewRateLimiter(rdb)
	} else {
		limiter = memory.NewRateLimiter()
	}

	// --- Services ---
	coordinator := approval.NewCoordinator(gateway, logger)
	controller := admin.NewController(gateway, logger)
	markets := service.NewMarketService(gateway, gateway, coordinator, resolver, logger)
	adminSvc := service.NewAdminService(gateway, gateway, controller, logger)

	return &Dependencies{
		Gateway:  gateway,
		Markets:  markets,
		Admin:    adminSvc,
		Resolver: resolver,
		Limiter:  limiter,
	}, cleanup, nil
}
