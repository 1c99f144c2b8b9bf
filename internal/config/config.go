// Package config defines the top-level configuration for the
// marketplace gateway and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config is the root configuration structure. Fields are populated
// from a TOML file and then optionally overridden by MARKETGATE_*
// environment variables. It is constructed once at startup and passed
// by reference; nothing reads ambient state after load.
type Config struct {
	Chain    ChainConfig    `toml:"chain"`
	Wallet   WalletConfig   `toml:"wallet"`
	Metadata MetadataConfig `toml:"metadata"`
	Cache    CacheConfig    `toml:"cache"`
	Redis    RedisConfig    `toml:"redis"`
	Server   ServerConfig   `toml:"server"`
	LogLevel string         `toml:"log_level"`
}

// ChainConfig holds RPC and contract parameters.
type ChainConfig struct {
	RPCURL          string `toml:"rpc_url"`
	ChainID         int64  `toml:"chain_id"`
	ContractAddress string `toml:"contract_address"`
	UsdcAddress     string `toml:"usdc_address"`
	UsdtAddress     string `toml:"usdt_address"`

	// TxConfirmTimeout bounds every write-confirmation wait; the chain
	// is an external system with unbounded latency otherwise.
	TxConfirmTimeout duration `toml:"tx_confirm_timeout"`
	PollInterval     duration `toml:"poll_interval"`
}

// WalletConfig holds the operator key used to sign admin and listing
// transactions. Browser-wallet purchases never touch this key.
type WalletConfig struct {
	PrivateKey       string `toml:"private_key"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
}

// MetadataConfig holds content-addressed retrieval parameters. The
// pinning credentials belong to the upload side, which other tooling
// owns; they are carried for completeness but unused here.
type MetadataConfig struct {
	Gateways      []string `toml:"gateways"`
	PinningAPIKey string   `toml:"pinning_api_key"`
}

// CacheConfig selects the metadata cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"` // "memory" or "redis"
	TTL     duration `toml:"ttl"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds HTTP server parameters. RateLimit caps requests
// per client IP within RateLimitWindow; zero disables limiting.
type ServerConfig struct {
	Port            int      `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	APIKey          string   `toml:"api_key"`
	RateLimit       int      `toml:"rate_limit"`
	RateLimitWindow duration `toml:"rate_limit_window"`
}

// duration wraps time.Duration so the TOML decoder can parse strings
// like "2m" or "30s".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip
// encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Chain: ChainConfig{
			ChainID:          11155111, // Sepolia
			TxConfirmTimeout: duration{2 * time.Minute},
			PollInterval:     duration{2 * time.Second},
		},
		Metadata: MetadataConfig{
			Gateways: []string{
				"https://ipfs.io",
				"https://cloudflare-ipfs.com",
				"https://gateway.pinata.cloud",
			},
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     duration{10 * time.Minute},
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			PoolSize:   20,
			MaxRetries: 3,
		},
		Server: ServerConfig{
			Port:            8000,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit:       120,
			RateLimitWindow: duration{time.Minute},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validCacheBackends enumerates the accepted values for Cache.Backend.
var validCacheBackends = map[string]bool{
	"memory": true,
	"redis":  true,
}

// Validate checks the Config for obviously invalid or missing values
// and returns a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Chain
	if c.Chain.RPCURL == "" {
		errs = append(errs, "chain: rpc_url must not be empty")
	}
	if c.Chain.ChainID <= 0 {
		errs = append(errs, "chain: chain_id must be positive")
	}
	if !common.IsHexAddress(c.Chain.ContractAddress) {
		errs = append(errs, fmt.Sprintf("chain: contract_address %q is not a valid address", c.Chain.ContractAddress))
	}
	if !common.IsHexAddress(c.Chain.UsdcAddress) {
		errs = append(errs, fmt.Sprintf("chain: usdc_address %q is not a valid address", c.Chain.UsdcAddress))
	}
	if !common.IsHexAddress(c.Chain.UsdtAddress) {
		errs = append(errs, fmt.Sprintf("chain: usdt_address %q is not a valid address", c.Chain.UsdtAddress))
	}
	if c.Chain.TxConfirmTimeout.Duration <= 0 {
		errs = append(errs, "chain: tx_confirm_timeout must be positive")
	}
	if c.Chain.PollInterval.Duration <= 0 {
		errs = append(errs, "chain: poll_interval must be positive")
	}

	// Wallet is optional (read-only deployments), but an encrypted
	// keyfile needs its password.
	if c.Wallet.EncryptedKeyPath != "" && c.Wallet.KeyPassword == "" {
		errs = append(errs, "wallet: key_password is required when encrypted_key_path is set")
	}

	// Metadata
	if len(c.Metadata.Gateways) == 0 {
		errs = append(errs, "metadata: at least one gateway must be configured")
	}
	for _, gw := range c.Metadata.Gateways {
		if !strings.HasPrefix(gw, "http://") && !strings.HasPrefix(gw, "https://") {
			errs = append(errs, fmt.Sprintf("metadata: gateway %q must be an http(s) URL", gw))
		}
	}

	// Cache
	if !validCacheBackends[strings.ToLower(c.Cache.Backend)] {
		errs = append(errs, fmt.Sprintf("cache: unknown backend %q (valid: memory, redis)", c.Cache.Backend))
	}
	if c.Cache.TTL.Duration <= 0 {
		errs = append(errs, "cache: ttl must be positive")
	}
	if strings.EqualFold(c.Cache.Backend, "redis") {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when cache backend is redis")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "server: rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateLimitWindow.Duration <= 0 {
		errs = append(errs, "server: rate_limit_window must be positive when rate_limit is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// HasOperatorKey reports whether a signing key is configured.
func (c *Config) HasOperatorKey() bool {
	return c.Wallet.PrivateKey != "" || c.Wallet.EncryptedKeyPath != ""
}
