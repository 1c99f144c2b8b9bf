package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of
// the built-in defaults, applies MARKETGATE_* environment variable
// overrides, and returns the final Config. The returned Config has NOT
// been validated; the caller should invoke Config.Validate() after
// Load. An empty path skips the file and uses defaults + environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MARKETGATE_* environment variables
// and overwrites the corresponding Config fields when a variable is
// set. This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Chain ──
	setStr(&cfg.Chain.RPCURL, "MARKETGATE_CHAIN_RPC_URL")
	setInt64(&cfg.Chain.ChainID, "MARKETGATE_CHAIN_ID")
	setStr(&cfg.Chain.ContractAddress, "MARKETGATE_CHAIN_CONTRACT_ADDRESS")
	setStr(&cfg.Chain.UsdcAddress, "MARKETGATE_CHAIN_USDC_ADDRESS")
	setStr(&cfg.Chain.UsdtAddress, "MARKETGATE_CHAIN_USDT_ADDRESS")
	setDuration(&cfg.Chain.TxConfirmTimeout, "MARKETGATE_CHAIN_TX_CONFIRM_TIMEOUT")
	setDuration(&cfg.Chain.PollInterval, "MARKETGATE_CHAIN_POLL_INTERVAL")

	// ── Wallet ──
	setStr(&cfg.Wallet.PrivateKey, "MARKETGATE_WALLET_PRIVATE_KEY")
	setStr(&cfg.Wallet.EncryptedKeyPath, "MARKETGATE_WALLET_ENCRYPTED_KEY_PATH")
	setStr(&cfg.Wallet.KeyPassword, "MARKETGATE_WALLET_KEY_PASSWORD")

	// ── Metadata ──
	setStringSlice(&cfg.Metadata.Gateways, "MARKETGATE_METADATA_GATEWAYS")
	setStr(&cfg.Metadata.PinningAPIKey, "MARKETGATE_METADATA_PINNING_API_KEY")

	// ── Cache ──
	setStr(&cfg.Cache.Backend, "MARKETGATE_CACHE_BACKEND")
	setDuration(&cfg.Cache.TTL, "MARKETGATE_CACHE_TTL")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "MARKETGATE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "MARKETGATE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "MARKETGATE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "MARKETGATE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "MARKETGATE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "MARKETGATE_REDIS_TLS_ENABLED")

	// ── Server ──
	setInt(&cfg.Server.Port, "MARKETGATE_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "MARKETGATE_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "MARKETGATE_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "MARKETGATE_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateLimitWindow, "MARKETGATE_SERVER_RATE_LIMIT_WINDOW")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "MARKETGATE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the
// environment variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
