package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

// validConfig returns a Config that passes Validate.
func validConfig() Config {
	cfg := Defaults()
	cfg.Chain.RPCURL = "https://sepolia.example.org"
	cfg.Chain.ContractAddress = validAddr
	cfg.Chain.UsdcAddress = validAddr
	cfg.Chain.UsdtAddress = validAddr
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Chain.ChainID != 11155111 {
		t.Errorf("chain id = %d, want Sepolia", cfg.Chain.ChainID)
	}
	if cfg.Chain.TxConfirmTimeout.Duration != 2*time.Minute {
		t.Errorf("tx confirm timeout = %v", cfg.Chain.TxConfirmTimeout.Duration)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("cache backend = %q, want memory", cfg.Cache.Backend)
	}
	if len(cfg.Metadata.Gateways) == 0 {
		t.Error("no default metadata gateways")
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing rpc url", func(c *Config) { c.Chain.RPCURL = "" }, "rpc_url"},
		{"bad contract address", func(c *Config) { c.Chain.ContractAddress = "nothex" }, "contract_address"},
		{"bad usdc address", func(c *Config) { c.Chain.UsdcAddress = "0x123" }, "usdc_address"},
		{"zero confirm timeout", func(c *Config) { c.Chain.TxConfirmTimeout.Duration = 0 }, "tx_confirm_timeout"},
		{"keyfile without password", func(c *Config) { c.Wallet.EncryptedKeyPath = "/tmp/key.json" }, "key_password"},
		{"no gateways", func(c *Config) { c.Metadata.Gateways = nil }, "gateway"},
		{"non-http gateway", func(c *Config) { c.Metadata.Gateways = []string{"ftp://x"} }, "http"},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "backend"},
		{"redis backend without addr", func(c *Config) { c.Cache.Backend = "redis"; c.Redis.Addr = "" }, "redis"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "rate_limit"},
		{"rate limit without window", func(c *Config) { c.Server.RateLimitWindow.Duration = 0 }, "rate_limit_window"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Chain.RPCURL = ""
	cfg.Server.Port = -1
	cfg.LogLevel = "chatty"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	for _, want := range []string{"rpc_url", "port", "log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("combined error %q does not mention %q", err, want)
		}
	}
}

func TestLoadFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
log_level = "debug"

[chain]
rpc_url = "https://sepolia.example.org"
chain_id = 31337
contract_address = "` + validAddr + `"
usdc_address = "` + validAddr + `"
usdt_address = "` + validAddr + `"
tx_confirm_timeout = "90s"

[server]
port = 9090
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Chain.ChainID != 31337 {
		t.Errorf("chain id = %d, want 31337", cfg.Chain.ChainID)
	}
	if cfg.Chain.TxConfirmTimeout.Duration != 90*time.Second {
		t.Errorf("tx confirm timeout = %v, want 90s", cfg.Chain.TxConfirmTimeout.Duration)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Chain.PollInterval.Duration != 2*time.Second {
		t.Errorf("poll interval = %v, want default 2s", cfg.Chain.PollInterval.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MARKETGATE_CHAIN_RPC_URL", "https://env.example.org")
	t.Setenv("MARKETGATE_SERVER_PORT", "7777")
	t.Setenv("MARKETGATE_CACHE_TTL", "30m")
	t.Setenv("MARKETGATE_METADATA_GATEWAYS", "https://a.example, https://b.example")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Chain.RPCURL != "https://env.example.org" {
		t.Errorf("rpc url = %q", cfg.Chain.RPCURL)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want 7777", cfg.Server.Port)
	}
	if cfg.Cache.TTL.Duration != 30*time.Minute {
		t.Errorf("cache ttl = %v, want 30m", cfg.Cache.TTL.Duration)
	}
	if len(cfg.Metadata.Gateways) != 2 || cfg.Metadata.Gateways[1] != "https://b.example" {
		t.Errorf("gateways = %v", cfg.Metadata.Gateways)
	}
}

func TestHasOperatorKey(t *testing.T) {
	cfg := validConfig()
	if cfg.HasOperatorKey() {
		t.Error("empty wallet reported as configured")
	}
	cfg.Wallet.PrivateKey = "0xabc"
	if !cfg.HasOperatorKey() {
		t.Error("raw key not detected")
	}
}
