package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// RPC settings
	RPCUrl   string
	WSUrl    string
	APIV3Url string

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// HTTP client settings
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// HTTP API settings
	ServerAddr   string
	RateLimit    int
	RecentTrades int

	// Quoting settings
	SlippageBps      uint64
	PoolRegistryPath string

	// Watcher settings
	TargetListPath string
	PingInterval   time.Duration

	// Wallet settings
	WalletPrivateKey string
}

func Load() *Config {
	return &Config{
		// RPC
		RPCUrl:   getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		WSUrl:    getEnv("SOLANA_WS_URL", "wss://api.mainnet-beta.solana.com"),
		APIV3Url: getEnv("RAYDIUM_API_URL", "https://api-v3.raydium.io"),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "solana"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// HTTP
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:   getIntEnv("MAX_RETRIES", 5),
		RetryBackoff: getDurationEnv("RETRY_BACKOFF", 2*time.Second),

		// API
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		RateLimit:    getIntEnv("RATE_LIMIT", 20),
		RecentTrades: getIntEnv("RECENT_TRADES", 100),

		// Quoting
		SlippageBps:      uint64(getIntEnv("SLIPPAGE_BPS", 100)),
		PoolRegistryPath: getEnv("POOL_REGISTRY_PATH", ""),

		// Watcher
		TargetListPath: getEnv("TARGET_LIST_PATH", ""),
		PingInterval:   getDurationEnv("PING_INTERVAL", 3*time.Second),

		// Wallet
		WalletPrivateKey: getEnv("WALLET_PRIVATE_KEY", ""),
	}
}

func (c *Config) Validate() error {
	if c.RPCUrl == "" {
		return fmt.Errorf("SOLANA_RPC_URL is required")
	}
	if c.SlippageBps > 10000 {
		return fmt.Errorf("SLIPPAGE_BPS must be 0..10000")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
