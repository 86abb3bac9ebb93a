package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration for the AutoBridge services,
// loaded from environment variables.
type Config struct {
	Stage string
	Port  string

	// Storage
	DatabaseURL string

	// Oracles
	GasOracleURL     string
	PriceOracleURL   string
	PriceFeedWSURL   string
	OracleFixedValue float64
	OracleMaxAge     time.Duration

	// Bridge transport
	BridgeTransportURL string
	BridgeDestination  uint32
	BridgeActionTag    string

	// Fixed amount moved per bridge execution, in wei. A configured
	// constant rather than a caller-supplied value so a single automated
	// execution has a bounded blast radius.
	BridgeTransferAmountWei *big.Int

	// Swap venue
	SwapVenueURL string

	// Payout rail for withdrawals and fee refunds
	PayoutURL string

	// Events / alerting
	SQSQueueURL    string
	ResendAPIKey   string
	AlertFromEmail string
	AlertToEmail   string

	// Monitor worker
	MonitorPollInterval time.Duration
	MonitorWorkerCount  int
}

// Load reads configuration from the environment, applying defaults for
// everything that is optional.
func Load() (*Config, error) {
	cfg := &Config{
		Stage:              getEnv("STAGE", "dev"),
		Port:               getEnv("PORT", "8000"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GasOracleURL:       os.Getenv("GAS_ORACLE_URL"),
		PriceOracleURL:     os.Getenv("PRICE_ORACLE_URL"),
		PriceFeedWSURL:     os.Getenv("PRICE_FEED_WS_URL"),
		BridgeTransportURL: os.Getenv("BRIDGE_TRANSPORT_URL"),
		BridgeActionTag:    getEnv("BRIDGE_ACTION_TAG", "bridge"),
		SwapVenueURL:       os.Getenv("SWAP_VENUE_URL"),
		PayoutURL:          os.Getenv("PAYOUT_URL"),
		SQSQueueURL:        os.Getenv("EVENTS_SQS_QUEUE_URL"),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		AlertFromEmail:     getEnv("ALERT_FROM_EMAIL", "alerts@autobridge.dev"),
		AlertToEmail:       os.Getenv("ALERT_TO_EMAIL"),
	}

	var err error
	if cfg.OracleFixedValue, err = getEnvFloat("ORACLE_FIXED_VALUE", 0); err != nil {
		return nil, err
	}
	if cfg.OracleMaxAge, err = getEnvDuration("ORACLE_MAX_AGE", 5*time.Minute); err != nil {
		return nil, err
	}

	dest, err := getEnvInt("BRIDGE_DESTINATION_DOMAIN", 40161)
	if err != nil {
		return nil, err
	}
	cfg.BridgeDestination = uint32(dest)

	amountStr := getEnv("BRIDGE_TRANSFER_AMOUNT_WEI", "100000000000000000") // 0.1 ether
	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("invalid BRIDGE_TRANSFER_AMOUNT_WEI: %q", amountStr)
	}
	cfg.BridgeTransferAmountWei = amount

	if cfg.MonitorPollInterval, err = getEnvDuration("MONITOR_POLL_INTERVAL", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.MonitorWorkerCount, err = getEnvInt("MONITOR_WORKER_COUNT", 3); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
