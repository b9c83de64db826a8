package config

import (
	"errors"
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
const DATE_PARSE_FORMAT = "2006-01-02"

var API_ENV = os.Getenv("API_ENV")

// GatewayConfig holds the payment gateway credentials and redirect targets.
// Business code receives it as a value, never reads the environment directly.
type GatewayConfig struct {
	Key        string
	Salt       string
	Action     string
	SuccessURL string
	FailureURL string
	Strict     bool
}

var gatewayConfig *GatewayConfig

func GetGatewayConfig() (*GatewayConfig, error) {
	if gatewayConfig != nil {
		return gatewayConfig, nil
	}
	cfg := &GatewayConfig{
		Key:        os.Getenv("PAYU_MERCHANT_KEY"),
		Salt:       os.Getenv("PAYU_MERCHANT_SALT"),
		Action:     os.Getenv("PAYU_ACTION_URL"),
		SuccessURL: os.Getenv("PAYU_SURL"),
		FailureURL: os.Getenv("PAYU_FURL"),
		Strict:     os.Getenv("PRICING_STRICT_MODE") == "true",
	}
	if cfg.Key == "" || cfg.Salt == "" || cfg.Action == "" {
		return nil, errors.New("payment gateway is not configured")
	}
	gatewayConfig = cfg
	return cfg, nil
}

// NewGatewayConfig replaces the gateway config with a custom instance
func NewGatewayConfig(c *GatewayConfig) *GatewayConfig {
	gatewayConfig = c
	return gatewayConfig
}
