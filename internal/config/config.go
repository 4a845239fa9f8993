package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects everything the service reads from the environment.
// Pricing defaults mirror the store's production settings.
type Config struct {
	Port string

	MySQLUser     string
	MySQLPassword string
	MySQLHost     string
	MySQLPort     string
	MySQLDatabase string

	RedisHost string

	RabbitURL      string
	RabbitExchange string

	PaystackBaseURL   string
	PaystackSecretKey string
	GatewayTimeout    time.Duration

	CurrencyCode          string
	TaxEnabled            bool
	TaxRate               float64 // percent, e.g. 7.5
	FreeShippingThreshold float64
	ShippingCost          float64
}

func FromEnv() Config {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		MySQLUser:     os.Getenv("MYSQL_USER"),
		MySQLPassword: os.Getenv("MYSQL_PASSWORD"),
		MySQLHost:     os.Getenv("MYSQL_HOST"),
		MySQLPort:     getenv("MYSQL_PORT", "3306"),
		MySQLDatabase: os.Getenv("MYSQL_DATABASE"),

		RedisHost: os.Getenv("REDIS_HOST"),

		RabbitURL:      os.Getenv("RABBITMQ_URL"),
		RabbitExchange: getenv("RABBITMQ_EXCHANGE", "shop.exchange"),

		PaystackBaseURL:   getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		GatewayTimeout:    getduration("GATEWAY_TIMEOUT", 10*time.Second),

		CurrencyCode:          getenv("CURRENCY_CODE", "NGN"),
		TaxEnabled:            getbool("TAX_ENABLED", true),
		TaxRate:               getfloat("TAX_RATE", 7.5),
		FreeShippingThreshold: getfloat("FREE_SHIPPING_THRESHOLD", 50000),
		ShippingCost:          getfloat("DEFAULT_SHIPPING_COST", 2000),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
