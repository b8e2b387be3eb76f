package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"antesala/internal/pricing"
	"antesala/internal/shared/constants"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageLocal  = "local"
	StorageRemote = "remote"
)

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port            string
	GinMode         string
	APIVersion      string
	APIPrefix       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int

	CORSAllowedOrigins []string

	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Storage   StorageConfig
	Pricing   PricingConfig
	RateLimit RateLimitConfig
	Backup    BackupConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig holds the changefeed broker configuration
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	Topic       string
	GroupPrefix string
}

// StorageConfig selects where reservations live
type StorageConfig struct {
	Backend      string
	LocalKey     string
	StartupDelay time.Duration
}

// PricingConfig holds the venue's tax rates, fees and price overrides
type PricingConfig struct {
	RoomPricingMode          string
	FoodStateTaxRate         decimal.Decimal
	FoodCityTaxRate          decimal.Decimal
	AlcoholTaxRate           decimal.Decimal
	AudioVisualFee           decimal.Decimal
	DecorationsFee           decimal.Decimal
	WaitstaffFee             decimal.Decimal
	ValetFee                 decimal.Decimal
	DefaultDepositPercentage decimal.Decimal

	// Per-guest food prices and room hourly rates keyed by catalog id
	FoodPrices      map[string]decimal.Decimal
	RoomHourlyRates map[string]decimal.Decimal
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool          `json:"enabled"`
	WindowDuration    time.Duration `json:"window_duration"`
	DefaultRequests   int           `json:"default_requests"`
	WriteRequests     int           `json:"write_requests"`
	QuoteRequests     int           `json:"quote_requests"`
	AnalyticsRequests int           `json:"analytics_requests"`
	WhitelistedIPs    []string      `json:"whitelisted_ips"`
}

// BackupConfig holds the S3-compatible bucket used by cmd/backup
type BackupConfig struct {
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3Prefix    string
	S3AccessKey string
	S3SecretKey string
	OutputPath  string
}

// Load loads configuration from environment variables
func Load() *Config {
	defaults := pricing.DefaultPolicy()

	return &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		APIVersion:      getEnv("API_VERSION", "v1"),
		APIPrefix:       getEnv("API_PREFIX", "/api"),
		ReadTimeout:     getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		CORSAllowedOrigins: getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		// Database configuration
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "antesala_db"),
			User:            getEnv("DB_USER", "antesala_user"),
			Password:        getEnv("DB_PASSWORD", "antesala_password"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 20),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		// Redis configuration
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		Kafka: KafkaConfig{
			Enabled:     getBoolEnv("KAFKA_ENABLED", false),
			Brokers:     getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:       getEnv("KAFKA_RESERVATIONS_TOPIC", "antesala.reservations"),
			GroupPrefix: getEnv("KAFKA_GROUP_PREFIX", "antesala-sync"),
		},

		Storage: StorageConfig{
			Backend:      strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
			LocalKey:     getEnv("STORAGE_LOCAL_KEY", constants.DEFAULT_LOCAL_RESERVATIONS_KEY),
			StartupDelay: getDurationEnv("STORAGE_STARTUP_DELAY", 100*time.Millisecond),
		},

		Pricing: PricingConfig{
			RoomPricingMode:          getEnv("ROOM_PRICING_MODE", string(defaults.RoomPricing)),
			FoodStateTaxRate:         getDecimalEnv("TAX_FOOD_STATE_RATE", defaults.Taxes.FoodState),
			FoodCityTaxRate:          getDecimalEnv("TAX_FOOD_CITY_RATE", defaults.Taxes.FoodCity),
			AlcoholTaxRate:           getDecimalEnv("TAX_ALCOHOL_RATE", defaults.Taxes.Alcohol),
			AudioVisualFee:           getDecimalEnv("FEE_AUDIO_VISUAL", defaults.Fees.AudioVisual),
			DecorationsFee:           getDecimalEnv("FEE_DECORATIONS", defaults.Fees.Decorations),
			WaitstaffFee:             getDecimalEnv("FEE_WAITSTAFF", defaults.Fees.Waitstaff),
			ValetFee:                 getDecimalEnv("FEE_VALET", defaults.Fees.Valet),
			DefaultDepositPercentage: getDecimalEnv("DEFAULT_DEPOSIT_PERCENTAGE", defaults.DefaultDepositPercentage),
			FoodPrices:               getDecimalMapEnv("FOOD_PRICES"),
			RoomHourlyRates:          getDecimalMapEnv("ROOM_HOURLY_RATES"),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:           getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:    getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests:   getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 120),
			WriteRequests:     getIntEnv("RATE_LIMIT_WRITE_REQUESTS", 30),
			QuoteRequests:     getIntEnv("RATE_LIMIT_QUOTE_REQUESTS", 240),
			AnalyticsRequests: getIntEnv("RATE_LIMIT_ANALYTICS_REQUESTS", 60),
			WhitelistedIPs:    getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Backup: BackupConfig{
			S3Bucket:    getEnv("BACKUP_S3_BUCKET", ""),
			S3Endpoint:  getEnv("BACKUP_S3_ENDPOINT", ""),
			S3Region:    getEnv("BACKUP_S3_REGION", "auto"),
			S3Prefix:    getEnv("BACKUP_S3_PREFIX", "backups"),
			S3AccessKey: getEnv("BACKUP_S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("BACKUP_S3_SECRET_KEY", ""),
			OutputPath:  getEnv("BACKUP_OUTPUT_PATH", "reservations-backup.json"),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// DSN builds the postgres connection string
func (db DatabaseConfig) DSN() string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// Addr is the host:port pair for the redis client
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// PricingPolicy builds the engine policy. An unknown room pricing mode is an error.
func (c *Config) PricingPolicy() (pricing.Policy, error) {
	mode, err := pricing.ParseRoomPricingMode(c.Pricing.RoomPricingMode)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("invalid ROOM_PRICING_MODE: %w", err)
	}
	return pricing.Policy{
		RoomPricing: mode,
		Taxes: pricing.TaxRates{
			FoodState: c.Pricing.FoodStateTaxRate,
			FoodCity:  c.Pricing.FoodCityTaxRate,
			Alcohol:   c.Pricing.AlcoholTaxRate,
		},
		Fees: pricing.ServiceFees{
			AudioVisual: c.Pricing.AudioVisualFee,
			Decorations: c.Pricing.DecorationsFee,
			Waitstaff:   c.Pricing.WaitstaffFee,
			Valet:       c.Pricing.ValetFee,
		},
		DefaultDepositPercentage: c.Pricing.DefaultDepositPercentage,
	}, nil
}

// Validate reports settings the server cannot start with
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StorageLocal, StorageRemote:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q (memory, local or remote)", c.Storage.Backend)
	}
	if _, err := c.PricingPolicy(); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	return nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getDecimalEnv gets a decimal environment variable with a fallback value
func getDecimalEnv(key string, fallback decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

// getDecimalMapEnv parses "id=price,id=price". Malformed pairs are skipped.
func getDecimalMapEnv(key string) map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{}
	for _, pair := range getStringSliceEnv(key, nil) {
		id, price, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil {
			continue
		}
		out[strings.TrimSpace(id)] = d
	}
	return out
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
