package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	RunMigrations bool
	DBMaxConns    int32
	JWTSecret     string
	JWTIssuer     string

	CORSAllowedOrigins []string
	RateLimit          string // ulule limiter format, e.g. "100-M"

	// Market rate provider
	MarketRateAPIURL  string `mapstructure:"MARKET_RATE_API_URL"`
	MarketRateAPIKey  string `mapstructure:"MARKET_RATE_API_KEY"`
	MarketRateTimeout time.Duration

	// Resolution engine
	DefaultBaseCurrency string
	FallbackMaxDepth    int
	BatchTimeout        time.Duration
	BatchTaskTimeout    time.Duration
	BatchConcurrency    int
	RateCacheSize       int

	// Rate events
	KafkaBrokers   []string
	KafkaRateTopic string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("DB_MAX_CONNS", 0)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "expense-fx-engine")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("MARKET_RATE_API_URL", "")
	viper.SetDefault("MARKET_RATE_API_KEY", "")
	viper.SetDefault("MARKET_RATE_TIMEOUT", "4s")
	viper.SetDefault("DEFAULT_BASE_CURRENCY", "CNY")
	viper.SetDefault("FALLBACK_MAX_DEPTH", 10)
	viper.SetDefault("BATCH_TIMEOUT", "20s")
	viper.SetDefault("BATCH_TASK_TIMEOUT", "5s")
	viper.SetDefault("BATCH_CONCURRENCY", 8)
	viper.SetDefault("RATE_CACHE_SIZE", 4096)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_RATE_TOPIC", "fx.monthly-rates")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "expense-fx-engine"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.MarketRateAPIURL = viper.GetString("MARKET_RATE_API_URL")
	cfg.MarketRateAPIKey = viper.GetString("MARKET_RATE_API_KEY")
	if cfg.MarketRateAPIURL == "" {
		log.Println("Warning: MARKET_RATE_API_URL not set. Market rate lookups are disabled.")
	}
	cfg.MarketRateTimeout = durationOrDefault("MARKET_RATE_TIMEOUT", 4*time.Second)

	cfg.DefaultBaseCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("DEFAULT_BASE_CURRENCY")))
	if len(cfg.DefaultBaseCurrency) != 3 {
		log.Printf("Warning: Invalid DEFAULT_BASE_CURRENCY ('%s'). Defaulting to CNY.\n", cfg.DefaultBaseCurrency)
		cfg.DefaultBaseCurrency = "CNY"
	}

	cfg.FallbackMaxDepth = viper.GetInt("FALLBACK_MAX_DEPTH")
	if cfg.FallbackMaxDepth <= 0 {
		log.Printf("Warning: Invalid FALLBACK_MAX_DEPTH (%d). Defaulting to 10.\n", cfg.FallbackMaxDepth)
		cfg.FallbackMaxDepth = 10
	}

	cfg.BatchTimeout = durationOrDefault("BATCH_TIMEOUT", 20*time.Second)
	cfg.BatchTaskTimeout = durationOrDefault("BATCH_TASK_TIMEOUT", 5*time.Second)
	if cfg.BatchTaskTimeout >= cfg.BatchTimeout {
		cfg.BatchTaskTimeout = cfg.BatchTimeout / 2
		log.Printf("Warning: BATCH_TASK_TIMEOUT must be shorter than BATCH_TIMEOUT. Using %s.\n", cfg.BatchTaskTimeout)
	}

	cfg.BatchConcurrency = viper.GetInt("BATCH_CONCURRENCY")
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 8
	}
	cfg.RateCacheSize = viper.GetInt("RATE_CACHE_SIZE")

	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaRateTopic = viper.GetString("KAFKA_RATE_TOPIC")

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
