package config

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Firestore FirestoreConfig
	Auth      AuthConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Stats     StatsConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Invoice   InvoiceConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

// AuthConfig selects which bearer tokens are accepted: "jwt" for tokens
// issued by this API, "firebase" for Firebase ID tokens.
type AuthConfig struct {
	Provider string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type StatsConfig struct {
	CacheTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type InvoiceConfig struct {
	NumberPrefix string
	DefaultTax   decimal.Decimal
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       viper.GetString("FIRESTORE_PROJECT_ID"),
			CredentialsFile: viper.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		},
		Auth: AuthConfig{
			Provider: strings.ToLower(viper.GetString("AUTH_PROVIDER")),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Stats: StatsConfig{
			CacheTTL: viper.GetDuration("STATS_CACHE_TTL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Invoice: InvoiceConfig{
			NumberPrefix: viper.GetString("INVOICE_NUMBER_PREFIX"),
			DefaultTax:   parseDecimal(viper.GetString("INVOICE_DEFAULT_TAX")),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "salon-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("FIRESTORE_PROJECT_ID", "")
	viper.SetDefault("GOOGLE_APPLICATION_CREDENTIALS", "")
	viper.SetDefault("AUTH_PROVIDER", "firebase")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("STATS_CACHE_TTL", "5m")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("INVOICE_NUMBER_PREFIX", "INV-")
	viper.SetDefault("INVOICE_DEFAULT_TAX", "0")
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
