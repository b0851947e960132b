// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
	Security SecurityConfig
	Store    StoreConfig
	External ExternalConfig
	Seed     SeedConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	CompanyName string
	SiteURL     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SessionConfig controls the session cookie and the sign-in redirect used by
// route protection.
type SessionConfig struct {
	CookieName      string
	CookieSecure    bool
	CartCookieName  string
	CartTTL         time.Duration
	SignInURL       string
	ProtectedPrefix []string
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// StoreConfig holds the storefront defaults used until an admin saves settings
type StoreConfig struct {
	Name                  string
	Currency              string
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	LowStockThreshold     int
}

// ExternalConfig contains external service configurations
type ExternalConfig struct {
	Stripe StripeConfig
	Email  EmailConfig
	PDF    PDFConfig
}

// StripeConfig contains Stripe payment configuration
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	Environment    string
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Enabled      bool
	FromEmail    string
	FromName     string
	AdminEmail   string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// PDFConfig points at the wkhtmltopdf binary used for invoices
type PDFConfig struct {
	WkhtmltopdfPath string
}

// SeedConfig contains development seed data settings
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ZozaGateway Snacks API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			CompanyName: getEnv("COMPANY_NAME", "ZozaGateway"),
			SiteURL:     getEnv("SITE_URL", "http://localhost:3000"),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", 10<<20),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "snacks_db"),
			User:         getEnv("DB_USER", "snacks_user"),
			Password:     getEnv("DB_PASSWORD", "snacks_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),
		},
		Session: SessionConfig{
			CookieName:      getEnv("SESSION_COOKIE_NAME", "session_token"),
			CookieSecure:    getEnvAsBool("SESSION_COOKIE_SECURE", false),
			CartCookieName:  getEnv("CART_COOKIE_NAME", "cart_session"),
			CartTTL:         getEnvAsDuration("CART_TTL", 24*time.Hour),
			SignInURL:       getEnv("SIGN_IN_URL", "/auth/signin"),
			ProtectedPrefix: getEnvAsSlice("PROTECTED_PREFIXES", []string{"/admin", "/orders", "/checkout"}),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Store: StoreConfig{
			Name:                  getEnv("STORE_NAME", "Zoza Gateway Snacks"),
			Currency:              getEnv("STORE_CURRENCY", "USD"),
			DeliveryFee:           getEnvAsDecimal("DELIVERY_FEE", decimal.RequireFromString("3.99")),
			FreeDeliveryThreshold: getEnvAsDecimal("FREE_DELIVERY_THRESHOLD", decimal.RequireFromString("25.00")),
			LowStockThreshold:     getEnvAsInt("LOW_STOCK_THRESHOLD", 10),
		},
		External: ExternalConfig{
			Stripe: StripeConfig{
				SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
				PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
				WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
				Environment:    getEnv("STRIPE_ENVIRONMENT", "test"),
			},
			Email: EmailConfig{
				Enabled:      getEnvAsBool("EMAIL_ENABLED", false),
				FromEmail:    getEnv("FROM_EMAIL", "orders@zozagateway.com"),
				FromName:     getEnv("FROM_NAME", "Zoza Gateway Snacks"),
				AdminEmail:   getEnv("ADMIN_NOTIFY_EMAIL", ""),
				SMTPHost:     getEnv("SMTP_HOST", ""),
				SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
				SMTPUsername: getEnv("SMTP_USERNAME", ""),
				SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			},
			PDF: PDFConfig{
				WkhtmltopdfPath: getEnv("WKHTMLTOPDF_PATH", ""),
			},
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
			AdminName:     getEnv("SEED_ADMIN_NAME", "Store Admin"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.IsProduction() && c.External.Stripe.WebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required in production")
	}

	if c.Store.DeliveryFee.IsNegative() || c.Store.FreeDeliveryThreshold.IsNegative() {
		return fmt.Errorf("DELIVERY_FEE and FREE_DELIVERY_THRESHOLD cannot be negative")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
