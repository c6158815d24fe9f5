// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the TOA website backend
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Ops      OpsConfig
	Security SecurityConfig
	External ExternalConfig
	Cart     CartConfig
	Cache    CacheConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	SiteURL     string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig contains Postgres connection configuration
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

// OpsConfig contains configuration for the operations API (flag overrides,
// order and inquiry listings). The site has no customer accounts; the only
// credential is the ops login.
type OpsConfig struct {
	Email        string
	PasswordHash string // bcrypt hash, generate with scripts/generate_password.go
	JWTSecret    string
	TokenExpiry  time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	MaxRequestBody     int64
	RequestTimeout     time.Duration
}

// ExternalConfig contains external service configurations
type ExternalConfig struct {
	Printful PrintfulConfig
	Stripe   StripeConfig
	YouTube  YouTubeConfig
	Podcast  PodcastConfig
	Email    EmailConfig
}

// PrintfulConfig contains Printful store API configuration
type PrintfulConfig struct {
	APIKey  string
	BaseURL string
	StoreID string
}

// StripeConfig contains Stripe payment configuration
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	SuccessURL     string
	CancelURL      string
}

// YouTubeConfig contains YouTube Data API configuration
type YouTubeConfig struct {
	APIKey      string
	BaseURL     string
	PlaylistIDs []string
	MaxResults  int
}

// PodcastConfig contains podcast RSS feed configuration
type PodcastConfig struct {
	FeedURL string
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Provider     string
	APIKey       string
	APIBaseURL   string
	FromEmail    string
	FromName     string
	ReplyTo      string
	InquiryInbox string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// CartConfig contains shopping cart configuration
type CartConfig struct {
	ExpiryDays    int
	CookieName    string
	CookieMaxAge  int
	CookieSecure  bool
	SessionPrefix string
}

// CacheConfig contains freshness windows for cached upstream responses
type CacheConfig struct {
	ProductTTL time.Duration
	VideoTTL   time.Duration
	PodcastTTL time.Duration
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
			Name:        getEnv("APP_NAME", "TOA Website API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			SiteURL:     getEnv("SITE_URL", "http://localhost:3000"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "toa_website"),
			User:         getEnv("DB_USER", "toa"),
			Password:     getEnv("DB_PASSWORD", "toa_password"),
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
		Ops: OpsConfig{
			Email:        getEnv("OPS_EMAIL", "ops@talesofalethrion.example"),
			PasswordHash: getEnv("OPS_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("OPS_JWT_SECRET", "change-me-to-a-32-byte-minimum-secret!"),
			TokenExpiry:  getEnvAsDuration("OPS_TOKEN_EXPIRE", 12*time.Hour),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			MaxRequestBody:     getEnvAsInt64("MAX_REQUEST_BODY", 1<<20),
			RequestTimeout:     getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		External: ExternalConfig{
			Printful: PrintfulConfig{
				APIKey:  getEnv("PRINTFUL_API_KEY", ""),
				BaseURL: getEnv("PRINTFUL_BASE_URL", "https://api.printful.com"),
				StoreID: getEnv("PRINTFUL_STORE_ID", ""),
			},
			Stripe: StripeConfig{
				SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
				PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
				WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
				SuccessURL:     getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/shop/success"),
				CancelURL:      getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/shop/cart"),
			},
			YouTube: YouTubeConfig{
				APIKey:      getEnv("YOUTUBE_API_KEY", ""),
				BaseURL:     getEnv("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3"),
				PlaylistIDs: getEnvAsSlice("YOUTUBE_PLAYLIST_IDS", []string{}),
				MaxResults:  getEnvAsInt("YOUTUBE_MAX_RESULTS", 50),
			},
			Podcast: PodcastConfig{
				FeedURL: getEnv("PODCAST_FEED_URL", ""),
			},
			Email: EmailConfig{
				Provider:     getEnv("EMAIL_PROVIDER", "smtp"),
				APIKey:       getEnv("EMAIL_API_KEY", ""),
				APIBaseURL:   getEnv("EMAIL_API_BASE_URL", "https://api.sendgrid.com/v3"),
				FromEmail:    getEnv("FROM_EMAIL", "noreply@talesofalethrion.example"),
				FromName:     getEnv("FROM_NAME", "Tales of Alethrion"),
				ReplyTo:      getEnv("REPLY_TO", ""),
				InquiryInbox: getEnv("INQUIRY_INBOX", "partners@talesofalethrion.example"),
				SMTPHost:     getEnv("SMTP_HOST", ""),
				SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
				SMTPUsername: getEnv("SMTP_USER", ""),
				SMTPPassword: getEnv("SMTP_PASS", ""),
				SMTPUseTLS:   getEnvAsBool("SMTP_USE_TLS", false),
			},
		},
		Cart: CartConfig{
			ExpiryDays:    getEnvAsInt("CART_EXPIRY_DAYS", 7),
			CookieName:    getEnv("CART_COOKIE_NAME", "cart_session"),
			CookieMaxAge:  getEnvAsInt("CART_COOKIE_MAX_AGE", 7*24*60*60),
			CookieSecure:  getEnvAsBool("CART_COOKIE_SECURE", false),
			SessionPrefix: getEnv("CART_SESSION_PREFIX", "cart:session:"),
		},
		Cache: CacheConfig{
			ProductTTL: getEnvAsDuration("CACHE_PRODUCT_TTL", 10*time.Minute),
			VideoTTL:   getEnvAsDuration("CACHE_VIDEO_TTL", time.Hour),
			PodcastTTL: getEnvAsDuration("CACHE_PODCAST_TTL", time.Hour),
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
	if len(c.Ops.JWTSecret) < 32 {
		return fmt.Errorf("OPS_JWT_SECRET must be at least 32 characters long")
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

	if c.Cart.ExpiryDays <= 0 {
		return fmt.Errorf("CART_EXPIRY_DAYS must be positive")
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

// GetDatabaseDSN returns the Postgres connection string
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
