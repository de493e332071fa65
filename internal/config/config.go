package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Stripe     StripeConfig     `yaml:"stripe"`
	SendGrid   SendGridConfig   `yaml:"sendgrid"`
	JWT        JWTConfig        `yaml:"jwt"`
	Commission CommissionConfig `yaml:"commission"`
	Log        LogConfig        `yaml:"log"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"` // public base URL used in onboarding links
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// StripeConfig contains payment processor settings
type StripeConfig struct {
	APIKey        string `yaml:"api_key"`
	SigningSecret string `yaml:"webhook_signing_secret"`
	Currency      string `yaml:"currency"`
	// Test seam only; the stripe provider refuses this flag with a live key.
	InsecureSkipWebhookVerify bool `yaml:"insecure_skip_webhook_verify"`
}

// SendGridConfig contains email settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// CommissionConfig contains marketplace fee settings
type CommissionConfig struct {
	Rate     string `yaml:"rate"`      // fraction, e.g. "0.10"
	FixedFee string `yaml:"fixed_fee"` // flat amount, e.g. "0.00"
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReconcileOwnerBalances string `yaml:"reconcile_owner_balances"`
	RefreshStaleAccounts   string `yaml:"refresh_stale_accounts"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Stripe
	if val := os.Getenv("STRIPE_API_KEY"); val != "" {
		c.Stripe.APIKey = val
	}
	if val := os.Getenv("STRIPE_WEBHOOK_SIGNING_SECRET"); val != "" {
		c.Stripe.SigningSecret = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("SERVER_BASE_URL"); val != "" {
		c.Server.BaseURL = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Stripe.APIKey == "" {
		return fmt.Errorf("stripe API key is required")
	}
	if c.Stripe.Currency == "" {
		c.Stripe.Currency = "usd"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Commission defaults: 10%, no fixed fee
	if c.Commission.Rate == "" {
		c.Commission.Rate = "0.10"
	}
	if c.Commission.FixedFee == "" {
		c.Commission.FixedFee = "0.00"
	}
	if _, err := decimal.NewFromString(c.Commission.Rate); err != nil {
		return fmt.Errorf("invalid commission rate %q: %w", c.Commission.Rate, err)
	}
	if _, err := decimal.NewFromString(c.Commission.FixedFee); err != nil {
		return fmt.Errorf("invalid commission fixed fee %q: %w", c.Commission.FixedFee, err)
	}

	// Scheduler defaults
	if c.Scheduler.ReconcileOwnerBalances == "" {
		c.Scheduler.ReconcileOwnerBalances = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.RefreshStaleAccounts == "" {
		c.Scheduler.RefreshStaleAccounts = "0 0 * * * *" // hourly
	}

	return nil
}

// CommissionRate returns the parsed commission rate.
func (c *Config) CommissionRate() decimal.Decimal {
	return decimal.RequireFromString(c.Commission.Rate)
}

// CommissionFixedFee returns the parsed flat commission fee.
func (c *Config) CommissionFixedFee() decimal.Decimal {
	return decimal.RequireFromString(c.Commission.FixedFee)
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
