package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Import    ImportConfig    `yaml:"import"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
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

// LedgerConfig contains reconciliation-core settings
type LedgerConfig struct {
	ReportingCurrency   string `yaml:"reporting_currency"`   // e.g. "USD"
	ValidationTolerance string `yaml:"validation_tolerance"` // absolute, in reporting currency
}

// ImportConfig contains import pipeline limits
type ImportConfig struct {
	MaxBatchRows int `yaml:"max_batch_rows"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ValidateBalances    string  `yaml:"validate_balances"`
	RetryFailedImports  string  `yaml:"retry_failed_imports"`
	ValidatedCompanyIDs []int64 `yaml:"validated_company_ids"`
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

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Ledger
	if val := os.Getenv("REPORTING_CURRENCY"); val != "" {
		c.Ledger.ReportingCurrency = val
	}
	if val := os.Getenv("VALIDATION_TOLERANCE"); val != "" {
		c.Ledger.ValidationTolerance = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
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

	if c.Ledger.ReportingCurrency == "" {
		c.Ledger.ReportingCurrency = "USD"
	}
	if c.Ledger.ValidationTolerance == "" {
		c.Ledger.ValidationTolerance = "0.01"
	}
	if _, err := decimal.NewFromString(c.Ledger.ValidationTolerance); err != nil {
		return fmt.Errorf("invalid validation tolerance %q: %w", c.Ledger.ValidationTolerance, err)
	}

	if c.Import.MaxBatchRows == 0 {
		c.Import.MaxBatchRows = 10000
	}

	// Scheduler defaults
	if c.Scheduler.ValidateBalances == "" {
		c.Scheduler.ValidateBalances = "0 */30 * * * *" // every 30 minutes
	}
	if c.Scheduler.RetryFailedImports == "" {
		c.Scheduler.RetryFailedImports = "0 0 6 * * *" // 6 AM UTC
	}

	return nil
}

// Tolerance returns the validation tolerance as a decimal. Validate has
// already checked the string parses.
func (c *Config) Tolerance() decimal.Decimal {
	d, _ := decimal.NewFromString(c.Ledger.ValidationTolerance)
	return d
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
