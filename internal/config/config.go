package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"retail-datagen/internal/errors"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logger    LoggerConfig    `yaml:"logger"`
	Security  SecurityConfig  `yaml:"security"`
	Generator GeneratorConfig `yaml:"generator"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig points the dashboard at a generated transactions file.
type DatabaseConfig struct {
	CSVFile string `yaml:"csv_file"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SecurityConfig struct {
	EnableCSRF      bool     `yaml:"csrf_enabled"`
	EnableRateLimit bool     `yaml:"rate_limit_enabled"`
	RateLimitRPS    int      `yaml:"rate_limit_rps"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	TrustedProxies  []string `yaml:"trusted_proxies"`
}

// GeneratorConfig sizes a dataset run. Defaults reproduce the reference
// dataset: 500 customers, 100 stores, 1M transactions, seed 42.
type GeneratorConfig struct {
	Customers    int    `yaml:"customers"`
	Stores       int    `yaml:"stores"`
	Transactions int    `yaml:"transactions"`
	SampleSize   int    `yaml:"sample_size"`
	OutputDir    string `yaml:"output_dir"`
	Seed         uint64 `yaml:"seed"`
}

const (
	DefaultCustomers    = 500
	DefaultStores       = 100
	DefaultTransactions = 1_000_000
	DefaultSampleSize   = 10_000
	DefaultOutputDir    = "data"
	DefaultSeed         = 42
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8084,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			CSVFile: filepath.Join(DefaultOutputDir, "sales_transactions.csv"),
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			EnableCSRF:      true,
			EnableRateLimit: true,
			RateLimitRPS:    100,
			RateLimitBurst:  10,
			AllowedOrigins:  []string{"http://localhost:8084"},
			TrustedProxies:  []string{"127.0.0.1"},
		},
		Generator: GeneratorConfig{
			Customers:    DefaultCustomers,
			Stores:       DefaultStores,
			Transactions: DefaultTransactions,
			SampleSize:   DefaultSampleSize,
			OutputDir:    DefaultOutputDir,
			Seed:         DefaultSeed,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment overrides, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, errors.Wrap(err, errors.CodeConfiguration, "load config file "+path)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnvString("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvInt("SERVER_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Database.CSVFile = getEnvString("CSV_FILE", c.Database.CSVFile)

	c.Logger.Level = getEnvString("LOG_LEVEL", c.Logger.Level)
	c.Logger.Format = getEnvString("LOG_FORMAT", c.Logger.Format)

	c.Security.EnableCSRF = getEnvBool("SECURITY_CSRF_ENABLED", c.Security.EnableCSRF)
	c.Security.EnableRateLimit = getEnvBool("SECURITY_RATE_LIMIT_ENABLED", c.Security.EnableRateLimit)
	c.Security.RateLimitRPS = getEnvInt("SECURITY_RATE_LIMIT_RPS", c.Security.RateLimitRPS)
	c.Security.RateLimitBurst = getEnvInt("SECURITY_RATE_LIMIT_BURST", c.Security.RateLimitBurst)
	c.Security.AllowedOrigins = getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", c.Security.AllowedOrigins)
	c.Security.TrustedProxies = getEnvStringSlice("SECURITY_TRUSTED_PROXIES", c.Security.TrustedProxies)

	c.Generator.Customers = getEnvInt("DATAGEN_CUSTOMERS", c.Generator.Customers)
	c.Generator.Stores = getEnvInt("DATAGEN_STORES", c.Generator.Stores)
	c.Generator.Transactions = getEnvInt("DATAGEN_TRANSACTIONS", c.Generator.Transactions)
	c.Generator.SampleSize = getEnvInt("DATAGEN_SAMPLE_SIZE", c.Generator.SampleSize)
	c.Generator.OutputDir = getEnvString("DATAGEN_OUTPUT_DIR", c.Generator.OutputDir)
	c.Generator.Seed = getEnvUint64("DATAGEN_SEED", c.Generator.Seed)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Configurationf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return errors.Configuration("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return errors.Configuration("server write timeout must be positive")
	}

	if c.Database.CSVFile == "" {
		return errors.Configuration("CSV file path cannot be empty")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return errors.Configurationf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return errors.Configurationf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return errors.Configuration("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return errors.Configuration("rate limit burst must be positive")
	}

	return c.Generator.Validate()
}

// Validate checks the generator section on its own so callers building a
// GeneratorConfig by hand get the same guarantees as Load.
func (g GeneratorConfig) Validate() error {
	if g.Customers <= 0 {
		return errors.Configurationf("customer count must be positive, got %d", g.Customers)
	}

	if g.Stores <= 0 {
		return errors.Configurationf("store count must be positive, got %d", g.Stores)
	}

	if g.Transactions < 0 {
		return errors.Configurationf("transaction count cannot be negative, got %d", g.Transactions)
	}

	if g.SampleSize < 0 {
		return errors.Configurationf("sample size cannot be negative, got %d", g.SampleSize)
	}

	if g.OutputDir == "" {
		return errors.Configuration("output directory cannot be empty")
	}

	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := cast.ToIntE(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := cast.ToUint64E(value); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := cast.ToBoolE(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := cast.ToDurationE(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
