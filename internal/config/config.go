package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	JWT       JWTConfig       `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host           string        `mapstructure:"REDIS_HOST"`
	Port           string        `mapstructure:"REDIS_PORT"`
	Password       string        `mapstructure:"REDIS_PASSWORD"`
	DB             int           `mapstructure:"REDIS_DB"`
	OutstandingTTL time.Duration `mapstructure:"OUTSTANDING_CACHE_TTL"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"JWT_SECRET"`
	ExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	Issuer          string `mapstructure:"JWT_ISSUER"`
}

type SchedulerConfig struct {
	SweepSpec  string `mapstructure:"SCHEDULER_SWEEP_SPEC"`
	SalarySpec string `mapstructure:"SCHEDULER_SALARY_SPEC"`
	Timezone   string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type BusinessConfig struct {
	DefaultInterestRate   string `mapstructure:"DEFAULT_INTEREST_RATE"`
	DefaultDurationDays   int    `mapstructure:"DEFAULT_LOAN_DURATION_DAYS"`
	DefaultBaseSalary     string `mapstructure:"DEFAULT_BASE_SALARY"`
	DefaultCommissionRate string `mapstructure:"DEFAULT_COMMISSION_RATE"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_NAME", "lending")
	viper.SetDefault("DATABASE_USER", "lending")
	viper.SetDefault("DATABASE_PASSWORD", "")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 12)
	viper.SetDefault("JWT_ISSUER", "lending-engine")
	viper.SetDefault("OUTSTANDING_CACHE_TTL", "5m")
	// Original back office ran the overdue sweep daily at 00:05
	viper.SetDefault("SCHEDULER_SWEEP_SPEC", "0 5 0 * * *")
	// Officer salaries settle for the previous month on the 1st at 00:30
	viper.SetDefault("SCHEDULER_SALARY_SPEC", "0 30 0 1 * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Africa/Lagos")
	viper.SetDefault("DEFAULT_INTEREST_RATE", "10.00")
	viper.SetDefault("DEFAULT_LOAN_DURATION_DAYS", 15)
	viper.SetDefault("DEFAULT_BASE_SALARY", "50000.00")
	viper.SetDefault("DEFAULT_COMMISSION_RATE", "5.00")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Business.DefaultDurationDays <= 0 {
		return fmt.Errorf("DEFAULT_LOAN_DURATION_DAYS must be greater than 0")
	}

	if _, err := decimal.NewFromString(c.Business.DefaultInterestRate); err != nil {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be a valid decimal: %w", err)
	}

	if _, err := decimal.NewFromString(c.Business.DefaultBaseSalary); err != nil {
		return fmt.Errorf("DEFAULT_BASE_SALARY must be a valid decimal: %w", err)
	}

	if _, err := decimal.NewFromString(c.Business.DefaultCommissionRate); err != nil {
		return fmt.Errorf("DEFAULT_COMMISSION_RATE must be a valid decimal: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	return nil
}

// DSN builds the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDefaultInterestRate returns the default interest rate as decimal
func (c *Config) GetDefaultInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultInterestRate)
	return rate
}

// GetDefaultBaseSalary returns the monthly officer base salary as decimal
func (c *Config) GetDefaultBaseSalary() decimal.Decimal {
	salary, _ := decimal.NewFromString(c.Business.DefaultBaseSalary)
	return salary
}

// GetDefaultCommissionRate returns the officer commission rate as decimal
func (c *Config) GetDefaultCommissionRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultCommissionRate)
	return rate
}
