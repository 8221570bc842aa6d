package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"cafebudget/internal/budget"
	"cafebudget/internal/database"
)

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	DB database.Config

	// Events; an empty AMQPURL disables publishing.
	AMQPURL      string
	AMQPExchange string

	PolicyFile string
	Policy     budget.Policy
}

// policyFile is the TOML layout of BUDGET_POLICY_FILE.
type policyFile struct {
	Ceiling          string   `toml:"ceiling"`
	ReservationRatio *float64 `toml:"reservation_ratio"`
	WindowMonths     *int     `toml:"window_months"`
}

// Load reads configuration from the environment (and .env, when present),
// applies the optional policy file and validates the result.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),
		DB: database.Config{
			Driver:     getEnv("DB_DRIVER", database.DriverPostgres),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "cafe"),
			Password:   getEnv("DB_PASSWORD", "cafe"),
			DBName:     getEnv("DB_NAME", "cafebudget"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			TimeZone:   getEnv("TIMEZONE", ""),
			SQLitePath: getEnv("SQLITE_PATH", "cafebudget.db"),
		},
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cafe.budgets"),
		PolicyFile:   getEnv("BUDGET_POLICY_FILE", ""),
		Policy:       budget.DefaultPolicy(),
	}

	if cfg.PolicyFile != "" {
		if err := cfg.loadPolicyFile(cfg.PolicyFile); err != nil {
			return nil, err
		}
	}
	if ceiling := os.Getenv("CEILING_POLICY"); ceiling != "" {
		cfg.Policy.Ceiling = budget.CeilingMode(strings.ToLower(ceiling))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadPolicyFile(path string) error {
	var pf policyFile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return fmt.Errorf("parsing budget policy file %s: %w", path, err)
	}
	if pf.Ceiling != "" {
		c.Policy.Ceiling = budget.CeilingMode(strings.ToLower(pf.Ceiling))
	}
	if pf.ReservationRatio != nil {
		c.Policy.ReservationRatio = decimal.NewFromFloat(*pf.ReservationRatio)
	}
	if pf.WindowMonths != nil {
		c.Policy.WindowMonths = *pf.WindowMonths
	}
	return nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DB.Driver {
	case database.DriverPostgres:
		if c.DB.Host == "" || c.DB.DBName == "" {
			problems = append(problems, "DB_HOST and DB_NAME are required for the postgres driver")
		}
	case database.DriverSQLite:
		if c.DB.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH cannot be empty when using the sqlite driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid DB_DRIVER '%s': must be postgres or sqlite", c.DB.Driver))
	}

	if c.AMQPURL != "" && c.AMQPExchange == "" {
		problems = append(problems, "AMQP_EXCHANGE cannot be empty when AMQP_URL is set")
	}

	if err := c.Policy.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
