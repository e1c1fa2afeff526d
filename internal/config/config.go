package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"reportbot/internal/domain"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	BotToken            string
	CredentialsFile     string
	Spreadsheet         SpreadsheetConfig
	Timezone            string
	ReminderSpec        string
	Retry               RetryConfig
	Passwords           map[domain.Department]string
	MaintenanceInterval time.Duration
	Database            DatabaseConfig
}

// SpreadsheetConfig identifies the report spreadsheet
type SpreadsheetConfig struct {
	ID    string
	Name  string
	Sheet string
}

// RetryConfig bounds retries of spreadsheet calls
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:        os.Getenv("BOT_TOKEN"),
		CredentialsFile: os.Getenv("CREDS_FILE"),
		Spreadsheet: SpreadsheetConfig{
			ID:    os.Getenv("SPREADSHEET_ID"),
			Name:  getEnv("SPREADSHEET_NAME", "Report"),
			Sheet: os.Getenv("SHEET_NAME"),
		},
		Timezone:     getEnv("TIMEZONE", "Europe/Kiev"),
		ReminderSpec: getEnv("REMINDER_SPEC", "45 16 * * 1-5"),
		Retry: RetryConfig{
			MaxRetries: getEnvInt("RETRY_MAX", 5),
			BaseDelay:  getEnvDuration("RETRY_BASE_DELAY", 2*time.Second),
		},
		Passwords:           loadPasswords(),
		MaintenanceInterval: getEnvDuration("MAINTENANCE_INTERVAL", 30*time.Minute),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "reportbot"),
			User:     getEnv("DB_USER", "reportbot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.CredentialsFile == "" {
		return fmt.Errorf("CREDS_FILE is required")
	}
	if c.Spreadsheet.ID == "" && c.Spreadsheet.Name == "" {
		return fmt.Errorf("SPREADSHEET_ID or SPREADSHEET_NAME is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if _, err := cron.ParseStandard(c.ReminderSpec); err != nil {
		return fmt.Errorf("invalid REMINDER_SPEC %q: %w", c.ReminderSpec, err)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("RETRY_MAX must be >= 0")
	}
	if c.Retry.BaseDelay <= 0 {
		return fmt.Errorf("RETRY_BASE_DELAY must be > 0")
	}
	if c.MaintenanceInterval <= 0 {
		return fmt.Errorf("MAINTENANCE_INTERVAL must be > 0")
	}
	return nil
}

// Location returns the configured timezone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseEnabled reports whether the report archive is configured
func (c *Config) DatabaseEnabled() bool {
	return c.Database.Password != ""
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// loadPasswords reads DEPARTMENT_PASSWORD_<PAYLOAD> overrides, e.g.
// DEPARTMENT_PASSWORD_REM1
func loadPasswords() map[domain.Department]string {
	passwords := make(map[domain.Department]string, len(domain.Departments))
	for _, d := range domain.Departments {
		key := "DEPARTMENT_PASSWORD_" + strings.ToUpper(string(d))
		passwords[d] = getEnv(key, d.DefaultPassword())
	}
	return passwords
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
