package config

import (
	"os"
	"testing"
	"time"

	"reportbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "7")
	t.Setenv("TEST_INT_BAD", "seven")

	assert.Equal(t, 7, getEnvInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("TEST_INT_BAD", 1))
	assert.Equal(t, 1, getEnvInt("TEST_INT_NOT_SET", 1))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "150ms")
	t.Setenv("TEST_DURATION_BAD", "soon")

	assert.Equal(t, 150*time.Millisecond, getEnvDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("TEST_DURATION_BAD", time.Second))
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
	assert.True(t, cfg.DatabaseEnabled())
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	clearEnv(t, "BOT_TOKEN", "CREDS_FILE")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "BOT_TOKEN")

	t.Setenv("BOT_TOKEN", "test_token")
	cfg, err = Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "CREDS_FILE")
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t,
		"SPREADSHEET_ID", "SPREADSHEET_NAME", "SHEET_NAME", "TIMEZONE", "REMINDER_SPEC",
		"RETRY_MAX", "RETRY_BASE_DELAY", "MAINTENANCE_INTERVAL",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DEPARTMENT_PASSWORD_REM1", "DEPARTMENT_PASSWORD_BREAKUP",
	)
	t.Setenv("BOT_TOKEN", "test_token")
	t.Setenv("CREDS_FILE", "creds.json")
	t.Setenv("DEPARTMENT_PASSWORD_BREAKUP", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test_token", cfg.BotToken)
	assert.Equal(t, "creds.json", cfg.CredentialsFile)
	assert.Equal(t, "Report", cfg.Spreadsheet.Name)
	assert.Equal(t, "Europe/Kiev", cfg.Timezone)
	assert.Equal(t, "45 16 * * 1-5", cfg.ReminderSpec)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 30*time.Minute, cfg.MaintenanceInterval)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "reportbot", cfg.Database.Name)
	assert.False(t, cfg.DatabaseEnabled())

	assert.Equal(t, "1", cfg.Passwords[domain.DepartmentServiceA])
	assert.Equal(t, "s3cret", cfg.Passwords[domain.DepartmentBreakup])
	assert.Len(t, cfg.Passwords, len(domain.Departments))
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BotToken:            "token",
			CredentialsFile:     "creds.json",
			Spreadsheet:         SpreadsheetConfig{Name: "Report"},
			Timezone:            "UTC",
			ReminderSpec:        "45 16 * * 1-5",
			Retry:               RetryConfig{MaxRetries: 5, BaseDelay: time.Second},
			MaintenanceInterval: time.Minute,
		}
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		contains string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, contains: "TIMEZONE"},
		{name: "bad cron", mutate: func(c *Config) { c.ReminderSpec = "every day" }, contains: "REMINDER_SPEC"},
		{name: "negative retries", mutate: func(c *Config) { c.Retry.MaxRetries = -1 }, contains: "RETRY_MAX"},
		{name: "zero delay", mutate: func(c *Config) { c.Retry.BaseDelay = 0 }, contains: "RETRY_BASE_DELAY"},
		{name: "no spreadsheet", mutate: func(c *Config) { c.Spreadsheet = SpreadsheetConfig{} }, contains: "SPREADSHEET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.contains == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}
