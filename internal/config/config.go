package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvConfig holds the environment-driven settings of the export service.
type EnvConfig struct {
	APP_PORT      string
	LOG_FILE_PATH string

	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	DB_SSL_MODE string

	ELASTIC_URL    string
	GCP_PROJECT_ID string

	EXPORT_BATCH_SIZE int
}

// DefaultEnvConfig is populated by LoadEnvConfig and read throughout the app.
var DefaultEnvConfig = &EnvConfig{}

// LoadEnvConfig reads a .env file when present and fills DefaultEnvConfig
// from the process environment.
func LoadEnvConfig() error {
	// A missing .env file is fine; real deployments set variables directly.
	_ = godotenv.Load()

	DefaultEnvConfig.APP_PORT = getEnv("APP_PORT", "8080")
	DefaultEnvConfig.LOG_FILE_PATH = getEnv("LOG_FILE_PATH", "")

	DefaultEnvConfig.DB_HOST = getEnv("DB_HOST", "")
	DefaultEnvConfig.DB_PORT = getEnv("DB_PORT", "5432")
	DefaultEnvConfig.DB_USER = getEnv("DB_USER", "")
	DefaultEnvConfig.DB_PASSWORD = getEnv("DB_PASSWORD", "")
	DefaultEnvConfig.DB_NAME = getEnv("DB_NAME", "")
	DefaultEnvConfig.DB_SSL_MODE = getEnv("DB_SSL_MODE", "disable")

	DefaultEnvConfig.ELASTIC_URL = getEnv("ELASTIC_URL", "")
	DefaultEnvConfig.GCP_PROJECT_ID = getEnv("GCP_PROJECT_ID", "")

	batch, err := strconv.Atoi(getEnv("EXPORT_BATCH_SIZE", "500"))
	if err != nil {
		return fmt.Errorf("invalid EXPORT_BATCH_SIZE: %w", err)
	}
	DefaultEnvConfig.EXPORT_BATCH_SIZE = batch

	return nil
}

// DatabaseConfigured reports whether enough settings are present to open
// a Postgres connection.
func (c *EnvConfig) DatabaseConfigured() bool {
	return c.DB_HOST != "" && c.DB_USER != "" && c.DB_NAME != ""
}

// PostgresDSN assembles a lib/pq connection string from the DB_* settings.
func (c *EnvConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB_HOST, c.DB_PORT, c.DB_USER, c.DB_PASSWORD, c.DB_NAME, c.DB_SSL_MODE)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
