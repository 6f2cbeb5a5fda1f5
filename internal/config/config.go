package config

import (
	"fmt"
	"os"
)

// Config holds application configuration.
type Config struct {
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	ClickHouseHost     string
	ClickHousePort     string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseDatabase string
}

type ErrMissingRequiredEnvVar struct {
	Name string
}

func (e *ErrMissingRequiredEnvVar) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

// Load reads configuration from environment variables.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	config := Config{}

	config.MinIOEndpoint = os.Getenv("MINIO_ENDPOINT")
	if config.MinIOEndpoint == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ENDPOINT"}
	}
	config.MinIOAccessKey = os.Getenv("MINIO_ACCESS_KEY")
	if config.MinIOAccessKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ACCESS_KEY"}
	}
	config.MinIOSecretKey = os.Getenv("MINIO_SECRET_KEY")
	if config.MinIOSecretKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_SECRET_KEY"}
	}
	config.MinIOBucket = os.Getenv("MINIO_BUCKET")
	if config.MinIOBucket == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_BUCKET"}
	}
	config.MinIOUseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	config.ClickHouseHost = getEnv("CLICKHOUSE_HOST", "localhost")
	config.ClickHousePort = getEnv("CLICKHOUSE_PORT", "9000")
	config.ClickHouseUser = getEnv("CLICKHOUSE_USER", "default")
	config.ClickHousePassword = getEnv("CLICKHOUSE_PASSWORD", "")
	config.ClickHouseDatabase = getEnv("CLICKHOUSE_DATABASE", "jackfruit")

	return &config, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
