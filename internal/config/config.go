// Package config builds the process configuration from environment
// variables, with development defaults for every setting.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries everything the server needs to construct its
// collaborators. It is built once in main and passed down explicitly.
type Config struct {
	Port string

	DatabaseURL string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	// KafkaBroker empty means event publishing is disabled.
	KafkaBroker string
	KafkaTopic  string
}

// Default database settings
var (
	pgHost     = "localhost"
	pgPort     = 5432
	pgUser     = "postgres"
	pgPassword = "password"
	pgDatabase = "spots"
)

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:           "5000",
		MinioEndpoint:  "localhost:9000",
		MinioAccessKey: "minioadmin",
		MinioSecretKey: "minioadmin",
		MinioBucket:    "spots",
		KafkaTopic:     "spot-events",
	}

	if v, ok := os.LookupEnv("PORT"); ok {
		cfg.Port = v
	}

	databaseURL, err := databaseURL()
	if err != nil {
		return Config{}, err
	}
	cfg.DatabaseURL = databaseURL

	if v, ok := os.LookupEnv("MINIO_ENDPOINT"); ok {
		cfg.MinioEndpoint = v
	}
	if v, ok := os.LookupEnv("MINIO_ACCESS_KEY"); ok {
		cfg.MinioAccessKey = v
	}
	if v, ok := os.LookupEnv("MINIO_SECRET_KEY"); ok {
		cfg.MinioSecretKey = v
	}
	if v, ok := os.LookupEnv("MINIO_BUCKET"); ok {
		cfg.MinioBucket = v
	}
	cfg.MinioUseSSL = os.Getenv("MINIO_USE_SSL") == "true"
	cfg.MinioPublicURL = os.Getenv("MINIO_PUBLIC_URL")

	cfg.KafkaBroker = os.Getenv("KAFKA_BROKER")
	if v, ok := os.LookupEnv("KAFKA_TOPIC"); ok {
		cfg.KafkaTopic = v
	}

	return cfg, nil
}

// databaseURL assembles the Postgres connection string from PG_* variables,
// unless a full DATABASE_URL overrides them.
func databaseURL() (string, error) {
	if url, ok := os.LookupEnv("DATABASE_URL"); ok {
		return url, nil
	}

	host, port, user, password, dbname := pgHost, pgPort, pgUser, pgPassword, pgDatabase

	if v, ok := os.LookupEnv("PG_HOST"); ok {
		host = v
	}
	if v, ok := os.LookupEnv("PG_PORT"); ok {
		p, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("config: invalid PG_PORT %q: %w", v, err)
		}
		port = p
	}
	if v, ok := os.LookupEnv("PG_USER"); ok {
		user = v
	}
	if v, ok := os.LookupEnv("PG_PASSWORD"); ok {
		password = v
	}
	if v, ok := os.LookupEnv("PG_DATABASE"); ok {
		dbname = v
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", user, password, host, port, dbname), nil
}
