package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI      string
	MongoDBName   string
	ServerPort    string
	JWTSecret     string
	JWTTTL        time.Duration
	CassandraHost string
	CORSOrigin    string
	LogFile       string
	LogLevel      string
	AdminSeedFile string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "intern_tracker"),
		ServerPort:    getEnv("SERVER_PORT", "5000"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CassandraHost: os.Getenv("CASS_DB"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AdminSeedFile: getEnv("ADMIN_SEED_FILE", "adminSeed.yaml"),
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	return cfg, nil
}

// Validate checks settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT is not set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
