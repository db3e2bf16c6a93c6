package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first env file found among envFilePath (searching parent
// directories) and then processes the environment into an App config.
func Load(envFilePath ...string) (*App, error) {
	loadEnvFiles(envFilePath...)
	return loadFromEnv()
}

// LoadDB reads env files like Load but processes only the DATABASE_ group,
// so tools that just need a connection do not require the app secrets.
func LoadDB(envFilePath ...string) (*DB, error) {
	loadEnvFiles(envFilePath...)
	var db DB
	if err := envconfig.Process("DATABASE", &db); err != nil {
		return nil, err
	}
	if db.Url == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return &db, nil
}

func loadEnvFiles(envFilePath ...string) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return
	}

	for _, path := range envFilePath {
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		return
	}

	logger.Info("No valid environment files found, using process environment")
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"db", maskValue(cfg.DB.Url),
		"event_bus", cfg.EventBus.Driver,
		"plaid_env", cfg.Plaid.Env,
		"plaid_client_id", maskValue(cfg.Plaid.ClientID),
		"plaid_timeout", cfg.Plaid.Timeout,
		"stripe_api_key", maskValue(cfg.Stripe.ApiKey),
		"stripe_timeout", cfg.Stripe.Timeout,
	)
	return &cfg, nil
}

// maskValue keeps the first two and last four characters of a secret.
func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
