package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"wardrobeapi/logger"
)

// Config holds everything the api and worker binaries read from the environment.
type Config struct {
	Env      string
	LogLevel string
	Port     string

	DBDriver   string
	DBUsername string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	SQLitePath string

	GoogleAPIKey string
	LLMModel     string

	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string

	AsyncBrokerAddress string
	SentryDSN          string

	MaxUploadMB int64
	RateLimit   float64
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debugf("config: .env not loaded, using environment: %v", err)
	}

	cfg := &Config{
		Env:                GetEnv("ENV", "local"),
		LogLevel:           GetEnv("LOG_LEVEL", "info"),
		Port:               GetEnv("PORT", "8083"),
		DBDriver:           GetEnv("DB_DRIVER", "postgres"),
		DBUsername:         GetEnv("DB_USERNAME", ""),
		DBPassword:         GetEnv("DB_PASSWORD", ""),
		DBHost:             GetEnv("DB_HOST", "localhost"),
		DBPort:             GetEnv("DB_PORT", "5432"),
		DBName:             GetEnv("DB_NAME", "wardrobe"),
		SQLitePath:         GetEnv("SQLITE_PATH", "wardrobe.db"),
		GoogleAPIKey:       GetEnv("GOOGLE_API_KEY", ""),
		LLMModel:           GetEnv("LLM_MODEL", "gemini-2.5-flash"),
		R2AccountID:        GetEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:      GetEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret:  GetEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:       GetEnv("R2_BUCKET_NAME", ""),
		AsyncBrokerAddress: GetEnv("ASYNC_BROKER_ADDRESS", ""),
		SentryDSN:          GetEnv("SENTRY_DSN", ""),
	}

	maxUpload, err := strconv.ParseInt(GetEnv("MAX_UPLOAD_MB", "16"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, fmt.Errorf("config: invalid MAX_UPLOAD_MB: %q", os.Getenv("MAX_UPLOAD_MB"))
	}
	cfg.MaxUploadMB = maxUpload

	rateLimit, err := strconv.ParseFloat(GetEnv("RATE_LIMIT", "3"), 64)
	if err != nil || rateLimit < 0 {
		return nil, fmt.Errorf("config: invalid RATE_LIMIT: %q", os.Getenv("RATE_LIMIT"))
	}
	cfg.RateLimit = rateLimit

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// StorageEnabled reports whether R2 credentials are complete.
func (c *Config) StorageEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2BucketName != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DefaultAPIURL is the backend the CLI talks to when nothing else is configured.
const DefaultAPIURL = "http://localhost:8083"

// APIURL returns the backend base URL for the CLI from WARDROBE_API_URL.
func APIURL() string {
	return GetEnv("WARDROBE_API_URL", DefaultAPIURL)
}

func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}
