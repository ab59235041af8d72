package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the catalog-admin service settings.
type Config struct {
	Port           string
	Env            string
	GraphQLURL     string
	GraphQLToken   string
	RequestTimeout time.Duration

	RedisURL     string
	CodeCacheTTL time.Duration

	ExportBucket    string
	ExportPrefix    string
	ExportURLExpiry time.Duration

	NotifyTopicArn string

	CloudWatchEnabled   bool
	CloudWatchNamespace string

	AllowedOrigins []string
	ImportMaxBytes int64
	UseSecrets     bool
}

// SecretGetter reads a named secret. Implemented by pkg/aws.SecretsClient.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// GraphQLTokenSecret is the Secrets Manager name holding the backend API token.
const GraphQLTokenSecret = "catalog-admin/GRAPHQL_TOKEN"

// Load reads the .env file if present and builds a Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8090"),
		Env:                 getEnv("APP_ENV", "development"),
		GraphQLURL:          getEnv("GRAPHQL_ENDPOINT", "http://localhost:3000/graphql"),
		GraphQLToken:        getEnv("GRAPHQL_TOKEN", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		ExportBucket:        getEnv("EXPORT_S3_BUCKET", ""),
		ExportPrefix:        getEnv("EXPORT_S3_PREFIX", "exports/"),
		NotifyTopicArn:      getEnv("NOTIFY_SNS_TOPIC_ARN", ""),
		CloudWatchEnabled:   getEnv("CLOUDWATCH_ENABLED", "false") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "CatalogAdmin"),
		UseSecrets:          getEnv("AWS_USE_SECRETS", "false") == "true",
	}

	var err error
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CodeCacheTTL, err = parseDuration("CODE_CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.ExportURLExpiry, err = parseDuration("EXPORT_URL_EXPIRY", "15m"); err != nil {
		return nil, err
	}

	maxBytes := getEnv("IMPORT_MAX_BYTES", "10485760")
	cfg.ImportMaxBytes, err = strconv.ParseInt(maxBytes, 10, 64)
	if err != nil || cfg.ImportMaxBytes <= 0 {
		return nil, fmt.Errorf("invalid IMPORT_MAX_BYTES %q", maxBytes)
	}

	for _, o := range strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(strings.TrimSuffix(o, "/")); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.GraphQLURL == "" {
		return nil, fmt.Errorf("GRAPHQL_ENDPOINT is required")
	}

	return cfg, nil
}

// ApplySecrets overrides values with secrets when AWS_USE_SECRETS=true.
// Lookup failures keep the environment value.
func (c *Config) ApplySecrets(ctx context.Context, sm SecretGetter) {
	if !c.UseSecrets || sm == nil {
		return
	}
	token, err := sm.GetSecret(ctx, GraphQLTokenSecret)
	if err != nil {
		zap.L().Warn("Failed to read GraphQL token secret, keeping env value", zap.Error(err))
		return
	}
	if token != "" {
		c.GraphQLToken = token
	}
}

// Helper to get an environment variable or return a default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
