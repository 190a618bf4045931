package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aranyat/reviews-api/pkg/global"
)

// VerifiedPolicy decides how the caller's "verified" value becomes the stored flag.
type VerifiedPolicy string

const (
	// VerifiedCoerce treats any truthy JSON value as verified.
	VerifiedCoerce VerifiedPolicy = "coerce"
	// VerifiedCaller only accepts a literal JSON true.
	VerifiedCaller VerifiedPolicy = "caller"
	// VerifiedAlways marks every review verified.
	VerifiedAlways VerifiedPolicy = "always"
)

// MultiMatchPolicy decides what happens when the lookup returns several metafields.
type MultiMatchPolicy string

const (
	MultiMatchFirst MultiMatchPolicy = "first"
	MultiMatchError MultiMatchPolicy = "error"
)

// WriteMode selects the concurrency guard around the read-modify-write.
type WriteMode string

const (
	// WriteModeNone is the unguarded read-then-write. Concurrent submissions for
	// the same product can overwrite each other.
	WriteModeNone WriteMode = "none"
	// WriteModeLock serializes writers per product with a Redis lock.
	WriteModeLock WriteMode = "lock"
	// WriteModeConditional re-reads the metafield before writing and aborts if it moved.
	WriteModeConditional WriteMode = "conditional"
)

// Config holds all application configuration. It is built once at startup.
type Config struct {
	Server  ServerConfig
	Shopify ShopifyConfig
	Reviews ReviewsConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	AI      AIConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// ShopifyConfig holds the Admin API coordinates and the access token.
type ShopifyConfig struct {
	Store       string
	APIVersion  string
	AccessToken string
	// BaseURL overrides the URL derived from Store and APIVersion.
	BaseURL string
	// Timeout of zero means no client timeout.
	Timeout time.Duration
}

type ReviewsConfig struct {
	Namespace        string
	Key              string
	VerifiedPolicy   VerifiedPolicy
	MultiMatch       MultiMatchPolicy
	WriteMode        WriteMode
	RequireProductID bool
	ExposeErrors     bool
	LockTTL          time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type MongoConfig struct {
	URI      string
	Database string
}

type AIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: global.GetEnvOrDefault("PORT", "3000"),
			Env:  global.GetEnvOrDefault("ENV", "development"),
		},
		Shopify: ShopifyConfig{
			Store:       global.GetEnvOrDefault("SHOPIFY_STORE", "smnf7g-bg"),
			APIVersion:  global.GetEnvOrDefault("SHOPIFY_API_VERSION", "2024-01"),
			AccessToken: global.GetEnvOrDefault("SHOPIFY_ADMIN_TOKEN", ""),
			BaseURL:     global.GetEnvOrDefault("SHOPIFY_BASE_URL", ""),
			Timeout:     global.GetEnvAsDuration("SHOPIFY_TIMEOUT", 0),
		},
		Reviews: ReviewsConfig{
			Namespace:        global.GetEnvOrDefault("REVIEWS_NAMESPACE", "aranyat"),
			Key:              global.GetEnvOrDefault("REVIEWS_KEY", "reviews"),
			VerifiedPolicy:   VerifiedPolicy(strings.ToLower(global.GetEnvOrDefault("REVIEWS_VERIFIED_POLICY", string(VerifiedCoerce)))),
			MultiMatch:       MultiMatchPolicy(strings.ToLower(global.GetEnvOrDefault("REVIEWS_MULTI_MATCH", string(MultiMatchFirst)))),
			WriteMode:        WriteMode(strings.ToLower(global.GetEnvOrDefault("REVIEWS_WRITE_MODE", string(WriteModeNone)))),
			RequireProductID: global.GetEnvAsBool("REVIEWS_REQUIRE_PRODUCT_ID", true),
			ExposeErrors:     global.GetEnvAsBool("REVIEWS_EXPOSE_ERRORS", false),
			LockTTL:          global.GetEnvAsDuration("REVIEWS_LOCK_TTL", 10*time.Second),
		},
		Redis: RedisConfig{
			Address:  global.GetEnvOrDefault("REDIS_ADDRESS", ""),
			Password: global.GetEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       global.GetEnvAsInt("REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:      global.GetEnvOrDefault("MONGODB_URI", ""),
			Database: global.GetEnvOrDefault("MONGODB_DATABASE", "reviews"),
		},
		AI: AIConfig{
			Endpoint:   global.GetEnvOrDefault("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:     global.GetEnvOrDefault("AZURE_OPENAI_API_KEY", ""),
			Deployment: global.GetEnvOrDefault("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-35-turbo"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum values and cross-field requirements.
func (c *Config) Validate() error {
	var errs []error

	if c.Shopify.AccessToken == "" {
		errs = append(errs, errors.New("SHOPIFY_ADMIN_TOKEN is not set"))
	}
	if c.Shopify.BaseURL == "" && c.Shopify.Store == "" {
		errs = append(errs, errors.New("SHOPIFY_STORE is not set"))
	}
	if c.Reviews.Namespace == "" || c.Reviews.Key == "" {
		errs = append(errs, errors.New("REVIEWS_NAMESPACE and REVIEWS_KEY must not be empty"))
	}

	switch c.Reviews.VerifiedPolicy {
	case VerifiedCoerce, VerifiedCaller, VerifiedAlways:
	default:
		errs = append(errs, fmt.Errorf("unknown REVIEWS_VERIFIED_POLICY %q", c.Reviews.VerifiedPolicy))
	}

	switch c.Reviews.MultiMatch {
	case MultiMatchFirst, MultiMatchError:
	default:
		errs = append(errs, fmt.Errorf("unknown REVIEWS_MULTI_MATCH %q", c.Reviews.MultiMatch))
	}

	switch c.Reviews.WriteMode {
	case WriteModeNone, WriteModeConditional:
	case WriteModeLock:
		if c.Redis.Address == "" {
			errs = append(errs, errors.New("REVIEWS_WRITE_MODE=lock requires REDIS_ADDRESS"))
		}
		if c.Reviews.LockTTL <= 0 {
			errs = append(errs, errors.New("REVIEWS_LOCK_TTL must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown REVIEWS_WRITE_MODE %q", c.Reviews.WriteMode))
	}

	return errors.Join(errs...)
}

// ShopifyBaseURL returns the Admin REST API root, e.g.
// https://<store>.myshopify.com/admin/api/2024-01
func (c *ShopifyConfig) ShopifyBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", c.Store, c.APIVersion)
}

// AIEnabled reports whether sentiment tagging can be switched on.
func (c *AIConfig) AIEnabled() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
