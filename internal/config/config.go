// Package config loads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers.
const (
	DriverSpanner = "spanner"
	DriverMemory  = "memory"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr string `envconfig:"GRPC_ADDR" default:":50051"`

	StoreDriver     string `envconfig:"STORE_DRIVER"     default:"spanner"`
	SpannerDatabase string `envconfig:"SPANNER_DATABASE" default:"projects/test-project/instances/emulator-instance/databases/test-db"`

	ImageDir       string `envconfig:"IMAGE_DIR"        default:"wwwroot/images/products"`
	ImageURLPrefix string `envconfig:"IMAGE_URL_PREFIX" default:"/images/products"`
	ImageMaxBytes  int64  `envconfig:"IMAGE_MAX_BYTES"  default:"5242880"`

	RedisAddr        string        `envconfig:"REDIS_ADDR"`
	CategoryCacheTTL time.Duration `envconfig:"CATEGORY_CACHE_TTL" default:"5m"`

	JWTSigningKey string `envconfig:"JWT_SIGNING_KEY"`
	JWTIssuer     string `envconfig:"JWT_ISSUER"   default:"ecommerce-catalog"`
	JWTAudience   string `envconfig:"JWT_AUDIENCE"`

	SeedCategories bool `envconfig:"SEED_CATEGORIES" default:"true"`

	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// Load reads envFile when it exists and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var problems []string

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSpanner:
		if c.SpannerDatabase == "" {
			problems = append(problems, "SPANNER_DATABASE is required for the spanner driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER %q is not one of spanner, memory", c.StoreDriver))
	}

	if c.HTTPAddr == "" {
		problems = append(problems, "HTTP_ADDR is required")
	}
	if c.ImageDir == "" {
		problems = append(problems, "IMAGE_DIR is required")
	}
	if !strings.HasPrefix(c.ImageURLPrefix, "/") {
		problems = append(problems, "IMAGE_URL_PREFIX must start with /")
	}
	if c.ImageMaxBytes <= 0 {
		problems = append(problems, "IMAGE_MAX_BYTES must be positive")
	}
	if c.CategoryCacheTTL <= 0 {
		problems = append(problems, "CATEGORY_CACHE_TTL must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, "SHUTDOWN_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// AuthEnabled reports whether mutating routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSigningKey != ""
}

// CacheEnabled reports whether category lookups go through Redis.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
