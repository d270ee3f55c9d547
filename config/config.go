package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort      string        `envconfig:"HTTP_PORT"      default:":8080"`
	GrpcPort      string        `envconfig:"GRPC_PORT"      default:":50051"` // health probes only
	LogLevel      string        `envconfig:"LOG_LEVEL"      default:"info"`
	DefaultLocale string        `envconfig:"DEFAULT_LOCALE" default:"en"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL"    default:"30m"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"memory"` // memory | file | redis | postgres
	StorageDir    string `envconfig:"STORAGE_DIR"    default:"./data/sessions"`

	RedisAddr          string   `envconfig:"REDIS_ADDR"           default:"localhost:6379"`
	RedisSentinelAddrs []string `envconfig:"REDIS_SENTINEL_ADDRS"`
	RedisMasterName    string   `envconfig:"REDIS_MASTER_NAME"    default:"mymaster"`
	RedisDB            int      `envconfig:"REDIS_DB"             default:"0"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	CatalogDriver string        `envconfig:"CATALOG_DRIVER" default:"file"` // file | postgres
	CatalogPath   string        `envconfig:"CATALOG_PATH"   default:"./data/products.json"`
	CatalogTTL    time.Duration `envconfig:"CATALOG_TTL"    default:"5m"`
}

// NeedsDatabase reports whether any configured driver talks to postgres.
func (c *Config) NeedsDatabase() bool {
	return strings.EqualFold(c.StorageDriver, "postgres") || strings.EqualFold(c.CatalogDriver, "postgres")
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		if err := envconfig.Process("", &config); err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: HTTP Port=%s, GRPC Port=%s, LogLevel=%s, Storage=%s, Catalog=%s",
			config.HTTPPort, config.GrpcPort, config.LogLevel, config.StorageDriver, config.CatalogDriver)
		if config.NeedsDatabase() && config.DatabaseURL == "" {
			logger.Fatal("Configuration error: DATABASE_URL is not set but a postgres driver is selected")
		}
	})
	return &config
}

// Process reads configuration from the environment only, without the .env file or the
// process-wide cache.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
