package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Catalog source kinds
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Browse    BrowseConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig selects where the product catalog is loaded from
type CatalogConfig struct {
	Source      string        `mapstructure:"source"` // "file", "http" or "postgres"
	Path        string        `mapstructure:"path"`
	URL         string        `mapstructure:"url"`
	DatabaseURL string        `mapstructure:"database_url"`
	Table       string        `mapstructure:"table"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration (requests per minute)
type RateLimitConfig struct {
	PerIP    int `mapstructure:"per_ip"`
	Upstream int `mapstructure:"upstream"`
}

// BrowseConfig holds pagination defaults for product listings
type BrowseConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// flagBindings maps config keys to the command-line flags that override them
var flagBindings = map[string]string{
	"server.port":  "port",
	"catalog.path": "catalog-path",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagBindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding --%s flag: %w", name, err)
		}
	}
	return nil
}

// IsDevelopment reports whether verbose diagnostics should be enabled
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Load loads configuration from the command line, a .env file, environment
// variables and config files, in that order of precedence.
func Load(args []string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	flags := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a YAML config file")
	flags.String("port", "", "HTTP listen port")
	flags.String("catalog-path", "", "catalog JSON file (file source)")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/storefront/")
	}

	// Environment variable settings
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	// Set default values
	setDefaults(v)

	// Read config file (optional unless --config was given)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if *configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads variables from ./.env without overriding ones already
// set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Catalog defaults
	v.SetDefault("catalog.source", SourceFile)
	v.SetDefault("catalog.path", "data/products.json")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.table", "products")
	v.SetDefault("catalog.load_timeout", "30s")

	// Cache defaults
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.upstream", 60)

	// Browse defaults
	v.SetDefault("browse.default_limit", 24)
	v.SetDefault("browse.max_limit", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case SourceFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for file source (set STOREFRONT_CATALOG_PATH)")
		}
	case SourceHTTP:
		if config.Catalog.URL == "" {
			return fmt.Errorf("catalog URL is required for http source (set STOREFRONT_CATALOG_URL)")
		}
	case SourcePostgres:
		if config.Catalog.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for postgres source (set STOREFRONT_CATALOG_DATABASE_URL)")
		}
		if config.Catalog.Table == "" {
			return fmt.Errorf("catalog table is required for postgres source")
		}
	default:
		return fmt.Errorf("catalog source must be 'file', 'http' or 'postgres', got: %s", config.Catalog.Source)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	if config.Browse.DefaultLimit <= 0 || config.Browse.MaxLimit <= 0 {
		return fmt.Errorf("browse limits must be positive")
	}

	if config.Browse.DefaultLimit > config.Browse.MaxLimit {
		return fmt.Errorf("browse.default_limit (%d) exceeds browse.max_limit (%d)",
			config.Browse.DefaultLimit, config.Browse.MaxLimit)
	}

	return nil
}
