package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Search backends.
const (
	SearchRedis         = "redis"
	SearchElasticsearch = "elasticsearch"
)

// Config holds the phonedex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	CORS     CORSConfig     `yaml:"cors"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds token and password settings.
type AuthConfig struct {
	JWTKey          string `yaml:"jwt_key"`
	TokenTTLMin     int    `yaml:"token_ttl_min"` // 0 = tokens never expire
	BcryptCost      int    `yaml:"bcrypt_cost"`
	MaxLoginAttempt int    `yaml:"max_login_attempts"`
	LockoutMin      int    `yaml:"lockout_min"`
}

// TokenTTL returns the token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMin) * time.Minute
}

// Lockout returns the failed-login window.
func (a AuthConfig) Lockout() time.Duration {
	return time.Duration(a.LockoutMin) * time.Minute
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds document store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig selects and configures the faceted search backend.
type SearchConfig struct {
	Driver        string              `yaml:"driver"` // redis, elasticsearch (default: redis)
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	CacheTTLSec   int                 `yaml:"cache_ttl_sec"` // 0 disables the result cache
}

// CacheTTL returns the search result cache lifetime.
func (s SearchConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSec) * time.Second
}

// ElasticsearchConfig holds Elasticsearch connection settings.
type ElasticsearchConfig struct {
	Addresses   []string `yaml:"addresses"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	IndexPrefix string   `yaml:"index_prefix"`
}

// CatalogConfig holds page sizes and bulk limits.
type CatalogConfig struct {
	PhonePageSize   int `yaml:"phone_page_size"`
	OfferPageSize   int `yaml:"offer_page_size"`
	PhoneListSize   int `yaml:"phone_list_size"`
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
	MaxBatchSize    int `yaml:"max_batch_size"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file, if present, is loaded into the environment first.
func Load(env string) (Config, error) {
	LoadDotEnv()

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadDotEnv loads .env from the working directory or the project root.
// Variables already set in the environment win.
func LoadDotEnv() {
	paths := []string{".env"}
	if root := projectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}
	for _, path := range paths {
		if fileExists(path) {
			_ = godotenv.Load(path)
			return
		}
	}
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.Driver == "" {
		c.Search.Driver = SearchRedis
	}
	if c.Search.Elasticsearch.IndexPrefix == "" {
		c.Search.Elasticsearch.IndexPrefix = "phonedex-"
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Auth.MaxLoginAttempt <= 0 {
		c.Auth.MaxLoginAttempt = 5
	}
	if c.Auth.LockoutMin <= 0 {
		c.Auth.LockoutMin = 15
	}
	if c.Catalog.PhonePageSize <= 0 {
		c.Catalog.PhonePageSize = 6
	}
	if c.Catalog.OfferPageSize <= 0 {
		c.Catalog.OfferPageSize = 16
	}
	if c.Catalog.PhoneListSize <= 0 {
		c.Catalog.PhoneListSize = 5
	}
	if c.Catalog.DefaultPageSize <= 0 {
		c.Catalog.DefaultPageSize = 20
	}
	if c.Catalog.MaxPageSize <= 0 {
		c.Catalog.MaxPageSize = 100
	}
	if c.Catalog.MaxBatchSize <= 0 {
		c.Catalog.MaxBatchSize = 500
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Search.Driver {
	case SearchRedis:
	case SearchElasticsearch:
		if len(c.Search.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("search.elasticsearch.addresses is required for the elasticsearch driver")
		}
	default:
		return fmt.Errorf("search.driver must be %q or %q, got %q", SearchRedis, SearchElasticsearch, c.Search.Driver)
	}
	if c.Search.CacheTTLSec < 0 {
		return fmt.Errorf("search.cache_ttl_sec must not be negative")
	}
	if c.Auth.JWTKey == "" {
		return fmt.Errorf("auth.jwt_key is required")
	}
	if c.Catalog.DefaultPageSize > c.Catalog.MaxPageSize {
		return fmt.Errorf("catalog.default_page_size %d exceeds catalog.max_page_size %d",
			c.Catalog.DefaultPageSize, c.Catalog.MaxPageSize)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	if root := projectRoot(); root != "" {
		if path := filepath.Join(root, "config", filename); fileExists(path) {
			return path
		}
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func projectRoot() string {
	_, b, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
