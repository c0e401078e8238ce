package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultConfigPath is where Load looks for the optional YAML file.
const DefaultConfigPath = "config.yaml"

// Config holds all configuration for ekaya-blueprint.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// TLS configuration (optional - if both provided, server uses HTTPS)
	TLSCertPath string `yaml:"tls_cert_path" env:"TLS_CERT_PATH" env-default:""`
	TLSKeyPath  string `yaml:"tls_key_path" env:"TLS_KEY_PATH" env-default:""`

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis read cache (optional; disabled when host is empty)
	Redis RedisConfig `yaml:"redis"`

	// Blueprint generation model
	LLM LLMConfig `yaml:"llm"`

	// MCP server
	MCP MCPConfig `yaml:"mcp"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development without auth server.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	// Format: "issuer1=url1,issuer2=url2"
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:"https://auth.ekaya.ai=https://auth.ekaya.ai/.well-known/jwks.json"`

	// Audience must appear in the token's aud claim. Empty disables the check.
	Audience string `yaml:"audience" env:"AUTH_AUDIENCE" env-default:"blueprint"`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"ekaya"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"ekaya_blueprint"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	MaxIdleConns   int32  `yaml:"max_idle_conns" env:"PGMAX_IDLE_CONNS" env-default:"5"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// RedisConfig holds the Redis read-cache configuration.
type RedisConfig struct {
	Host       string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port       int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password   string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB         int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTLSeconds int    `yaml:"project_cache_ttl_seconds" env:"PROJECT_CACHE_TTL_SECONDS" env-default:"300"`
}

// LLMConfig selects and tunes the blueprint generation model.
type LLMConfig struct {
	Provider       string  `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	APIKey         string  `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
	Model          string  `yaml:"model" env:"LLM_MODEL" env-default:""`
	BaseURL        string  `yaml:"base_url" env:"LLM_BASE_URL" env-default:""`
	TimeoutSeconds int     `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" env-default:"60"`
	MaxTokens      int     `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"8192"`
	Temperature    float64 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.7"`
}

// MCPConfig controls the MCP endpoint.
type MCPConfig struct {
	Enabled bool `yaml:"enabled" env:"MCP_ENABLED" env-default:"true"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// When config.yaml does not exist, configuration comes from the environment alone.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	return LoadFrom(DefaultConfigPath, version)
}

// LoadFrom is Load with an explicit YAML path.
func LoadFrom(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, statErr := os.Stat(path); statErr == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(statErr, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, statErr)
	}

	// Parse complex fields
	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	if err := cfg.validateTLS(); err != nil {
		return nil, fmt.Errorf("invalid TLS configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Use HTTPS scheme if TLS is configured
	if cfg.BaseURL == "" {
		scheme := "http"
		if cfg.TLSCertPath != "" {
			scheme = "https"
		}
		cfg.BaseURL = (&url.URL{
			Scheme: scheme,
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// TLSEnabled reports whether both TLS paths are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertPath != "" && c.TLSKeyPath != ""
}

// validateTLS ensures TLS configuration is valid if provided.
// Both cert and key must be provided together, and files must exist.
func (c *Config) validateTLS() error {
	certSet := c.TLSCertPath != ""
	keySet := c.TLSKeyPath != ""

	if certSet != keySet {
		return fmt.Errorf("both tls_cert_path and tls_key_path must be provided together")
	}

	if certSet {
		if _, err := os.Stat(c.TLSCertPath); err != nil {
			return fmt.Errorf("TLS cert file does not exist: %w", err)
		}
		if _, err := os.Stat(c.TLSKeyPath); err != nil {
			return fmt.Errorf("TLS key file does not exist: %w", err)
		}
	}

	return nil
}

// validate checks values cleanenv cannot. A missing LLM API key is not an
// error here; the generator reports it on first use.
func (c *Config) validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("llm provider must be openai or anthropic, got %q", c.LLM.Provider)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.Redis.TTLSeconds <= 0 {
		return fmt.Errorf("project_cache_ttl_seconds must be positive, got %d", c.Redis.TTLSeconds)
	}
	return nil
}

// parseJWKSEndpoints parses the JWKS endpoints string into a map.
// Format: "issuer1=url1,issuer2=url2"
func parseJWKSEndpoints(value string) map[string]string {
	endpoints := make(map[string]string)
	if value == "" {
		return endpoints
	}

	pairs := strings.Split(value, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, "=")
		if len(parts) == 2 {
			endpoints[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return endpoints
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ResolveHostForDocker(c.Host), c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Enabled reports whether a Redis host is configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port for the Redis client.
func (c *RedisConfig) Addr() string {
	return net.JoinHostPort(ResolveHostForDocker(c.Host), strconv.Itoa(c.Port))
}

// TTL returns the project cache TTL.
func (c *RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Timeout returns the bound applied to one generation call.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
