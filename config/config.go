// Package config provides configuration management for the tutorgate relay.
// Configuration comes from an optional YAML file with ${ENV} expansion layered
// over defaults, followed by environment variable overrides for the values a
// deployment platform typically injects (PORT, GEMINI_API_KEY, ALLOWED_ORIGINS).
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete relay configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	CORS    CORSConfig    `yaml:"cors"`
	Logging LoggingConfig `yaml:"logging"`

	// PublicBaseURL is printed in the startup log line so operators can see
	// where the frontend should point. It is not used anywhere else.
	PublicBaseURL string `yaml:"public_base_url"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port specifies the HTTP server port (default: 8080)
	Port int `yaml:"port" validate:"gte=0,lte=65535"`

	// ReadTimeout is the maximum duration for reading the entire request (default: 30s)
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"gte=0"`

	// WriteTimeout is the maximum duration before timing out writes (default: 45s)
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`

	// MaxHeaderBytes caps request header size (default: 1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes" validate:"gte=0"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// GeminiConfig holds settings for the Gemini provider.
type GeminiConfig struct {
	// APIKey authenticates against the Generative Language API.
	// Use ${GEMINI_API_KEY} in the YAML or rely on the env override.
	APIKey string `yaml:"api_key" validate:"required"`

	// Model is the model identifier (default: gemini-2.0-flash)
	Model string `yaml:"model" validate:"required"`
}

// CORSConfig holds the allowed cross-origin request origins.
type CORSConfig struct {
	// AllowedOrigins lists the origins permitted to call the relay.
	// An entry of "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present. The API key has no default; Validate rejects a
// config without one.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    45 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		PublicBaseURL: "http://localhost:8080",
	}
}

// expandEnvVars resolves ${VAR} and ${VAR:-default} references in the raw
// YAML before decoding, so secrets stay out of config files.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if i := strings.Index(key, ":-"); i >= 0 {
			if val := os.Getenv(key[:i]); val != "" {
				return val
			}
			return key[i+2:]
		}
		return os.Getenv(key)
	})
}

// Load reads configuration YAML from r, layered over defaults, and applies
// environment overrides and validation.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(strings.NewReader(expandEnvVars(string(data))))
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadFile loads configuration from a YAML file at path. A missing file is
// not an error: defaults plus environment overrides are used instead, which
// is the common deployment mode.
func LoadFile(path string) (*Config, error) {
	// .env is optional and only consulted for local development
	_ = godotenv.Load()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("validate config: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// applyEnvOverrides lets the platform environment win over file values for
// the settings that hosting providers conventionally inject.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		c.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); v != "" {
		c.Gemini.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		origins := strings.Split(v, ",")
		c.CORS.AllowedOrigins = c.CORS.AllowedOrigins[:0]
		for _, o := range origins {
			if o = strings.TrimSpace(o); o != "" {
				c.CORS.AllowedOrigins = append(c.CORS.AllowedOrigins, o)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")); v != "" {
		c.PublicBaseURL = v
	}
}

var validate = validator.New()

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("cors: at least one allowed origin is required")
	}
	return nil
}
