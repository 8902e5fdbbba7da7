// Package config loads service configuration from .env, the environment and
// an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix = "RENTAL"

	// DefaultConfigFile is read from the working directory when present
	DefaultConfigFile = "rental-booking.yaml"

	// DefaultWhatsAppPhone is the agency number the hand-off link opens
	DefaultWhatsAppPhone = "972584140489"
)

// Config holds all application configuration values
type Config struct {
	Env      string `mapstructure:"env" yaml:"env"`
	Port     int    `mapstructure:"port" yaml:"port"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	CRMBaseURL string        `mapstructure:"crm_base_url" yaml:"crm_base_url"`
	CRMTimeout time.Duration `mapstructure:"crm_timeout" yaml:"crm_timeout"`

	WhatsAppPhone string `mapstructure:"whatsapp_phone" yaml:"whatsapp_phone"`

	// CatalogDir overrides the embedded reference data when set
	CatalogDir string        `mapstructure:"catalog_dir" yaml:"catalog_dir"`
	SessionTTL time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`

	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	MetricsUsername string `mapstructure:"metrics_username" yaml:"metrics_username"`
	MetricsPassword string `mapstructure:"metrics_password" yaml:"metrics_password"`
}

// envNames lists extra unprefixed variables accepted for a key
var envNames = map[string][]string{
	"env":              nil,
	"port":             {"PORT"},
	"log_level":        nil,
	"crm_base_url":     {"CRM_BASE_URL"},
	"crm_timeout":      nil,
	"whatsapp_phone":   {"WHATSAPP_PHONE"},
	"catalog_dir":      nil,
	"session_ttl":      {"SESSION_TTL"},
	"allowed_origins":  nil,
	"metrics_username": nil,
	"metrics_password": nil,
}

// LoadConfig reads .env, then resolves every key with the precedence
// RENTAL_ env var > unprefixed env var > config file > default. An empty
// path means DefaultConfigFile if it exists.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("env", "development")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("crm_base_url", "")
	v.SetDefault("crm_timeout", 30*time.Second)
	v.SetDefault("whatsapp_phone", DefaultWhatsAppPhone)
	v.SetDefault("catalog_dir", "")
	v.SetDefault("session_ttl", 2*time.Hour)
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("metrics_username", "")
	v.SetDefault("metrics_password", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, extra := range envNames {
		names := append([]string{envPrefix + "_" + strings.ToUpper(key)}, extra...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("error binding %s env: %w", key, err)
		}
	}

	if path == "" && fileExists(DefaultConfigFile) {
		path = DefaultConfigFile
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects values the service cannot start with
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	if c.CRMBaseURL != "" {
		u, err := url.Parse(c.CRMBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("crm_base_url must be an absolute URL, got %q", c.CRMBaseURL))
		}
	}
	if c.CRMTimeout < 0 {
		errs = append(errs, fmt.Errorf("crm_timeout must not be negative"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session_ttl must be positive"))
	}
	if strings.TrimSpace(c.WhatsAppPhone) == "" {
		errs = append(errs, fmt.Errorf("whatsapp_phone is required"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
