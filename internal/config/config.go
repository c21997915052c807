package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Policy sources.
const (
	SourceStorefront = "storefront"
	SourceDynamoDB   = "dynamodb"
)

// Config holds all configuration values.
type Config struct {
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	Port      string `mapstructure:"PORT"`
	RunLocal  bool   `mapstructure:"RUN_LOCAL"`
	SiteBrand string `mapstructure:"SITE_BRAND"`

	// PolicySource selects the backend: "storefront" or "dynamodb".
	PolicySource string `mapstructure:"POLICY_SOURCE"`

	// Storefront API.
	StorefrontDomain     string        `mapstructure:"STOREFRONT_DOMAIN"`
	StorefrontAPIVersion string        `mapstructure:"STOREFRONT_API_VERSION"`
	StorefrontToken      string        `mapstructure:"STOREFRONT_TOKEN"`
	StorefrontTimeout    time.Duration `mapstructure:"STOREFRONT_TIMEOUT"`

	// AWS resources.
	PoliciesTable      string `mapstructure:"POLICIES_TABLE"`
	ViewEventsQueueURL string `mapstructure:"VIEW_EVENTS_QUEUE_URL"`
	MetricsNamespace   string `mapstructure:"METRICS_NAMESPACE"`

	DefaultLanguage string `mapstructure:"DEFAULT_LANGUAGE"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`

	// LocalSQSBody is the message the worker processes when RUN_LOCAL is set.
	LocalSQSBody string `mapstructure:"LOCAL_SQS_BODY"`
}

var keys = []string{
	"ENV", "LOG_LEVEL", "PORT", "RUN_LOCAL", "SITE_BRAND", "POLICY_SOURCE",
	"STOREFRONT_DOMAIN", "STOREFRONT_API_VERSION", "STOREFRONT_TOKEN", "STOREFRONT_TIMEOUT",
	"POLICIES_TABLE", "VIEW_EVENTS_QUEUE_URL", "METRICS_NAMESPACE",
	"DEFAULT_LANGUAGE", "RATE_LIMIT_PER_MIN", "LOCAL_SQS_BODY",
}

// Load reads configuration from a .env file (if present), an optional
// config.yaml in the working directory or ./config, and the environment.
// Environment variables win.
func Load() (Config, error) {
	v, err := read()
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

// LoadWorker reads configuration like Load but skips the policy source
// checks; the view worker only needs logging and metrics settings.
func LoadWorker() (Config, error) {
	v, err := read()
	if err != nil {
		return Config{}, err
	}
	return decode(v)
}

func read() (*viper.Viper, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

// FromViper applies defaults and environment bindings to v, decodes it and
// validates the policy source.
func FromViper(v *viper.Viper) (Config, error) {
	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()
	for _, k := range keys {
		// AutomaticEnv alone does not feed Unmarshal
		_ = v.BindEnv(k)
	}

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.SetDefault("RUN_LOCAL", false)
	v.SetDefault("SITE_BRAND", "Hydrogen")
	v.SetDefault("POLICY_SOURCE", SourceStorefront)
	v.SetDefault("STOREFRONT_API_VERSION", "2023-10")
	v.SetDefault("STOREFRONT_TIMEOUT", 10*time.Second)
	v.SetDefault("POLICIES_TABLE", "policies")
	v.SetDefault("METRICS_NAMESPACE", "StorefrontPolicies")
	v.SetDefault("RATE_LIMIT_PER_MIN", 120)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.PolicySource = strings.ToLower(cfg.PolicySource)
	cfg.DefaultLanguage = strings.ToUpper(cfg.DefaultLanguage)
	return cfg, nil
}

// Validate checks that the selected policy source is fully configured.
func (c Config) Validate() error {
	switch c.PolicySource {
	case SourceStorefront:
		if c.StorefrontDomain == "" {
			return errors.New("STOREFRONT_DOMAIN is required when POLICY_SOURCE=storefront")
		}
	case SourceDynamoDB:
		if c.PoliciesTable == "" {
			return errors.New("POLICIES_TABLE is required when POLICY_SOURCE=dynamodb")
		}
	default:
		return fmt.Errorf("unknown POLICY_SOURCE %q", c.PolicySource)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
