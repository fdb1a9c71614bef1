// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	RedisURL string `mapstructure:"REDIS_URL"`

	// AuthBaseURL is the external auth provider that owns signup, login and
	// sessions. Session cookies are validated against it per request.
	AuthBaseURL   string `mapstructure:"AUTH_BASE_URL"`
	AuthJWTSecret string `mapstructure:"AUTH_JWT_SECRET"`

	// Image hosting upload API (imgbb-compatible).
	ImageHostURL string `mapstructure:"IMAGE_HOST_URL"`
	ImageHostKey string `mapstructure:"IMAGE_HOST_KEY"`

	// Streaming image-captioning API (OpenAI-compatible chat completions).
	CaptionBaseURL string `mapstructure:"CAPTION_BASE_URL"`
	CaptionAPIKey  string `mapstructure:"CAPTION_API_KEY"`
	CaptionModel   string `mapstructure:"CAPTION_MODEL"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	TracingOTLPEndpoint string  `mapstructure:"TRACING_OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional; environment variables and defaults
	// are enough to boot a development instance.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("PORT", "3001")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "mapinned")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SQLITE_PATH", "mapinned.db")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("AUTH_BASE_URL", "http://localhost:3000")
	viper.SetDefault("AUTH_JWT_SECRET", "")
	viper.SetDefault("IMAGE_HOST_URL", "https://api.imgbb.com/1/upload")
	viper.SetDefault("IMAGE_HOST_KEY", "")
	viper.SetDefault("CAPTION_BASE_URL", "https://openrouter.ai/api/v1")
	viper.SetDefault("CAPTION_API_KEY", "")
	viper.SetDefault("CAPTION_MODEL", "google/gemma-3-27b-it:free")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.AuthBaseURL == "" {
		return errors.New("AUTH_BASE_URL is required")
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be 'postgres' or 'sqlite', got %q", c.DBDriver)
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	if isProduction {
		if c.DBDriver == "sqlite" {
			return errors.New("DB_DRIVER 'sqlite' is not supported in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.ImageHostKey == "" {
			return errors.New("IMAGE_HOST_KEY is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	}

	return nil
}
