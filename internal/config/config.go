package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Auth          AuthConfig          `mapstructure:"auth"`
	CORS          CORSConfig          `mapstructure:"cors"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	DeliveryLimit DeliveryLimitConfig `mapstructure:"delivery_limit"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Supabase      SupabaseConfig      `mapstructure:"supabase"`
	Queue         QueueConfig         `mapstructure:"queue"`
	Delivery      DeliveryConfig      `mapstructure:"delivery"`
	Reaper        ReaperConfigYAML    `mapstructure:"reaper"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// AuthConfig holds JWT authentication settings.
type AuthConfig struct {
	JWTSecret      string `mapstructure:"jwt_secret"`
	TokenTTLMinute int    `mapstructure:"token_ttl_minutes"`
}

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// RateLimitConfig holds per-IP request rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// DeliveryLimitConfig holds per-user delivery quota settings.
// The quota counts confirmed deliveries, not submissions.
type DeliveryLimitConfig struct {
	MaxPerWindow int `mapstructure:"max_per_window"`
	WindowHours  int `mapstructure:"window_hours"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SupabaseConfig holds Supabase project settings.
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// QueueConfig holds async queue settings. MaxRetry defaults to 0:
// a failed delivery is terminal and must be resubmitted as a new notification.
type QueueConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxRetry    int `mapstructure:"max_retry"`
}

// DeliveryConfig holds channel deliverer stub settings.
type DeliveryConfig struct {
	EmailFail bool `mapstructure:"email_fail"`
	SMSFail   bool `mapstructure:"sms_fail"`
}

// ReaperConfigYAML holds stale record reaper settings (durations as seconds for YAML/env compat).
type ReaperConfigYAML struct {
	IntervalSec       int `mapstructure:"interval_sec"`
	StaleThresholdSec int `mapstructure:"stale_threshold_sec"`
	BatchSize         int `mapstructure:"batch_size"`
}

// Load reads configuration from config.yaml and environment variables.
// Environment variables use the NOTIQ_ prefix and underscore separators.
// Example: NOTIQ_SERVER_PORT overrides server.port in config.yaml.
func Load() (*Config, error) {
	v := viper.New()

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Load .env file if it exists
	_ = godotenv.Load()

	// Environment variable settings
	v.SetEnvPrefix("NOTIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("auth.token_ttl_minutes", 30)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("delivery_limit.max_per_window", 1)
	v.SetDefault("delivery_limit.window_hours", 24)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.max_retry", 0)
	v.SetDefault("delivery.email_fail", false)
	v.SetDefault("delivery.sms_fail", false)
	v.SetDefault("reaper.interval_sec", 300)        // 5 minutes
	v.SetDefault("reaper.stale_threshold_sec", 600) // 10 minutes
	v.SetDefault("reaper.batch_size", 50)

	// Read config file (optional — env vars can provide everything)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
