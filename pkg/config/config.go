package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	ServiceName string `mapstructure:"SERVICE_NAME"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// AI Integration
	GeminiAPIKey            string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel             string        `mapstructure:"GEMINI_MODEL"`
	AITimeout               time.Duration `mapstructure:"AI_TIMEOUT"`
	AIRateLimit             int           `mapstructure:"AI_RATE_LIMIT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`

	// Sessions
	RedisURL             string        `mapstructure:"REDIS_URL"`
	SessionCapacity      int           `mapstructure:"SESSION_CAPACITY"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	SessionSweepSchedule string        `mapstructure:"SESSION_SWEEP_SCHEDULE"`

	// Player data
	RosterSeed     int64  `mapstructure:"ROSTER_SEED"`
	PlayerDataFile string `mapstructure:"PLAYER_DATA_FILE"`
}

// LoadConfig reads an optional .env file into the process environment and
// then resolves every setting through viper.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("SERVICE_NAME", "fusion-ai")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("AI_TIMEOUT", "30s")
	v.SetDefault("AI_RATE_LIMIT", 60) // requests per minute
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 3)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SESSION_CAPACITY", 1000)
	v.SetDefault("SESSION_TTL", "1h")
	v.SetDefault("SESSION_SWEEP_SCHEDULE", "@every 1m")
	v.SetDefault("ROSTER_SEED", 42)
	v.SetDefault("PLAYER_DATA_FILE", "") // empty means seeded mock profiles

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if corsStr := v.GetString("CORS_ORIGINS"); corsStr != "" {
		origins := strings.Split(corsStr, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		config.CorsOrigins = origins
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got %s", c.AITimeout)
	}
	if c.AIRateLimit <= 0 {
		return fmt.Errorf("AI_RATE_LIMIT must be positive, got %d", c.AIRateLimit)
	}
	if c.SessionCapacity <= 0 {
		return fmt.Errorf("SESSION_CAPACITY must be positive, got %d", c.SessionCapacity)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GeminiConfigured reports whether an AI credential was supplied.
func (c *Config) GeminiConfigured() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}
