package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr               string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RecommendationTTL  time.Duration
	MonitorInterval    time.Duration
	MonitorEnabled     bool
	LogLevel           string
	JWTSecret          string
	JWTTTL             time.Duration
	AdminUsername      string
	AdminPassword      string
	SeedOnStart        bool
	AllowResetProducts bool
	CORSAllowOrigins   string
	ShutdownTimeout    time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RECOMMENDATION_TTL", "30m")
	v.SetDefault("MONITOR_INTERVAL", "1h")
	v.SetDefault("MONITOR_ENABLED", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "72h")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("ALLOW_RESET_PRODUCTS", false)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
}

// Load reads configuration from environment variables. When CONFIG_FILE points
// at a yaml file its values sit between the defaults and the environment.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config failed: %w", err)
		}
	}

	cfg := Config{
		Addr:               v.GetString("HTTP_ADDR"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		RecommendationTTL:  v.GetDuration("RECOMMENDATION_TTL"),
		MonitorInterval:    v.GetDuration("MONITOR_INTERVAL"),
		MonitorEnabled:     v.GetBool("MONITOR_ENABLED"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTTTL:             v.GetDuration("JWT_TTL"),
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		SeedOnStart:        v.GetBool("SEED_ON_START"),
		AllowResetProducts: v.GetBool("ALLOW_RESET_PRODUCTS"),
		CORSAllowOrigins:   v.GetString("CORS_ALLOW_ORIGINS"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if c.RecommendationTTL <= 0 {
		return errors.New("RECOMMENDATION_TTL must be positive")
	}
	if c.MonitorInterval <= 0 {
		return errors.New("MONITOR_INTERVAL must be positive")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
