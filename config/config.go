package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	MongoURI string
	DBName   string

	FrontendURLs []string

	JWTSecret string
	JWTExpire time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	GoogleClientID string

	AuthRateLimit       int
	TrustedProxies      []string
	StrictRatingUpdates bool
}

// Load reads .env when present and then the process environment, which wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:                v.GetString("PORT"),
		Environment:         v.GetString("ENVIRONMENT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		MongoURI:            v.GetString("MONGO_URI"),
		DBName:              v.GetString("DB_NAME"),
		FrontendURLs:        splitList(v.GetString("FRONTEND_URL")),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTExpire:           v.GetDuration("JWT_EXPIRE"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		CacheTTL:            v.GetDuration("CACHE_TTL"),
		GoogleClientID:      v.GetString("GOOGLE_CLIENT_ID"),
		AuthRateLimit:       v.GetInt("AUTH_RATE_LIMIT"),
		TrustedProxies:      splitList(v.GetString("TRUSTED_PROXIES")),
		StrictRatingUpdates: v.GetBool("STRICT_RATING_UPDATES"),
	}

	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("MONGO_URI not set in environment")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET not set in environment")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_NAME", "urban_nest")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("JWT_EXPIRE", "720h")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("STRICT_RATING_UPDATES", false)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
