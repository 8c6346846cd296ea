package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the attendance service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	SecretKey         string
	PublicBaseURL     string
	CheckinCeiling    time.Duration
	DashboardCacheTTL time.Duration
	QRSize            int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PRESENTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Presente API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("public.base_url", "http://localhost:8080")
	v.SetDefault("checkin.ceiling", "300s")
	v.SetDefault("dashboard.cache_ttl", "1m")
	v.SetDefault("qr.size", 512)

	ceiling, err := time.ParseDuration(v.GetString("checkin.ceiling"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid checkin ceiling: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		SecretKey:         v.GetString("secret_key"),
		PublicBaseURL:     strings.TrimRight(v.GetString("public.base_url"), "/"),
		CheckinCeiling:    ceiling,
		DashboardCacheTTL: ttl,
		QRSize:            v.GetInt("qr.size"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	// The secret keys every token the service signs; rotating it
	// invalidates all outstanding tokens, including public links.
	if len(cfg.SecretKey) < 32 {
		return Config{}, fmt.Errorf("secret key must be at least 32 bytes")
	}

	if cfg.CheckinCeiling <= 0 {
		cfg.CheckinCeiling = 300 * time.Second
	}

	if cfg.QRSize <= 0 {
		cfg.QRSize = 512
	}

	return cfg, nil
}
