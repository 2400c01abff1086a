package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName              string
	AppEnv               string
	AppPort              string
	DatabaseURL          string
	RedisURL             string
	NATSURL              string
	JWTSecret            string
	AdminEmails          []string
	DashboardCacheTTL    time.Duration
	GuidanceCooldown     time.Duration
	ReferralPostCooldown time.Duration
	ReferralApplyWindow  time.Duration
	PostCooldown         time.Duration
	BurstLimitMax        int
	BurstLimitWindow     time.Duration
	CORSOrigins          string
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
	v.SetEnvPrefix("CLUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ClubConnect API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("dashboard.cache_ttl", "1m")
	v.SetDefault("cooldown.guidance", "5m")
	v.SetDefault("cooldown.referral_post", "720h")
	v.SetDefault("cooldown.referral_apply", "720h")
	v.SetDefault("cooldown.post", "1m")
	v.SetDefault("burst.max", 60)
	v.SetDefault("burst.window", "1m")
	v.SetDefault("cors.origins", "*")

	durations := map[string]*time.Duration{}
	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppEnv:      v.GetString("app.env"),
		AppPort:     v.GetString("app.port"),
		DatabaseURL: v.GetString("database.url"),
		RedisURL:    v.GetString("redis.url"),
		NATSURL:     v.GetString("nats.url"),
		JWTSecret:   v.GetString("jwt.secret"),
		AdminEmails: splitEmails(v.GetString("admin.emails")),

		BurstLimitMax: v.GetInt("burst.max"),
		CORSOrigins:   v.GetString("cors.origins"),
	}
	durations["dashboard.cache_ttl"] = &cfg.DashboardCacheTTL
	durations["cooldown.guidance"] = &cfg.GuidanceCooldown
	durations["cooldown.referral_post"] = &cfg.ReferralPostCooldown
	durations["cooldown.referral_apply"] = &cfg.ReferralApplyWindow
	durations["cooldown.post"] = &cfg.PostCooldown
	durations["burst.window"] = &cfg.BurstLimitWindow

	for key, target := range durations {
		value := v.GetString(key)
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		*target = parsed
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func splitEmails(raw string) []string {
	parts := strings.Split(raw, ",")
	emails := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return emails
}
