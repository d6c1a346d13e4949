package config

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"renderdiff/internal/log"
)

type Config struct {
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	MetricsAddr string `mapstructure:"METRICS_ADDR"`
	IsDev       string `mapstructure:"IS_DEV"`

	// ChromePath overrides browser discovery; empty means search the PATH.
	ChromePath string `mapstructure:"CHROME_PATH"`

	// CacheTTLMinutes bounds how long an analysis report is served from the
	// in-memory cache before the page is captured again.
	CacheTTLMinutes int `mapstructure:"CACHE_TTL_MINUTES"`

	// Basic auth is enabled only when both values are set; the analyzer
	// itself needs no third-party credentials.
	BasicAuthUser string `mapstructure:"BASIC_AUTH_USER"`
	BasicAuthPass string `mapstructure:"BASIC_AUTH_PASS"`

	// Per-client throttle. Every analysis costs a raw fetch plus a full
	// browser render.
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

var AppConfig *Config

func LoadEnv() {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Logger.Info(".env file not found, using environment only")
	}

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", ":8081")
	v.SetDefault("IS_DEV", "false")
	v.SetDefault("CHROME_PATH", "")
	v.SetDefault("CACHE_TTL_MINUTES", 15)
	v.SetDefault("BASIC_AUTH_USER", "")
	v.SetDefault("BASIC_AUTH_PASS", "")
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 3)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Logger.Fatal("Failed to unmarshal config", zap.Error(err))
	}

	AppConfig = &cfg
}
