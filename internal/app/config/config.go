package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	SQLitePath      string
	CORSAllowOrigin string
	AdminToken      string
	HomeStateCode   string
	LogLevel        slog.Level
}

// UsePostgres reports whether DATABASE_URL selects the postgres store.
func (c Config) UsePostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// Load reads the environment after applying envFiles, or .env when none are
// given. A missing .env is not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading env file: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "quotation.db")
	v.SetDefault("CORS_ALLOW_ORIGIN", "*")
	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("HOME_STATE_CODE", "34")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		SQLitePath:      v.GetString("SQLITE_PATH"),
		CORSAllowOrigin: v.GetString("CORS_ALLOW_ORIGIN"),
		AdminToken:      v.GetString("ADMIN_TOKEN"),
		HomeStateCode:   strings.TrimSpace(v.GetString("HOME_STATE_CODE")),
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.DatabaseURL != "" && !cfg.UsePostgres() {
		return Config{}, fmt.Errorf("DATABASE_URL must be a postgres:// URL")
	}
	if len(cfg.HomeStateCode) != 2 {
		return Config{}, fmt.Errorf("HOME_STATE_CODE must be a two digit GST state code, got %q", cfg.HomeStateCode)
	}
	return cfg, nil
}

func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
