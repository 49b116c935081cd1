package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"buddhaday-notify/internal/apperror"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ServerHost string
	ServerPort uint16

	// Calendar feed base URL; the year is appended as "?{year}.csv".
	BuddhaEndpoint string

	DiscordWebhookURL string
	DiscordUsername   string

	// Shared secret expected in the "key" query parameter.
	APIKey string

	Location *time.Location
	LogLevel slog.Level
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("[config] loaded .env file")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup to resolve variables.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}
	require := func(key string) (string, error) {
		if v, ok := lookup(key); ok && v != "" {
			return v, nil
		}
		return "", apperror.New(apperror.KindConfig, key+" environment variable is required")
	}

	cfg := &Config{
		ServerHost:      get("SERVER_HOST", "127.0.0.1"),
		DiscordUsername: get("DISCORD_USERNAME", "Notify"),
	}

	port, err := strconv.ParseUint(get("SERVER_PORT", "9001"), 10, 16)
	if err != nil {
		return nil, apperror.New(apperror.KindConfig, "Invalid SERVER_PORT")
	}
	cfg.ServerPort = uint16(port)

	if cfg.BuddhaEndpoint, err = require("BUDDHA_ENDPOINT"); err != nil {
		return nil, err
	}
	if cfg.DiscordWebhookURL, err = require("DISCORD_WEBHOOK_URL"); err != nil {
		return nil, err
	}
	if cfg.APIKey, err = require("API_KEY"); err != nil {
		return nil, err
	}

	cfg.Location = time.Local
	if tz := get("TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindConfig, err, "Invalid TIMEZONE")
		}
		cfg.Location = loc
	}

	if cfg.LogLevel, err = parseLevel(get("LOG_LEVEL", "info")); err != nil {
		return nil, apperror.Wrap(apperror.KindConfig, err, "Invalid LOG_LEVEL")
	}

	return cfg, nil
}

// ServerAddr returns the listen address, e.g. "127.0.0.1:9001".
func (c *Config) ServerAddr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(int(c.ServerPort)))
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unknown level %q", s)
	}
	return lvl, nil
}
