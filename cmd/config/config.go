// Package config loads application settings from an optional YAML file,
// environment variables, and built-in defaults, in that order of priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the watchlist application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string
}

// SessionConfig holds signed-cookie session settings.
type SessionConfig struct {
	Secret     string
	CookieName string
	TTLHours   int
}

// TTL returns the session token lifetime as a duration.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// Load reads configuration. When path is non-empty it must name a YAML
// file; otherwise config.yaml is searched for in the working directory and
// cmd/config/. Environment variables prefixed WATCHLIST_ override file
// values (e.g. WATCHLIST_SESSION_SECRET).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.path", "data.db")
	v.SetDefault("session.secret", "dev")
	v.SetDefault("session.cookie_name", "watchlist_session")
	v.SetDefault("session.ttl_hours", 72)

	v.SetEnvPrefix("watchlist")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("cmd/config/")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Session: SessionConfig{
			Secret:     v.GetString("session.secret"),
			CookieName: v.GetString("session.cookie_name"),
			TTLHours:   v.GetInt("session.ttl_hours"),
		},
	}, nil
}
