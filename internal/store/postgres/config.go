package postgres

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds Postgres connection and pool settings. It mirrors the
// fields a relational-store config carries generically (connection
// identity, pool sizing, timeouts) trimmed to what GEO's store needs.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	DefaultTimeout time.Duration
}

// DefaultConfig returns a Config with the same defaults a production
// relational store config ships: a conservative pool, prefer-mode TLS,
// generous timeouts.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            5432,
		Database:        "geo",
		SSLMode:         "prefer",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
		DefaultTimeout:  30 * time.Second,
	}
}

// ParseDSN parses a postgres:// connection string (as produced by
// ConnectionString, or supplied directly in config) into a Config,
// layering it over DefaultConfig's pool settings.
func ParseDSN(dsn string) (Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Config{}, fmt.Errorf("postgres: parse dsn: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Host = u.Hostname()
	if p := u.Port(); p != "" {
		fmt.Sscanf(p, "%d", &cfg.Port)
	}
	cfg.Database = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	if mode := u.Query().Get("sslmode"); mode != "" {
		cfg.SSLMode = mode
	}
	return cfg, nil
}

// ConnectionString builds a postgres:// DSN from the config.
func (c Config) ConnectionString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}

	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	q.Set("application_name", "geod")
	u.RawQuery = q.Encode()

	return u.String()
}
