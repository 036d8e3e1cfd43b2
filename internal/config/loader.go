package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from multiple sources in priority
// order, the same four-step shape as the teacher's LoadConfig:
//  1. default values
//  2. configuration file (TOML), if path is non-empty and exists
//  3. GEO_-prefixed environment variables
//  4. full-struct validation
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("GEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.configPath = path

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadDefaultConfig loads configuration from defaults and environment
// alone, with no config file.
func LoadDefaultConfig() (*Config, error) {
	return LoadConfig("")
}

// ReloadConfig reloads configuration from the path an existing Config
// was loaded from.
func ReloadConfig(existing *Config) (*Config, error) {
	return LoadConfig(existing.GetConfigPath())
}
