package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geohub/geod/internal/config"
)

func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := config.LoadDefaultConfig()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Store.Driver)
	require.Equal(t, 6, cfg.Routing.MaxHops)
	require.Equal(t, "127.0.0.1:50061", cfg.EventBus.Address)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geod.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[store]
driver = "postgres"
dsn = "postgres://localhost/geo"

[routing]
max_hops = 8
`), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Store.Driver)
	require.Equal(t, "postgres://localhost/geo", cfg.Store.DSN)
	require.Equal(t, 8, cfg.Routing.MaxHops)
	// untouched sections keep their defaults
	require.Equal(t, 3, cfg.Routing.MaxPaths)
}

func TestValidateRejectsUnknownStoreDriver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geod.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[store]
driver = "mysql"
dsn = "whatever"
`), 0o644))

	_, err := config.LoadConfig(path)
	require.ErrorIs(t, err, config.ErrStoreDriverUnknown)
}

func TestValidateRejectsBadDeadlineOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geod.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[protocol]
prepare_deadline = "10s"
commit_deadline = "5s"
overall_deadline = "10s"
`), 0o644))

	_, err := config.LoadConfig(path)
	require.ErrorIs(t, err, config.ErrProtocolDeadlineOrder)
}
