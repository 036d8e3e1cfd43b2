// Package config loads geod's configuration the way the teacher's own
// config package does: grouped sub-structs, viper-backed layering of
// defaults, file, and environment, and a per-section Validate.
package config

import "time"

// Config is geod's complete runtime configuration.
type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Protocol  ProtocolConfig  `mapstructure:"protocol"`
	Clearing  ClearingConfig  `mapstructure:"clearing"`
	Recovery  RecoveryConfig  `mapstructure:"recovery"`
	Features  FeatureFlags    `mapstructure:"features"`
	EventBus  EventBusConfig  `mapstructure:"eventbus"`
	Log       LogConfig       `mapstructure:"log"`

	configPath string
}

// GetConfigPath returns the file path the config was loaded from, for
// ReloadConfig.
func (c *Config) GetConfigPath() string { return c.configPath }

// StoreConfig selects and configures the L1 store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "sqlite"
	DSN    string `mapstructure:"dsn"`
}

// RoutingConfig tunes the L4 router's multipath search and graph cache.
type RoutingConfig struct {
	MaxHops          int           `mapstructure:"max_hops"`
	MaxPaths          int           `mapstructure:"max_paths"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	BenchmarkMaxFlow  bool          `mapstructure:"benchmark_max_flow"`
}

// ProtocolConfig tunes the L5 payment engine's phase deadlines.
type ProtocolConfig struct {
	PrepareDeadline time.Duration `mapstructure:"prepare_deadline"`
	CommitDeadline  time.Duration `mapstructure:"commit_deadline"`
	OverallDeadline time.Duration `mapstructure:"overall_deadline"`
	PrepareLockTTL  time.Duration `mapstructure:"prepare_lock_ttl"`
}

// ClearingConfig tunes the L6 clearing engine's search depth and
// throughput limits.
type ClearingConfig struct {
	TriggerCyclesMaxLen      int           `mapstructure:"trigger_cycles_max_len"`
	PeriodicCyclesMaxLen     int           `mapstructure:"periodic_cycles_max_len"`
	MaxCyclesPerRun          int           `mapstructure:"max_cycles_per_run"`
	OnDemandConsecutiveBreak int           `mapstructure:"on_demand_consecutive_break"`
	PeriodicInterval         time.Duration `mapstructure:"periodic_interval"`
}

// RecoveryConfig tunes the orphan-reaping sweep loop.
type RecoveryConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	OrphanAfter time.Duration `mapstructure:"orphan_after"`
	SweepLimit  int           `mapstructure:"sweep_limit"`
	Checkpoint  string        `mapstructure:"checkpoint_dir"`
}

// FeatureFlags gates experimental or opt-in behavior.
type FeatureFlags struct {
	GlobalMaxFlowBenchmark bool `mapstructure:"global_max_flow_benchmark"`
}

// EventBusConfig configures the gRPC event-streaming server.
type EventBusConfig struct {
	Address        string `mapstructure:"address"`
	MaxRecvMsgSize int    `mapstructure:"max_recv_msg_size"`
	MaxSendMsgSize int    `mapstructure:"max_send_msg_size"`
}

// LogConfig configures internal/obs.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
