package config

import "github.com/spf13/viper"

// setDefaults seeds v with every documented default before a config
// file or environment variables are layered on top, mirroring the
// teacher's setDefaults(v) step in LoadConfig.
func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "geod.sqlite")

	v.SetDefault("routing.max_hops", 6)
	v.SetDefault("routing.max_paths", 3)
	v.SetDefault("routing.cache_ttl", "30s")
	v.SetDefault("routing.benchmark_max_flow", false)

	v.SetDefault("protocol.prepare_deadline", "3s")
	v.SetDefault("protocol.commit_deadline", "5s")
	v.SetDefault("protocol.overall_deadline", "10s")
	v.SetDefault("protocol.prepare_lock_ttl", "60s")

	v.SetDefault("clearing.trigger_cycles_max_len", 4)
	v.SetDefault("clearing.periodic_cycles_max_len", 6)
	v.SetDefault("clearing.max_cycles_per_run", 100)
	v.SetDefault("clearing.on_demand_consecutive_break", 10)
	v.SetDefault("clearing.periodic_interval", "60m")

	v.SetDefault("recovery.interval", "5s")
	v.SetDefault("recovery.orphan_after", "30s")
	v.SetDefault("recovery.sweep_limit", 500)
	v.SetDefault("recovery.checkpoint_dir", "")

	v.SetDefault("features.global_max_flow_benchmark", false)

	v.SetDefault("eventbus.address", "127.0.0.1:50061")
	v.SetDefault("eventbus.max_recv_msg_size", 4*1024*1024)
	v.SetDefault("eventbus.max_send_msg_size", 4*1024*1024)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
