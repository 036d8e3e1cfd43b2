package config

import (
	"errors"
	"fmt"
)

// Named validation errors, matching the teacher's sentinel-error
// discipline in its own config package rather than ad hoc strings.
var (
	ErrStoreDriverRequired   = errors.New("config: store.driver is required")
	ErrStoreDriverUnknown    = errors.New("config: store.driver must be \"postgres\" or \"sqlite\"")
	ErrStoreDSNRequired      = errors.New("config: store.dsn is required")
	ErrRoutingMaxHopsInvalid = errors.New("config: routing.max_hops must be positive")
	ErrRoutingMaxPathsInvalid = errors.New("config: routing.max_paths must be positive")
	ErrProtocolDeadlineOrder  = errors.New("config: protocol deadlines must satisfy prepare < commit <= overall")
	ErrClearingMaxLenOrder    = errors.New("config: clearing.trigger_cycles_max_len must be <= periodic_cycles_max_len")
	ErrEventBusAddressRequired = errors.New("config: eventbus.address is required")
)

// Validate performs whole-Config validation, delegating to each
// section the way the teacher's ValidateConfig delegates to
// validateServerConfig, NodeDB.Validate, and friends.
func Validate(cfg *Config) error {
	if err := validateStore(&cfg.Store); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := validateRouting(&cfg.Routing); err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	if err := validateProtocol(&cfg.Protocol); err != nil {
		return fmt.Errorf("protocol: %w", err)
	}
	if err := validateClearing(&cfg.Clearing); err != nil {
		return fmt.Errorf("clearing: %w", err)
	}
	if err := validateEventBus(&cfg.EventBus); err != nil {
		return fmt.Errorf("eventbus: %w", err)
	}
	return nil
}

func validateStore(c *StoreConfig) error {
	if c.Driver == "" {
		return ErrStoreDriverRequired
	}
	if c.Driver != "postgres" && c.Driver != "sqlite" {
		return ErrStoreDriverUnknown
	}
	if c.DSN == "" {
		return ErrStoreDSNRequired
	}
	return nil
}

func validateRouting(c *RoutingConfig) error {
	if c.MaxHops <= 0 {
		return ErrRoutingMaxHopsInvalid
	}
	if c.MaxPaths <= 0 {
		return ErrRoutingMaxPathsInvalid
	}
	return nil
}

func validateProtocol(c *ProtocolConfig) error {
	if c.PrepareDeadline <= 0 || c.CommitDeadline <= 0 || c.OverallDeadline <= 0 {
		return ErrProtocolDeadlineOrder
	}
	if c.PrepareDeadline >= c.CommitDeadline || c.CommitDeadline > c.OverallDeadline {
		return ErrProtocolDeadlineOrder
	}
	return nil
}

func validateClearing(c *ClearingConfig) error {
	if c.TriggerCyclesMaxLen <= 0 || c.PeriodicCyclesMaxLen <= 0 {
		return ErrClearingMaxLenOrder
	}
	if c.TriggerCyclesMaxLen > c.PeriodicCyclesMaxLen {
		return ErrClearingMaxLenOrder
	}
	return nil
}

func validateEventBus(c *EventBusConfig) error {
	if c.Address == "" {
		return ErrEventBusAddressRequired
	}
	return nil
}
