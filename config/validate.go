package config

import "fmt"

// validate enforces the numeric invariants spec.md §7 requires ("negative
// or zero numeric parameter" is a configuration error).
func validate(cfg *Configuration) error {
	if cfg.AggregationTime <= 0 {
		return fmt.Errorf("aggregation_time must be positive, got %d", cfg.AggregationTime)
	}
	if cfg.IPv4Aggregation <= 0 || cfg.IPv4Aggregation > 32 {
		return fmt.Errorf("ipv4_aggregation must be in 1..32, got %d", cfg.IPv4Aggregation)
	}
	if cfg.IPv6Aggregation <= 0 || cfg.IPv6Aggregation > 128 {
		return fmt.Errorf("ipv6_aggregation must be in 1..128, got %d", cfg.IPv6Aggregation)
	}
	if cfg.ParamWTrain <= 0 {
		return fmt.Errorf("param_w_train must be positive, got %d", cfg.ParamWTrain)
	}
	if cfg.ParamSteady <= 0 {
		return fmt.Errorf("param_steady must be positive, got %d", cfg.ParamSteady)
	}
	if cfg.ParamHeavy <= 0 {
		return fmt.Errorf("param_heavy must be positive, got %d", cfg.ParamHeavy)
	}
	if len(cfg.ProtectedPrefixes) == 0 {
		return fmt.Errorf("destination_addresses must not be empty")
	}
	return nil
}
