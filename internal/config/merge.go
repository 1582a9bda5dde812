package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables the hosting environment may set to override bridge settings.
const (
	EnvEnabled        = "CURSORBRIDGE_ENABLED"
	EnvTriggerKeyword = "CURSORBRIDGE_TRIGGER_KEYWORD"
	EnvDir            = "CURSORBRIDGE_DIR"
)

// BridgeOverrides holds bridge settings supplied outside the config file.
// Zero values mean "not set".
type BridgeOverrides struct {
	Enabled        *bool
	TriggerKeyword string
	Dir            string
}

// OverridesFromEnv reads bridge overrides from the environment.
func OverridesFromEnv() (BridgeOverrides, error) {
	o := BridgeOverrides{
		TriggerKeyword: os.Getenv(EnvTriggerKeyword),
		Dir:            os.Getenv(EnvDir),
	}

	if v := os.Getenv(EnvEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return BridgeOverrides{}, fmt.Errorf("parsing %s: %w", EnvEnabled, err)
		}
		o.Enabled = &enabled
	}

	return o, nil
}

// Merge layers other on top of o. Values set in other win.
func (o BridgeOverrides) Merge(other BridgeOverrides) BridgeOverrides {
	merged := BridgeOverrides{
		Enabled:        o.Enabled,
		TriggerKeyword: coalesce(other.TriggerKeyword, o.TriggerKeyword),
		Dir:            coalesce(other.Dir, o.Dir),
	}
	if other.Enabled != nil {
		merged.Enabled = other.Enabled
	}
	return merged
}

// MergeBridge applies overrides to the file configuration.
// Override values take precedence over file values when set.
func MergeBridge(base BridgeConfig, o BridgeOverrides) BridgeConfig {
	merged := BridgeConfig{
		Enabled:        base.Enabled,
		TriggerKeyword: coalesce(o.TriggerKeyword, base.TriggerKeyword),
		Dir:            coalesce(o.Dir, base.Dir),
	}
	if o.Enabled != nil {
		merged.Enabled = *o.Enabled
	}
	return merged
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
