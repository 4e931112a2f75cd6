package config

import "fmt"

// MigrateConfig upgrades a configuration from an older schema version to
// the current one, in place.
func MigrateConfig(cfg *Config) error {
	for cfg.Version < Version {
		switch cfg.Version {
		case 0:
			// Pre-versioned files are treated as version 1.
			cfg.Version = 1
		case 1:
			migrateV1ToV2(cfg)
			cfg.Version = 2
		default:
			return fmt.Errorf("unknown config version %d", cfg.Version)
		}
	}
	return nil
}

// migrateV1ToV2 migrates from version 1 to version 2.
// V1 had a single "hotkey.key" field and always used keyboard hold;
// V2 added the mode selector and the double-tap and pointer strategies.
func migrateV1ToV2(cfg *Config) {
	if cfg.Hotkey.Mode == "" {
		cfg.Hotkey.Mode = ModeKeyboardHold
	}
	if cfg.Hotkey.TapWindowMs == 0 {
		cfg.Hotkey.TapWindowMs = 400
	}
	if cfg.Hotkey.ScrollAxis == "" {
		cfg.Hotkey.ScrollAxis = "vertical"
	}
	if cfg.Hotkey.IdleTimeoutMs == 0 {
		cfg.Hotkey.IdleTimeoutMs = 1000
	}
	if cfg.Hotkey.TickIntervalMs == 0 {
		cfg.Hotkey.TickIntervalMs = 250
	}
}
