package config

import (
	"errors"
	"log/slog"
)

// legacyDomain is the user-defaults domain of the original menu-bar app.
const legacyDomain = "com.huangdou.inputmethod"

var legacyKeys = []string{"shortcutTag", "coldStartDelay", "normalDelay", "longPressThreshold"}

var errNoLegacyStore = errors.New("no legacy preference store on this platform")

// importLegacy builds a config from legacy preferences. ok is false when no
// usable value was found.
func importLegacy(read func(key string) (string, error)) (cfg Config, ok bool) {
	cfg = DefaultConfig()
	if read == nil {
		return cfg, false
	}
	for _, key := range legacyKeys {
		raw, err := read(key)
		if err != nil {
			continue
		}
		if err := cfg.SetValue(key, raw); err != nil {
			slog.Warn("config: ignoring legacy preference", "key", key, "value", raw, "error", err)
			continue
		}
		ok = true
	}
	return cfg, ok
}
