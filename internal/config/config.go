// Package config provides preference management for the trigger agent.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"huangdou/internal/logging"
	"huangdou/internal/trigger"
)

const (
	appName        = "huangdou"
	configFileName = "config.json"

	// MinDelay and MaxDelay bound user-entered delay values, in seconds.
	MinDelay = 0.1
	MaxDelay = 10.0
)

// ErrInvalidDelay is returned for delay input that is not a number within
// [MinDelay, MaxDelay].
var ErrInvalidDelay = errors.New("delay must be a number between 0.1 and 10.0 seconds")

// Config represents the persisted preferences. Field names match the keys
// used by earlier releases so values can be imported verbatim.
type Config struct {
	// ShortcutTag selects the trigger key (1-4, see trigger.Key).
	ShortcutTag int `json:"shortcutTag"`

	// ColdStartDelay is the wait before Enter on the first recording, in seconds.
	ColdStartDelay float64 `json:"coldStartDelay"`

	// NormalDelay is the wait before Enter on later recordings, in seconds.
	NormalDelay float64 `json:"normalDelay"`

	// LongPressThreshold is the hold time that counts as a long press, in seconds.
	LongPressThreshold float64 `json:"longPressThreshold"`

	LogLevel  string `json:"logLevel,omitempty"`
	LogFormat string `json:"logFormat,omitempty"`
}

// DefaultConfig returns the built-in preferences.
func DefaultConfig() Config {
	return Config{
		ShortcutTag:        int(trigger.RightCommand),
		ColdStartDelay:     3.5,
		NormalDelay:        3.0,
		LongPressThreshold: 0.5,
		LogLevel:           "info",
		LogFormat:          "console",
	}
}

// TriggerKey returns the configured trigger key.
func (c Config) TriggerKey() trigger.Key {
	return trigger.Key(c.ShortcutTag)
}

// Settings converts the preferences to controller settings.
func (c Config) Settings() trigger.Settings {
	return trigger.Settings{
		Key:            c.TriggerKey(),
		ColdStartDelay: Seconds(c.ColdStartDelay),
		NormalDelay:    Seconds(c.NormalDelay),
		Threshold:      Seconds(c.LongPressThreshold),
	}
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if !c.TriggerKey().Valid() {
		c.ShortcutTag = def.ShortcutTag
	}
	if !validDelay(c.ColdStartDelay) {
		c.ColdStartDelay = def.ColdStartDelay
	}
	if !validDelay(c.NormalDelay) {
		c.NormalDelay = def.NormalDelay
	}
	if !validDelay(c.LongPressThreshold) {
		c.LongPressThreshold = def.LongPressThreshold
	}
	if lvl, err := logging.NormalizeLogLevel(c.LogLevel); err == nil {
		c.LogLevel = lvl
	} else {
		c.LogLevel = def.LogLevel
	}
	if f, err := logging.NormalizeFormat(c.LogFormat); err == nil {
		c.LogFormat = f
	} else {
		c.LogFormat = def.LogFormat
	}
}

// Seconds converts a preference value to a duration.
func Seconds(v float64) time.Duration {
	return time.Duration(math.Round(v * float64(time.Second)))
}

// ParseDelay validates user-entered delay text.
func ParseDelay(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !validDelay(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelay, s)
	}
	return v, nil
}

func validDelay(v float64) bool {
	return !math.IsNaN(v) && v >= MinDelay && v <= MaxDelay
}

// SameValue reports whether two delay values are equal for display
// purposes.
func SameValue(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// DelayPresets are the menu choices for the commit delays.
func DelayPresets() []float64 {
	presets := make([]float64, 0, 12)
	for v := 5; v <= 60; v += 5 {
		presets = append(presets, float64(v)/10)
	}
	return presets
}

// ThresholdPresets are the menu choices for the long-press threshold.
func ThresholdPresets() []float64 {
	return []float64{0.3, 0.5, 0.8, 1.0, 1.5, 2.0}
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     Config
	onChanged  func(Config)

	// legacy reads preferences stored by earlier releases.
	legacy func(key string) (string, error)
}

// NewManager creates a configuration manager for path. An empty path
// selects the per-user default location.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
		legacy:     readLegacyDefault,
	}, nil
}

// DefaultPath returns the per-user config file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}

	var configDir string
	switch runtime.GOOS {
	case "darwin":
		configDir = filepath.Join(home, "Library", "Application Support", appName)
	default:
		configDir = filepath.Join(home, ".config", appName)
	}
	return filepath.Join(configDir, configFileName), nil
}

// Path returns the config file path.
func (m *Manager) Path() string {
	return m.configPath
}

// Dir returns the directory holding the config file.
func (m *Manager) Dir() string {
	return filepath.Dir(m.configPath)
}

// Load reads the configuration from disk. A missing file leaves defaults
// in place, seeded from legacy preferences when any are found.
func (m *Manager) Load() error {
	m.mu.Lock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		imported, ok := importLegacy(m.legacy)
		if !ok {
			m.mu.Unlock()
			return nil
		}
		slog.Info("config: imported preferences from an earlier release")
		m.config = imported
		m.mu.Unlock()
		if err := m.Save(); err != nil {
			slog.Warn("config: failed to save imported preferences", "error", err)
		}
		return nil
	}
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()
	m.config = cfg
	fn := m.onChanged
	m.mu.Unlock()

	if fn != nil {
		fn(cfg)
	}
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	slog.Debug("config: saving configuration", "path", m.configPath, "bytes", len(data))
	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set replaces the configuration and notifies the change callback. It does
// not persist; call Save for that.
func (m *Manager) Set(cfg Config) {
	cfg.normalize()
	m.mu.Lock()
	m.config = cfg
	fn := m.onChanged
	m.mu.Unlock()

	if fn != nil {
		fn(cfg)
	}
}

// Update applies fn to a copy of the configuration, stores and saves the
// result, then notifies the change callback.
func (m *Manager) Update(fn func(*Config)) error {
	cfg := m.Get()
	fn(&cfg)
	m.Set(cfg)
	return m.Save()
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func(Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}

// SetValue assigns a preference by its JSON key from text, as typed on the
// command line.
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "shortcutTag":
		k, err := ParseTriggerKey(value)
		if err != nil {
			return err
		}
		c.ShortcutTag = int(k)
	case "coldStartDelay", "normalDelay", "longPressThreshold":
		v, err := ParseDelay(value)
		if err != nil {
			return err
		}
		switch key {
		case "coldStartDelay":
			c.ColdStartDelay = v
		case "normalDelay":
			c.NormalDelay = v
		default:
			c.LongPressThreshold = v
		}
	case "logLevel":
		lvl, err := logging.NormalizeLogLevel(value)
		if err != nil {
			return err
		}
		c.LogLevel = lvl
	case "logFormat":
		f, err := logging.NormalizeFormat(value)
		if err != nil {
			return err
		}
		c.LogFormat = f
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// ParseTriggerKey accepts a preference number (1-4) or a key name such as
// "right-command".
func ParseTriggerKey(s string) (trigger.Key, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(norm); err == nil {
		if k := trigger.Key(n); k.Valid() {
			return k, nil
		}
		return 0, fmt.Errorf("trigger key %d out of range 1-4", n)
	}

	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	switch norm {
	case "left-command", "left-cmd", "lcmd":
		return trigger.LeftCommand, nil
	case "right-command", "right-cmd", "rcmd":
		return trigger.RightCommand, nil
	case "left-option", "left-alt", "lalt":
		return trigger.LeftOption, nil
	case "right-option", "right-alt", "ralt":
		return trigger.RightOption, nil
	}
	return 0, fmt.Errorf("unknown trigger key %q", s)
}
