package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"huangdou/internal/trigger"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "prefs", "config.json"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.legacy = nil
	return m
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	m := newTestManager(t)

	if err := m.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	cfg := m.Get()
	if cfg != DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
	if _, err := os.Stat(m.Path()); !os.IsNotExist(err) {
		t.Errorf("Expected no config file to be written, stat err=%v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	m := newTestManager(t)
	err := m.Update(func(c *Config) {
		c.ShortcutTag = int(trigger.LeftOption)
		c.ColdStartDelay = 4.5
		c.NormalDelay = 2.0
		c.LongPressThreshold = 0.8
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	other, err := NewManager(m.Path())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	other.legacy = nil
	if err := other.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := other.Get(); got != m.Get() {
		t.Errorf("Expected %+v, got %+v", m.Get(), got)
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	m := newTestManager(t)
	if err := os.MkdirAll(m.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	data := `{"shortcutTag": 7, "coldStartDelay": 42, "normalDelay": 0, "longPressThreshold": 1.5, "logLevel": "verbose", "logFormat": "xml"}`
	if err := os.WriteFile(m.Path(), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := m.Get()
	def := DefaultConfig()
	if cfg.ShortcutTag != def.ShortcutTag {
		t.Errorf("Expected default shortcut tag, got %d", cfg.ShortcutTag)
	}
	if cfg.ColdStartDelay != def.ColdStartDelay || cfg.NormalDelay != def.NormalDelay {
		t.Errorf("Expected default delays, got %v / %v", cfg.ColdStartDelay, cfg.NormalDelay)
	}
	if cfg.LongPressThreshold != 1.5 {
		t.Errorf("Expected threshold 1.5, got %v", cfg.LongPressThreshold)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("Expected info/console, got %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadCanonicalizesLogSettings(t *testing.T) {
	m := newTestManager(t)
	if err := os.MkdirAll(m.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.Path(), []byte(`{"logLevel": " WARNING ", "logFormat": "Text"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg := m.Get(); cfg.LogLevel != "warn" || cfg.LogFormat != "console" {
		t.Errorf("Expected warn/console, got %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	m := newTestManager(t)
	if err := os.MkdirAll(m.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Load(); err == nil {
		t.Error("Expected error for malformed config")
	}
	if m.Get() != DefaultConfig() {
		t.Error("Expected defaults to remain after failed load")
	}
}

func TestChangeCallback(t *testing.T) {
	m := newTestManager(t)
	var got []Config
	m.RegisterChangeCallback(func(c Config) { got = append(got, c) })

	if err := m.Update(func(c *Config) { c.NormalDelay = 1.0 }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(got) != 1 || got[0].NormalDelay != 1.0 {
		t.Errorf("Expected one callback with normal delay 1.0, got %+v", got)
	}
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"3.5", 3.5, false},
		{" 0.1 ", 0.1, false},
		{"10", 10, false},
		{"0.05", 0, true},
		{"10.5", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDelay(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidDelay) {
				t.Errorf("ParseDelay(%q): Expected ErrInvalidDelay, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDelay(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestSettings(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.Settings()

	if s.Key != trigger.RightCommand {
		t.Errorf("Expected right command, got %v", s.Key)
	}
	if s.ColdStartDelay != 3500*time.Millisecond {
		t.Errorf("Expected 3.5s, got %v", s.ColdStartDelay)
	}
	if s.NormalDelay != 3*time.Second {
		t.Errorf("Expected 3s, got %v", s.NormalDelay)
	}
	if s.Threshold != 500*time.Millisecond {
		t.Errorf("Expected 500ms, got %v", s.Threshold)
	}
	if s != trigger.DefaultSettings() {
		t.Errorf("Expected config defaults to match controller defaults, got %+v", s)
	}
}

func TestSetValue(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.SetValue("shortcutTag", "left-option"); err != nil || cfg.TriggerKey() != trigger.LeftOption {
		t.Errorf("Expected left option, got %v (err=%v)", cfg.TriggerKey(), err)
	}
	if err := cfg.SetValue("shortcutTag", "1"); err != nil || cfg.TriggerKey() != trigger.LeftCommand {
		t.Errorf("Expected left command, got %v (err=%v)", cfg.TriggerKey(), err)
	}
	if err := cfg.SetValue("shortcutTag", "5"); err == nil {
		t.Error("Expected error for out of range tag")
	}
	if err := cfg.SetValue("normalDelay", "2.5"); err != nil || cfg.NormalDelay != 2.5 {
		t.Errorf("Expected normal delay 2.5, got %v (err=%v)", cfg.NormalDelay, err)
	}
	if err := cfg.SetValue("longPressThreshold", "20"); err == nil {
		t.Error("Expected error for out of range threshold")
	}
	if cfg.LongPressThreshold != 0.5 {
		t.Errorf("rejected value changed threshold to %v", cfg.LongPressThreshold)
	}
	if err := cfg.SetValue("bogus", "1"); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestPresets(t *testing.T) {
	delays := DelayPresets()
	if len(delays) != 12 || delays[0] != 0.5 || delays[len(delays)-1] != 6.0 {
		t.Errorf("unexpected delay presets %v", delays)
	}
	for i := 1; i < len(delays); i++ {
		if !SameValue(delays[i]-delays[i-1], 0.5) {
			t.Errorf("Expected 0.5 steps, got %v", delays)
			break
		}
	}
	if got := ThresholdPresets(); len(got) != 6 {
		t.Errorf("unexpected threshold presets %v", got)
	}
}

func TestImportLegacy(t *testing.T) {
	store := map[string]string{
		"shortcutTag":        "4",
		"coldStartDelay":     "5",
		"longPressThreshold": "garbage",
	}
	read := func(key string) (string, error) {
		v, ok := store[key]
		if !ok {
			return "", errors.New("does not exist")
		}
		return v, nil
	}

	cfg, ok := importLegacy(read)
	if !ok {
		t.Fatal("Expected legacy values to be found")
	}
	if cfg.TriggerKey() != trigger.RightOption {
		t.Errorf("Expected right option, got %v", cfg.TriggerKey())
	}
	if cfg.ColdStartDelay != 5 {
		t.Errorf("Expected cold start 5, got %v", cfg.ColdStartDelay)
	}
	if cfg.NormalDelay != DefaultConfig().NormalDelay {
		t.Errorf("Expected default normal delay, got %v", cfg.NormalDelay)
	}
	if cfg.LongPressThreshold != DefaultConfig().LongPressThreshold {
		t.Errorf("Expected default threshold, got %v", cfg.LongPressThreshold)
	}
}

func TestLoadImportsLegacyOnce(t *testing.T) {
	m := newTestManager(t)
	calls := 0
	m.legacy = func(key string) (string, error) {
		calls++
		if key == "normalDelay" {
			return "1.5", nil
		}
		return "", errNoLegacyStore
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Get().NormalDelay != 1.5 {
		t.Errorf("Expected imported normal delay, got %v", m.Get().NormalDelay)
	}
	if _, err := os.Stat(m.Path()); err != nil {
		t.Fatalf("Expected imported config to be saved: %v", err)
	}

	calls = 0
	if err := m.Load(); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no legacy reads once a config file exists, got %d", calls)
	}
}

func TestLoadKeepsImportWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	// A dangling link reads as missing but cannot be written through.
	if err := os.Symlink(filepath.Join(dir, "missing", "config.json"), path); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.legacy = func(key string) (string, error) {
		if key == "coldStartDelay" {
			return "4", nil
		}
		return "", errNoLegacyStore
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Expected Load to succeed when the import cannot be saved, got %v", err)
	}
	if m.Get().ColdStartDelay != 4 {
		t.Errorf("Expected imported cold start 4, got %v", m.Get().ColdStartDelay)
	}
}

func TestSetValueRejectsBadLogSettings(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetValue("logLevel", "chatty"); err == nil {
		t.Error("Expected error for unknown log level")
	}
	if err := cfg.SetValue("logFormat", "xml"); err == nil {
		t.Error("Expected error for unknown log format")
	}
	if err := cfg.SetValue("logLevel", "DEBUG"); err != nil || cfg.LogLevel != "debug" {
		t.Errorf("Expected debug, got %q, %v", cfg.LogLevel, err)
	}
}
