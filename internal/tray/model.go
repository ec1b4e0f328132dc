package tray

import (
	"fmt"

	"huangdou/internal/config"
	"huangdou/internal/trigger"
)

const (
	// AppTitle heads the menu.
	AppTitle = "Huangdou v1.0"

	idleTitle      = "🎤"
	recordingTitle = "🔴"

	customLabel = "Custom..."

	HelpTitle = "Huangdou - How to use"
	HelpText  = `1. Make sure the Doubao app is installed and signed in.
2. In Doubao's settings, set the voice input shortcut to Control+D.
3. Pick the trigger key you want (left/right Command or Option).
4. Hold the key and speak; release it and the text is inserted.
5. Your clipboard content is protected and will not be overwritten.

Note: on first use, grant Accessibility permission in System Settings.`
)

// StatusTitle is the status-bar text for the recording state.
func StatusTitle(recording bool) string {
	if recording {
		return recordingTitle
	}
	return idleTitle
}

// KeyLabel is the menu label for a trigger key.
func KeyLabel(k trigger.Key) string {
	return k.String()
}

// KeyOption is one trigger-key menu entry.
type KeyOption struct {
	Key     trigger.Key
	Label   string
	Checked bool
}

// KeyOptions lists the trigger keys with exactly the configured one checked.
func KeyOptions(cfg config.Config) []KeyOption {
	opts := make([]KeyOption, 0, len(trigger.Keys))
	for _, k := range trigger.Keys {
		opts = append(opts, KeyOption{Key: k, Label: KeyLabel(k), Checked: k == cfg.TriggerKey()})
	}
	return opts
}

// Setting identifies one of the adjustable timings.
type Setting int

const (
	ColdStartDelay Setting = iota
	NormalDelay
	Threshold
)

// Settings lists the timings in menu order.
var Settings = []Setting{ColdStartDelay, NormalDelay, Threshold}

func (s Setting) name() string {
	switch s {
	case ColdStartDelay:
		return "Cold start delay (first use)"
	case NormalDelay:
		return "Normal delay (later uses)"
	default:
		return "Trigger time (long-press threshold)"
	}
}

// Value returns the setting's current value in seconds.
func (s Setting) Value(cfg config.Config) float64 {
	switch s {
	case ColdStartDelay:
		return cfg.ColdStartDelay
	case NormalDelay:
		return cfg.NormalDelay
	default:
		return cfg.LongPressThreshold
	}
}

// Apply stores v into cfg.
func (s Setting) Apply(cfg *config.Config, v float64) {
	switch s {
	case ColdStartDelay:
		cfg.ColdStartDelay = v
	case NormalDelay:
		cfg.NormalDelay = v
	default:
		cfg.LongPressThreshold = v
	}
}

// Presets returns the fixed menu choices.
func (s Setting) Presets() []float64 {
	if s == Threshold {
		return config.ThresholdPresets()
	}
	return config.DelayPresets()
}

// Label is the submenu title showing the current value.
func (s Setting) Label(cfg config.Config) string {
	return fmt.Sprintf("%s: %s", s.name(), FormatSeconds(s.Value(cfg)))
}

// PromptTitle heads the custom value dialog.
func (s Setting) PromptTitle() string {
	return "Custom " + s.name()
}

// PromptMessage explains the accepted range.
func PromptMessage() string {
	return fmt.Sprintf("Enter the time in seconds, between %.1f and %.1f", config.MinDelay, config.MaxDelay)
}

// PresetOption is one entry of a timing submenu.
type PresetOption struct {
	Value   float64
	Label   string
	Checked bool
}

// Options lists the presets, checking the one matching the current value.
// A custom value between presets leaves all unchecked.
func (s Setting) Options(cfg config.Config) []PresetOption {
	cur := s.Value(cfg)
	presets := s.Presets()
	opts := make([]PresetOption, 0, len(presets))
	for _, v := range presets {
		opts = append(opts, PresetOption{Value: v, Label: FormatSeconds(v), Checked: config.SameValue(v, cur)})
	}
	return opts
}

// FormatSeconds renders a timing with one decimal.
func FormatSeconds(v float64) string {
	return fmt.Sprintf("%.1f s", v)
}

// FormatValue renders a timing for a text field.
func FormatValue(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
