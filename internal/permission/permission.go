// Package permission checks and requests the Accessibility trust the key
// event tap needs.
package permission

import (
	"log/slog"

	"huangdou/internal/osutils"
)

// SettingsURL opens the Accessibility pane of System Settings.
const SettingsURL = "x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility"

const (
	promptTitle   = "Accessibility permission required"
	promptMessage = "Grant this app Accessibility permission in System Settings so it can listen for the trigger key."
	openButton    = "Open System Settings"
	cancelButton  = "Cancel"
)

// Prompter shows a modal yes/no question.
type Prompter interface {
	Confirm(title, message, confirm, cancel string) (bool, error)
}

// Notifier shows a non-modal notice.
type Notifier interface {
	Notify(title, message string)
}

// Guide walks the user to the Accessibility settings when the process is
// not trusted.
type Guide struct {
	Trusted  func(prompt bool) bool
	Prompter Prompter
	Notifier Notifier
	OpenURL  func(url string) error
}

// NewGuide returns a guide using the system trust check.
func NewGuide(p Prompter, n Notifier) *Guide {
	return &Guide{
		Trusted:  Trusted,
		Prompter: p,
		Notifier: n,
		OpenURL:  osutils.OpenURL,
	}
}

// Ensure reports whether the process is trusted. When it is not, it asks
// once whether to open System Settings and falls back to a notification
// if no dialog can be shown. It never retries.
func (g *Guide) Ensure() bool {
	if g.Trusted(true) {
		return true
	}
	slog.Warn("permission: accessibility permission missing, trigger key is inactive")

	open, err := g.Prompter.Confirm(promptTitle, promptMessage, openButton, cancelButton)
	if err != nil {
		slog.Warn("permission: could not show prompt", "error", err)
		if g.Notifier != nil {
			g.Notifier.Notify(promptTitle, promptMessage)
		}
		return false
	}
	if open {
		if err := g.OpenURL(SettingsURL); err != nil {
			slog.Error("permission: failed to open settings", "error", err)
		}
	}
	return false
}
