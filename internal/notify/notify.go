// Package notify shows desktop notifications.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// AppName is used as the notification title.
const AppName = "Huangdou"

var send = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Notify shows a desktop notification. Failures are logged only.
func Notify(title, message string) {
	if err := send(title, message); err != nil {
		slog.Warn("notify: failed to show notification", "title", title, "error", err)
	}
}

// Notifier adapts Notify to interfaces that take a notifier value.
type Notifier struct{}

// Notify shows a desktop notification.
func (Notifier) Notify(title, message string) {
	Notify(title, message)
}
