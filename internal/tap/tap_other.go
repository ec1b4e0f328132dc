//go:build !darwin

package tap

import "log/slog"

// Tap is inert on platforms without a global keyboard tap.
type Tap struct {
	handler Handler
}

// New creates a tap that will deliver events to handler.
func New(handler Handler) *Tap {
	return &Tap{handler: handler}
}

// Start always fails with ErrUnsupportedPlatform.
func (t *Tap) Start() error {
	slog.Warn("tap: global keyboard tap not supported on this platform")
	return ErrUnsupportedPlatform
}

// Stop is a no-op.
func (t *Tap) Stop() {}
