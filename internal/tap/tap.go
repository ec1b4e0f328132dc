// Package tap delivers global keyboard events to a handler.
package tap

import (
	"errors"
	"time"

	"huangdou/internal/trigger"
)

var (
	// ErrAccessibilityPermission is returned when the OS refuses to install
	// the event tap, which happens until the process is trusted for
	// accessibility.
	ErrAccessibilityPermission = errors.New("event tap unavailable: accessibility permission required")

	// ErrUnsupportedPlatform is returned on platforms without a global tap.
	ErrUnsupportedPlatform = errors.New("event tap not supported on this platform")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("event tap already started")
)

// Handler receives events on the tap's thread. It must not block.
type Handler func(trigger.Event)

// flagMasks holds the platform bit masks used to tell the left and right
// variants of a modifier apart.
type flagMasks struct {
	command      uint64
	option       uint64
	leftCommand  uint64
	rightCommand uint64
	leftOption   uint64
	rightOption  uint64
}

// decodeFlags converts raw event flags into side-specific modifiers. A
// side bit only counts while the device-independent modifier is also set.
func decodeFlags(flags uint64, m flagMasks) trigger.Modifiers {
	var mods trigger.Modifiers
	if flags&m.command != 0 {
		if flags&m.leftCommand != 0 {
			mods |= trigger.ModLeftCommand
		}
		if flags&m.rightCommand != 0 {
			mods |= trigger.ModRightCommand
		}
	}
	if flags&m.option != 0 {
		if flags&m.leftOption != 0 {
			mods |= trigger.ModLeftOption
		}
		if flags&m.rightOption != 0 {
			mods |= trigger.ModRightOption
		}
	}
	return mods
}

const stopRetryInterval = 20 * time.Millisecond

// stopUntilDone calls stop until done is closed. A run loop only honors a
// stop request while it is running, so a request that lands before the loop
// starts has to be repeated.
func stopUntilDone(stop func(), done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		stop()
		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
