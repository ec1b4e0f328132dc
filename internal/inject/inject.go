// Package inject posts the synthetic keystrokes that start voice input and
// commit the dictated text.
package inject

import (
	"errors"
	"fmt"
)

// Virtual key codes from the macOS HIToolbox Events.h table.
const (
	keyANSID   uint16 = 0x02
	keyReturn  uint16 = 0x24
	keyControl uint16 = 0x3B
)

var (
	// ErrPostFailed is returned when the OS refuses to create an event.
	ErrPostFailed = errors.New("failed to create keyboard event")

	// ErrUnsupportedPlatform is returned where injection is not available.
	ErrUnsupportedPlatform = errors.New("input injection not supported on this platform")
)

// stroke is one key transition.
type stroke struct {
	code    uint16
	down    bool
	control bool
}

// triggerShortcut is Control+D, the voice input shortcut of the target app.
var triggerShortcut = []stroke{
	{code: keyControl, down: true, control: true},
	{code: keyANSID, down: true, control: true},
	{code: keyANSID, down: false, control: true},
	{code: keyControl, down: false},
}

var enterKey = []stroke{
	{code: keyReturn, down: true},
	{code: keyReturn, down: false},
}

type poster interface {
	post(s stroke) error
}

// Injector posts keystrokes tagged with trigger.SyntheticMarker.
type Injector struct {
	p poster
}

// NewInjector creates an injector for the current platform.
func NewInjector() *Injector {
	return &Injector{p: platformPoster{}}
}

// SendTriggerShortcut posts Control+D.
func (i *Injector) SendTriggerShortcut() error {
	return i.send("voice input shortcut", triggerShortcut)
}

// SendEnter posts Return.
func (i *Injector) SendEnter() error {
	return i.send("enter", enterKey)
}

func (i *Injector) send(name string, seq []stroke) error {
	for _, s := range seq {
		if err := i.p.post(s); err != nil {
			return fmt.Errorf("post %s: %w", name, err)
		}
	}
	return nil
}
