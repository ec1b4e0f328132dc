// Package trigger implements the long-press state machine that starts
// voice input in the target application and commits the dictated text.
//
// A Controller is not safe for concurrent use. Every method, and every
// function it schedules, must run on the same loop goroutine.
package trigger

import (
	"log/slog"
	"time"

	"huangdou/internal/loop"
)

// RestoreGrace is the pause between the Enter keystroke and the clipboard
// restore.
const RestoreGrace = 200 * time.Millisecond

// Clipboard reads and writes the system clipboard text.
type Clipboard interface {
	// Read returns the clipboard text and whether text was present.
	Read() (string, bool)
	Write(text string) error
}

// Injector posts synthetic keystrokes tagged with SyntheticMarker.
type Injector interface {
	// SendTriggerShortcut posts Control+D.
	SendTriggerShortcut() error
	// SendEnter posts Return.
	SendEnter() error
}

// Settings is the user-configurable part of the controller.
type Settings struct {
	Key            Key
	ColdStartDelay time.Duration
	NormalDelay    time.Duration
	Threshold      time.Duration
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Key:            RightCommand,
		ColdStartDelay: 3500 * time.Millisecond,
		NormalDelay:    3 * time.Second,
		Threshold:      500 * time.Millisecond,
	}
}

// State is the controller's position in the trigger cycle.
type State int

const (
	Idle State = iota
	ArmedWaitingThreshold
	Recording
	WaitingCommit
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ArmedWaitingThreshold:
		return "armed"
	case Recording:
		return "recording"
	case WaitingCommit:
		return "waiting-commit"
	}
	return "unknown"
}

// snapshot is the clipboard content captured when recording starts.
type snapshot struct {
	text string
	ok   bool
}

// Controller drives the trigger cycle:
// idle -> armed -> recording -> waiting-commit -> idle.
type Controller struct {
	settings Settings
	sched    loop.Scheduler
	clip     Clipboard
	inj      Injector
	onState  func(State)

	state    State
	firstUse bool
	saved    *snapshot

	threshold loop.Canceler
	commit    loop.Canceler
	restore   loop.Canceler
}

// New creates a controller in the Idle state.
func New(settings Settings, sched loop.Scheduler, clip Clipboard, inj Injector) *Controller {
	return &Controller{
		settings: settings,
		sched:    sched,
		clip:     clip,
		inj:      inj,
		firstUse: true,
	}
}

// OnStateChange registers fn to be called after every state transition.
func (c *Controller) OnStateChange(fn func(State)) {
	c.onState = fn
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Recording reports whether voice input is active.
func (c *Controller) Recording() bool {
	return c.state == Recording
}

// FirstUse reports whether the next commit will use the cold-start delay.
func (c *Controller) FirstUse() bool {
	return c.firstUse
}

// Settings returns the active settings.
func (c *Controller) Settings() Settings {
	return c.settings
}

// UpdateSettings replaces the settings. Timers already running keep their
// original duration.
func (c *Controller) UpdateSettings(s Settings) {
	if !s.Key.Valid() {
		s.Key = c.settings.Key
	}
	c.settings = s
	slog.Debug("trigger: settings updated", "key", s.Key, "cold_start", s.ColdStartDelay, "normal", s.NormalDelay, "threshold", s.Threshold)
}

// HandleEvent feeds one tap event into the state machine.
func (c *Controller) HandleEvent(ev Event) {
	if ev.Synthetic() {
		return
	}

	switch ev.Kind {
	case KeyDown:
		// Another key while the trigger is held is a different shortcut.
		if c.state == ArmedWaitingThreshold {
			c.cancel(&c.threshold)
			c.saved = nil
			c.setState(Idle)
			slog.Debug("trigger: key down cancelled long press", "keycode", ev.KeyCode)
		}
	case FlagsChanged:
		if ev.Modifiers.Has(c.settings.Key.Modifier()) {
			c.press()
		} else {
			c.release()
		}
	}
}

func (c *Controller) press() {
	if c.state != Idle && c.state != WaitingCommit {
		return
	}
	if c.cancel(&c.commit) {
		slog.Info("trigger: pending enter cancelled by new press")
	}
	c.threshold = c.sched.AfterFunc(c.settings.Threshold, c.fireThreshold)
	c.setState(ArmedWaitingThreshold)
}

func (c *Controller) release() {
	switch c.state {
	case ArmedWaitingThreshold:
		c.cancel(&c.threshold)
		c.setState(Idle)
		// A snapshot carried over from a cancelled commit has nothing left
		// to protect it.
		if c.saved != nil {
			c.restoreClipboard()
		}
	case Recording:
		delay := c.settings.NormalDelay
		if c.firstUse {
			delay = c.settings.ColdStartDelay
			c.firstUse = false
		}
		c.commit = c.sched.AfterFunc(delay, c.fireCommit)
		c.setState(WaitingCommit)
		slog.Debug("trigger: recording stopped", "commit_in", delay)
	}
}

func (c *Controller) fireThreshold() {
	c.threshold = nil
	if c.state != ArmedWaitingThreshold {
		return
	}

	if c.cancel(&c.restore) {
		c.restoreClipboard()
	}
	if c.saved == nil {
		text, ok := c.clip.Read()
		c.saved = &snapshot{text: text, ok: ok}
	}

	if err := c.inj.SendTriggerShortcut(); err != nil {
		slog.Error("trigger: failed to send voice input shortcut", "error", err)
	}
	c.setState(Recording)
	slog.Info("trigger: recording started")
}

func (c *Controller) fireCommit() {
	c.commit = nil
	if c.state != WaitingCommit {
		return
	}

	if err := c.inj.SendEnter(); err != nil {
		slog.Error("trigger: failed to send enter", "error", err)
	}
	c.restore = c.sched.AfterFunc(RestoreGrace, c.fireRestore)
	c.setState(Idle)
	slog.Info("trigger: text committed")
}

func (c *Controller) fireRestore() {
	c.restore = nil
	c.restoreClipboard()
}

func (c *Controller) restoreClipboard() {
	saved := c.saved
	c.saved = nil
	if saved == nil || !saved.ok {
		return
	}
	if err := c.clip.Write(saved.text); err != nil {
		slog.Error("trigger: failed to restore clipboard", "error", err)
	}
}

// Close cancels every pending timer and puts back any clipboard snapshot
// still held, so the user's clipboard is not left holding dictated text.
func (c *Controller) Close() {
	c.cancel(&c.threshold)
	c.cancel(&c.commit)
	c.cancel(&c.restore)
	c.restoreClipboard()
	if c.state != Idle {
		c.setState(Idle)
	}
}

// cancel stops the task in *slot, clears the slot and reports whether a
// pending task was stopped.
func (c *Controller) cancel(slot *loop.Canceler) bool {
	if *slot == nil {
		return false
	}
	stopped := (*slot).Cancel()
	*slot = nil
	return stopped
}

func (c *Controller) setState(s State) {
	c.state = s
	if c.onState != nil {
		c.onState(s)
	}
}
