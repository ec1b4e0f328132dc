//go:build darwin

package tap

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <IOKit/hidsystem/IOLLEvent.h>
#include <stdint.h>

extern CGEventRef goTapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon);

static CFRunLoopSourceRef installTap(uintptr_t refcon, CFMachPortRef *tapOut) {
        CGEventMask mask = CGEventMaskBit(kCGEventFlagsChanged) | CGEventMaskBit(kCGEventKeyDown);
        CFMachPortRef tap = CGEventTapCreate(kCGSessionEventTap,
                                             kCGHeadInsertEventTap,
                                             kCGEventTapOptionListenOnly,
                                             mask,
                                             goTapCallback,
                                             (void *)refcon);
        if (tap == NULL) {
                return NULL;
        }
        CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
        CFRunLoopAddSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
        CGEventTapEnable(tap, true);
        *tapOut = tap;
        return source;
}

static void removeTap(CFMachPortRef tap, CFRunLoopSourceRef source) {
        CGEventTapEnable(tap, false);
        CFRunLoopRemoveSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
        CFMachPortInvalidate(tap);
        CFRelease(source);
        CFRelease(tap);
}

static void enableTap(CFMachPortRef tap) {
        CGEventTapEnable(tap, true);
}

static int64_t eventKeycode(CGEventRef event) {
        return CGEventGetIntegerValueField(event, kCGKeyboardEventKeycode);
}

static int64_t eventUserData(CGEventRef event) {
        return CGEventGetIntegerValueField(event, kCGEventSourceUserData);
}

static uint64_t eventFlags(CGEventRef event) {
        return (uint64_t)CGEventGetFlags(event);
}
*/
import "C"

import (
	"log/slog"
	"runtime"
	"runtime/cgo"
	"sync"
	"unsafe"

	"huangdou/internal/trigger"
)

// deviceMasks come from IOLLEvent.h; the side bits are only meaningful
// together with the CoreGraphics device-independent masks.
var deviceMasks = flagMasks{
	command:      uint64(C.kCGEventFlagMaskCommand),
	option:       uint64(C.kCGEventFlagMaskAlternate),
	leftCommand:  uint64(C.NX_DEVICELCMDKEYMASK),
	rightCommand: uint64(C.NX_DEVICERCMDKEYMASK),
	leftOption:   uint64(C.NX_DEVICELALTKEYMASK),
	rightOption:  uint64(C.NX_DEVICERALTKEYMASK),
}

// Tap is a listen-only CGEventTap on the login session.
type Tap struct {
	handler Handler

	mu      sync.Mutex
	started bool
	port    C.CFMachPortRef
	loop    C.CFRunLoopRef
	done    chan struct{}
}

// New creates a tap that will deliver events to handler.
func New(handler Handler) *Tap {
	return &Tap{
		handler: handler,
		done:    make(chan struct{}),
	}
}

//export goTapCallback
func goTapCallback(proxy C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, refcon unsafe.Pointer) C.CGEventRef {
	t := cgo.Handle(uintptr(refcon)).Value().(*Tap)

	var kind trigger.EventKind
	switch eventType {
	case C.kCGEventFlagsChanged:
		kind = trigger.FlagsChanged
	case C.kCGEventKeyDown:
		kind = trigger.KeyDown
	case C.kCGEventTapDisabledByTimeout, C.kCGEventTapDisabledByUserInput:
		slog.Warn("tap: event tap disabled by the system, re-enabling")
		t.reenable()
		return event
	default:
		return event
	}

	t.handler(trigger.Event{
		Kind:      kind,
		Modifiers: decodeFlags(uint64(C.eventFlags(event)), deviceMasks),
		KeyCode:   uint16(C.eventKeycode(event)),
		UserData:  int64(C.eventUserData(event)),
	})
	return event
}

// Start installs the tap on a dedicated OS thread running its own
// CFRunLoop. It returns once the tap is live or has failed.
func (t *Tap) Start() error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	t.started = true
	t.mu.Unlock()

	errCh := make(chan error, 1)
	go t.run(errCh)
	return <-errCh
}

func (t *Tap) run(errCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	handle := cgo.NewHandle(t)
	defer handle.Delete()

	var port C.CFMachPortRef
	source := C.installTap(C.uintptr_t(handle), &port)
	if source == 0 {
		errCh <- ErrAccessibilityPermission
		return
	}

	t.mu.Lock()
	t.port = port
	t.loop = C.CFRunLoopGetCurrent()
	t.mu.Unlock()

	slog.Info("tap: CGEventTap installed")
	errCh <- nil
	C.CFRunLoopRun()

	t.mu.Lock()
	t.port = 0
	t.loop = 0
	t.mu.Unlock()
	C.removeTap(port, source)
	slog.Info("tap: CGEventTap removed")
}

func (t *Tap) reenable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port != 0 {
		C.enableTap(t.port)
	}
}

// Stop ends the tap's run loop and waits for the tap to be removed.
func (t *Tap) Stop() {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	stopUntilDone(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.loop != 0 {
			C.CFRunLoopStop(t.loop)
		}
	}, t.done, stopRetryInterval)
}
