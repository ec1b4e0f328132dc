//go:build darwin

package inject

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdbool.h>
#include <stdint.h>

static int postKey(CGKeyCode keyCode, bool down, bool control, int64_t marker) {
        CGEventSourceRef source = CGEventSourceCreate(kCGEventSourceStateCombinedSessionState);
        CGEventRef event = CGEventCreateKeyboardEvent(source, keyCode, down);
        if (event == NULL) {
                if (source != NULL) {
                        CFRelease(source);
                }
                return -1;
        }
        CGEventSetFlags(event, control ? kCGEventFlagMaskControl : 0);
        CGEventSetIntegerValueField(event, kCGEventSourceUserData, marker);
        CGEventPost(kCGHIDEventTap, event);
        CFRelease(event);
        if (source != NULL) {
                CFRelease(source);
        }
        return 0;
}
*/
import "C"

import "huangdou/internal/trigger"

type platformPoster struct{}

func (platformPoster) post(s stroke) error {
	if C.postKey(C.CGKeyCode(s.code), C.bool(s.down), C.bool(s.control), C.int64_t(trigger.SyntheticMarker)) != 0 {
		return ErrPostFailed
	}
	return nil
}
