//go:build darwin

package permission

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>

static Boolean axTrusted(Boolean prompt) {
	const void *keys[] = { kAXTrustedCheckOptionPrompt };
	const void *values[] = { prompt ? kCFBooleanTrue : kCFBooleanFalse };
	CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
	                                             &kCFTypeDictionaryKeyCallBacks,
	                                             &kCFTypeDictionaryValueCallBacks);
	Boolean trusted = AXIsProcessTrustedWithOptions(options);
	CFRelease(options);
	return trusted;
}
*/
import "C"

// Trusted reports whether the process may observe and post input events.
// With prompt set, macOS shows its own permission dialog if not trusted.
func Trusted(prompt bool) bool {
	var p C.Boolean
	if prompt {
		p = 1
	}
	return C.axTrusted(p) != 0
}
