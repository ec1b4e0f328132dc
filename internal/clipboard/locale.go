package clipboard

import (
	"fmt"
	"log/slog"
	"os"
)

// DefaultLang is the locale pbcopy and pbpaste need to pass text through
// as UTF-8.
const DefaultLang = "en_US.UTF-8"

// localeSet reports whether any variable that selects the character
// encoding is present.
func localeSet(getenv func(string) string) bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if getenv(key) != "" {
			return true
		}
	}
	return false
}

// EnsureUTF8Locale sets LANG when the process was started without a locale,
// as launchd does for login items and Finder launches. Without it the
// clipboard helpers do not round-trip non-ASCII text.
func EnsureUTF8Locale() error {
	if localeSet(os.Getenv) {
		return nil
	}
	if err := os.Setenv("LANG", DefaultLang); err != nil {
		return fmt.Errorf("set LANG: %w", err)
	}
	slog.Debug("clipboard: no locale in environment, using default", "lang", DefaultLang)
	return nil
}
