// Package dialog shows modal dialogs through AppleScript "display dialog".
package dialog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedPlatform is returned where AppleScript is unavailable.
	ErrUnsupportedPlatform = errors.New("dialogs are only supported on macOS")

	// errCanceled is reported by a runner when the user pressed the
	// cancel button (AppleScript error -128).
	errCanceled = errors.New("user canceled")
)

// Runner executes an AppleScript source and returns its trimmed output.
type Runner func(script string) (string, error)

// Dialogs shows modal dialogs.
type Dialogs struct {
	run Runner
}

// New returns dialogs backed by osascript.
func New() *Dialogs {
	return &Dialogs{run: runOsascript}
}

// Confirm asks a yes/no question. It reports true when the confirm button
// was chosen.
func (d *Dialogs) Confirm(title, message, confirm, cancel string) (bool, error) {
	script := fmt.Sprintf(
		"display dialog %s with title %s buttons {%s, %s} default button %s cancel button %s with icon caution",
		quote(message), quote(title), quote(cancel), quote(confirm), quote(confirm), quote(cancel),
	)
	out, err := d.run(script)
	if errors.Is(err, errCanceled) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirm dialog: %w", err)
	}
	return buttonReturned(out) == confirm, nil
}

// Prompt asks for a line of text, prefilled with def. ok is false when the
// user canceled.
func (d *Dialogs) Prompt(title, message, def string) (text string, ok bool, err error) {
	script := fmt.Sprintf(
		`display dialog %s with title %s default answer %s buttons {"Cancel", "OK"} default button "OK" cancel button "Cancel"`,
		quote(message), quote(title), quote(def),
	)
	out, err := d.run(script)
	if errors.Is(err, errCanceled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("prompt dialog: %w", err)
	}
	return textReturned(out), true, nil
}

// Info shows a message with a single OK button.
func (d *Dialogs) Info(title, message string) error {
	script := fmt.Sprintf(
		`display dialog %s with title %s buttons {"OK"} default button "OK"`,
		quote(message), quote(title),
	)
	if _, err := d.run(script); err != nil && !errors.Is(err, errCanceled) {
		return fmt.Errorf("info dialog: %w", err)
	}
	return nil
}

// quote renders s as an AppleScript string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", `\r`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// buttonReturned extracts the button name from display dialog output such
// as "button returned:OK, text returned:3.5".
func buttonReturned(out string) string {
	const key = "button returned:"
	i := strings.Index(out, key)
	if i < 0 {
		return ""
	}
	rest := out[i+len(key):]
	if j := strings.Index(rest, ", text returned:"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// textReturned extracts the entered text. It is always the last field, so
// it may itself contain commas.
func textReturned(out string) string {
	const key = "text returned:"
	i := strings.Index(out, key)
	if i < 0 {
		return ""
	}
	return out[i+len(key):]
}
