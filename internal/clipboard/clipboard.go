// Package clipboard reads and writes the system clipboard text.
package clipboard

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
)

// backend is the subset of github.com/atotto/clipboard used here.
type backend struct {
	readAll  func() (string, error)
	writeAll func(string) error
}

// Clipboard is the system clipboard.
type Clipboard struct {
	b backend
}

// New returns the system clipboard.
func New() *Clipboard {
	return &Clipboard{b: backend{
		readAll:  clipboard.ReadAll,
		writeAll: clipboard.WriteAll,
	}}
}

// Supported reports whether a clipboard utility is available.
func Supported() bool {
	return !clipboard.Unsupported
}

// Read returns the clipboard text. ok is false when the clipboard holds no
// text or cannot be read.
func (c *Clipboard) Read() (text string, ok bool) {
	text, err := c.b.readAll()
	if err != nil {
		slog.Warn("clipboard: read failed", "error", err)
		return "", false
	}
	return text, text != ""
}

// Write replaces the clipboard content with text.
func (c *Clipboard) Write(text string) error {
	if err := c.b.writeAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
