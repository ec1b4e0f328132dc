// Package osutils holds small OS integration helpers.
package osutils

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// ErrAlreadyRunning is returned by AcquireLock when another process holds
// the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// openCommand returns the command that opens target with the system
// handler on goos.
func openCommand(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	}
	return "", nil, fmt.Errorf("opening URLs not supported on %s", goos)
}

// OpenURL opens target (a URL or file path) with the system handler.
func OpenURL(target string) error {
	name, args, err := openCommand(runtime.GOOS, target)
	if err != nil {
		return err
	}
	slog.Debug("osutils: opening", "target", target)
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}
