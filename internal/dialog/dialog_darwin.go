//go:build darwin

package dialog

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

func runOsascript(script string) (string, error) {
	cmd := exec.Command("osascript", "-e", script)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := string(exitErr.Stderr)
			if strings.Contains(stderr, "(-128)") {
				return "", errCanceled
			}
			return "", fmt.Errorf("osascript failed: %w: %s", err, strings.TrimSpace(stderr))
		}
		return "", fmt.Errorf("osascript failed: %w", err)
	}
	return strings.TrimRight(string(out), "\r\n"), nil
}
