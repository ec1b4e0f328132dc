//go:build darwin

package config

import (
	"os/exec"
	"strings"
)

func readLegacyDefault(key string) (string, error) {
	out, err := exec.Command("defaults", "read", legacyDomain, key).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
