//go:build !darwin

package config

func readLegacyDefault(string) (string, error) {
	return "", errNoLegacyStore
}
