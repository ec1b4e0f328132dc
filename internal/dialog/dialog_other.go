//go:build !darwin

package dialog

func runOsascript(string) (string, error) {
	return "", ErrUnsupportedPlatform
}
