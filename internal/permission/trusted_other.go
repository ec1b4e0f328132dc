//go:build !darwin

package permission

// Trusted always reports false where there is no Accessibility framework.
func Trusted(bool) bool {
	return false
}
