//go:build !unix

package osutils

// Lock is a no-op on platforms without flock.
type Lock struct{}

// AcquireLock always succeeds on this platform.
func AcquireLock(string) (*Lock, error) {
	return &Lock{}, nil
}

// Release is a no-op.
func (l *Lock) Release() error {
	return nil
}
