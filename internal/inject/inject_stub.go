//go:build !darwin

package inject

type platformPoster struct{}

func (platformPoster) post(stroke) error {
	return ErrUnsupportedPlatform
}
