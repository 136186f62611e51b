//go:build !linux && !darwin

package clipboard

import "errors"

func Init() error { return nil }

func Type(string) error {
	return errors.New("direct typing not supported on this platform")
}
