//go:build !windows

package creationtime

import "time"

const supported = false

func setCreationTime(path string, t time.Time) error {
	return ErrPlatformUnsupported
}
