//go:build windows

package creationtime

import (
	"syscall"
	"time"
)

const supported = true

// setCreationTime patches the Windows-specific creation-time field via
// SetFileTime, the only one of the three FILETIME fields syscall.Utimes
// (shared with the POSIX platforms) cannot reach.
func setCreationTime(path string, t time.Time) error {
	p, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	h, err := syscall.CreateFile(p, syscall.GENERIC_WRITE, syscall.FILE_SHARE_WRITE, nil, syscall.OPEN_EXISTING, syscall.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return err
	}
	defer syscall.CloseHandle(h)

	ft := syscall.NsecToFiletime(t.UnixNano())
	return syscall.SetFileTime(h, &ft, nil, nil)
}
