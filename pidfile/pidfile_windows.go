//go:build windows

package pidfile

import "os"

func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	// FindProcess only errors on Windows when the process is gone.
	_, err := os.FindProcess(pid)
	return err == nil
}
