//go:build !windows

package pidfile

import (
	"errors"
	"syscall"
)

// Alive reports whether a process with the given pid exists. Signal 0
// performs the existence check without delivering anything.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to someone else.
	return errors.Is(err, syscall.EPERM)
}
