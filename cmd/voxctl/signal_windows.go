//go:build windows

package main

import (
	"fmt"
	"os"
)

// Windows has no user-defined signals; only a best-effort quit is
// possible.
func send(pid int, command string) error {
	if command != "quit" {
		return fmt.Errorf("command %q is not supported on windows", command)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

func isNoSuchProcess(err error) bool {
	return false
}
