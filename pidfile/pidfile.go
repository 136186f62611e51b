// Package pidfile manages the daemon's liveness file: a single-line text
// file holding the daemon's process identifier, used by the external
// control utility to locate a running daemon.
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPath mirrors the path the control utility looks at.
const DefaultPath = "/tmp/voxtyped.pid"

func Write(path string) error {
	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	return nil
}

func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed pid file %s: %w", path, err)
	}
	return pid, nil
}

// Remove deletes the liveness file. Missing files are not an error; every
// shutdown path calls this and only one can win.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
