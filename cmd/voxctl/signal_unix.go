//go:build !windows

package main

import (
	"errors"
	"syscall"
)

func send(pid int, command string) error {
	var sig syscall.Signal
	switch command {
	case "toggle":
		sig = syscall.SIGUSR1
	case "status":
		sig = syscall.SIGUSR2
	case "quit":
		sig = syscall.SIGTERM
	}
	return syscall.Kill(pid, sig)
}

func isNoSuchProcess(err error) bool {
	return errors.Is(err, syscall.ESRCH)
}
