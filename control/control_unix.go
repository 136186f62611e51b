//go:build !windows

package control

import (
	"os"
	"os/signal"
	"syscall"
)

// Signal numbers match the external control utility: SIGUSR1 toggles,
// SIGUSR2 queries status, SIGINT/SIGTERM shut down.
func Notify() <-chan Event {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	events := make(chan Event, 4)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGUSR1:
				events <- EventToggle
			case syscall.SIGUSR2:
				events <- EventStatus
			default:
				events <- EventShutdown
			}
		}
	}()
	return events
}
