//go:build windows

package control

import (
	"os"
	"os/signal"
)

// Windows has no user signals; only interrupt-driven shutdown is
// available. Toggling is done through the tray or hotkey there.
func Notify() <-chan Event {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	events := make(chan Event, 1)
	go func() {
		for range sigCh {
			events <- EventShutdown
		}
	}()
	return events
}
