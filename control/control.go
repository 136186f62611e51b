// Package control turns OS-level process signals into daemon control
// events. All sources funnel into one channel so a single consumer can
// apply events strictly one at a time.
package control

// Event is one out-of-band control request. Consumed exactly once.
type Event int

const (
	// EventToggle starts recording when idle, otherwise stops and
	// transcribes.
	EventToggle Event = iota
	// EventStatus asks the daemon to report its state without mutating it.
	EventStatus
	// EventShutdown requests a graceful exit.
	EventShutdown
)

func (e Event) String() string {
	switch e {
	case EventToggle:
		return "toggle"
	case EventStatus:
		return "status"
	case EventShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}
