// Package hotkey is an optional in-process toggle source: pressing the
// global hotkey has the same effect as delivering a toggle signal.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	// Pressed fires once per hotkey press.
	Pressed() <-chan struct{}
}
