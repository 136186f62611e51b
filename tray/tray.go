// Package tray shows a status icon with a toggle and quit menu. It is
// optional: the daemon runs headless when the tray is disabled or the
// desktop has no status notifier host.
package tray

import (
	"sync"

	"fyne.io/systray"
)

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	toggleFn func()

	mu        sync.Mutex
	recording bool
	mToggle   *systray.MenuItem
	ready     bool
)

// OnToggle registers the callback invoked when the user clicks the
// record menu item. Must be called before Init.
func OnToggle(fn func()) { toggleFn = fn }

// Init starts the tray in a background goroutine and returns a channel
// closed when the user picks Quit.
func Init() <-chan struct{} {
	go systray.Run(onReady, onExit)
	return quitCh
}

// SetRecording updates the icon and menu label.
func SetRecording(rec bool) {
	mu.Lock()
	defer mu.Unlock()
	recording = rec
	if !ready {
		return
	}
	applyState()
}

// SetError surfaces a failure in the tooltip until the next state
// change.
func SetError(msg string) {
	mu.Lock()
	defer mu.Unlock()
	if !ready {
		return
	}
	systray.SetTooltip("voxtyped – " + msg)
}

// Quit tears the tray down. Safe to call when Init was never run.
func Quit() {
	mu.Lock()
	wasReady := ready
	mu.Unlock()
	if wasReady {
		systray.Quit()
	} else {
		closeOnce.Do(func() { close(quitCh) })
	}
}

func onReady() {
	systray.SetTitle("voxtyped")

	mu.Lock()
	mToggle = systray.AddMenuItem("Start Recording", "Toggle dictation")
	ready = true
	applyState()
	mu.Unlock()

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Stop the daemon")

	go func() {
		for {
			select {
			case <-mToggle.ClickedCh:
				if toggleFn != nil {
					toggleFn()
				}
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func onExit() {
	closeOnce.Do(func() { close(quitCh) })
}

// applyState is called with mu held.
func applyState() {
	if recording {
		systray.SetIcon(iconRecording)
		systray.SetTooltip("voxtyped – recording")
		mToggle.SetTitle("Stop Recording")
	} else {
		systray.SetTemplateIcon(iconIdle, iconIdle)
		systray.SetTooltip("voxtyped – idle")
		mToggle.SetTitle("Start Recording")
	}
}
