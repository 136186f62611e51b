package main

type eventKind int

const (
	evToggle eventKind = iota
	evStatus
	evShutdown
	evSessionDone
	evSessionAborted
)

// event is one unit of work for the control loop. gen identifies the
// session an internal event belongs to so a late sessionDone or abort
// from a previous session cannot touch the current one.
type event struct {
	kind eventKind
	gen  uint64
	err  error
}
