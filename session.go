package main

import (
	"sync"
	"time"

	"voxtyped/audio"
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateRecording
	stateFinalizing
)

func (s sessionState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateRecording:
		return "recording"
	case stateFinalizing:
		return "finalizing"
	}
	return "unknown"
}

// pollInterval is the capture actor's tick. Stop latency and device
// failure detection are both bounded by one tick.
const pollInterval = 100 * time.Millisecond

// session owns the PCM buffer from start until halt hands it off.
type session struct {
	capture   audio.CaptureDevice
	startedAt time.Time

	mu  sync.Mutex
	buf []byte

	stop chan struct{}
	done chan struct{}
}

// startSession installs the capture callback, starts the device and
// spawns the polling actor. abort is called from the actor goroutine
// when the device fails mid-recording.
func startSession(capture audio.CaptureDevice, abort func(error)) (*session, error) {
	s := &session{
		capture:   capture,
		startedAt: time.Now(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	capture.SetCallback(func(data []byte, frameCount uint32) {
		s.mu.Lock()
		s.buf = append(s.buf, data...)
		s.mu.Unlock()
	})

	if err := capture.Start(); err != nil {
		capture.ClearCallback()
		capture.Close()
		return nil, err
	}

	go s.run(abort)
	return s, nil
}

func (s *session) run(abort func(error)) {
	defer close(s.done)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			s.teardown()
			return
		case <-ticker.C:
			if err := s.capture.Err(); err != nil {
				s.teardown()
				abort(err)
				return
			}
		}
	}
}

func (s *session) teardown() {
	s.capture.Stop()
	s.capture.ClearCallback()
	s.capture.Close()
}

// halt signals the actor and joins it, then transfers buffer ownership
// to the caller. Valid only once, and only while the actor is running.
func (s *session) halt() []byte {
	close(s.stop)
	<-s.done

	s.mu.Lock()
	buf := s.buf
	s.buf = nil
	s.mu.Unlock()
	return buf
}

func (s *session) duration() time.Duration {
	return time.Since(s.startedAt)
}
