package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voxtyped/audio"
	"voxtyped/config"
	"voxtyped/control"
	"voxtyped/encoder"
	"voxtyped/log"
	"voxtyped/pidfile"
	"voxtyped/transcriber"
)

// shutdownGrace bounds how long process exit waits for an in-flight
// transcription to finish or time out on its own.
const shutdownGrace = 5 * time.Second

type transcribeClient interface {
	Transcribe(ctx context.Context, audio []byte, format encoder.Format, opts transcriber.Options) (*transcriber.Result, error)
	CheckHealth(ctx context.Context) (*transcriber.Health, error)
}

type deliverer interface {
	Deliver(raw, formatted string) error
}

// Daemon serializes all state mutation through its events channel:
// exactly one event is handled at a time, so the session state machine
// never races with itself.
type Daemon struct {
	audioCtx audio.Context
	client   transcribeClient
	sink     deliverer
	enc      encoder.Encoder
	opts     transcriber.Options
	pidPath  string

	events chan event

	state        sessionState
	sess         *session
	gen          uint64
	finalizeDone chan struct{}
	sessions     int

	// optional UI hooks, nil when headless
	onRecording func(bool)
	onError     func(string)
}

func NewDaemon(audioCtx audio.Context, client transcribeClient, sink deliverer, enc encoder.Encoder, cfg config.Config) *Daemon {
	return &Daemon{
		audioCtx: audioCtx,
		client:   client,
		sink:     sink,
		enc:      enc,
		opts: transcriber.Options{
			UseFormatting: cfg.UseOllama,
			FormatModel:   cfg.OllamaModel,
			FormatPrompt:  cfg.OllamaPrompt,
		},
		pidPath: cfg.PidFile,
		events:  make(chan event, 16),
		state:   stateIdle,
	}
}

// Toggle queues a toggle event. Safe from any goroutine; the tray and
// hotkey feed the control loop through it.
func (d *Daemon) Toggle() {
	d.push(event{kind: evToggle})
}

// push queues a UI-sourced event, dropping it when the loop is
// backlogged. Dropping a toggle is equivalent to rejecting it.
func (d *Daemon) push(ev event) {
	select {
	case d.events <- ev:
	default:
		log.Warn("event dropped, control loop backlogged")
	}
}

// sendInternal delivers an event that must not be lost: a dropped
// session completion would pin the state machine in Finalizing, and a
// dropped shutdown signal would strand the process. It blocks until
// the loop has room; only detached goroutines call it, and the loop
// never waits on those outside the bounded shutdown grace, so the
// send always drains.
func (d *Daemon) sendInternal(ev event) {
	d.events <- ev
}

// ProbeHealth checks the transcription service once and logs the
// outcome. Unreachable or still-loading services are not fatal; the
// first real session will surface the error to the user.
func (d *Daemon) ProbeHealth(ctx context.Context) {
	health, err := d.client.CheckHealth(ctx)
	switch {
	case err != nil:
		log.Warnf("transcription service unreachable: %v", err)
	case !health.ModelLoaded:
		log.Warn("transcription service up, model still loading")
	default:
		log.Info("transcription service healthy")
	}
}

// Run drives the control loop until a shutdown event arrives. The pid
// file exists exactly as long as Run is executing.
func (d *Daemon) Run(ctrl <-chan control.Event) error {
	if err := pidfile.Write(d.pidPath); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	defer pidfile.Remove(d.pidPath)
	defer log.DaemonStop(d.sessions)

	go func() {
		for ev := range ctrl {
			switch ev {
			case control.EventToggle:
				d.sendInternal(event{kind: evToggle})
			case control.EventStatus:
				d.sendInternal(event{kind: evStatus})
			case control.EventShutdown:
				d.sendInternal(event{kind: evShutdown})
			}
		}
	}()

	for ev := range d.events {
		switch ev.kind {
		case evToggle:
			d.toggle()
		case evStatus:
			log.Status(d.state.String())
		case evShutdown:
			d.shutdown()
			return nil
		case evSessionDone:
			if ev.gen == d.gen && d.state == stateFinalizing {
				d.state = stateIdle
				d.finalizeDone = nil
			}
		case evSessionAborted:
			if ev.gen == d.gen && d.state == stateRecording {
				log.Errorf("capture device failed: %v", ev.err)
				d.notifyError(ev.err.Error())
				d.sess = nil
				d.state = stateIdle
			}
		default:
			log.Warnf("unknown event %d ignored", ev.kind)
		}
	}
	return nil
}

func (d *Daemon) toggle() {
	switch d.state {
	case stateIdle:
		d.startRecording()
	case stateRecording:
		d.stopRecording()
	case stateFinalizing:
		log.Warn("toggle rejected, transcription in flight")
	}
}

func (d *Daemon) startRecording() {
	capture, err := d.audioCtx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
	})
	if err != nil {
		log.Errorf("opening capture device: %v", err)
		d.notifyError(err.Error())
		return
	}

	d.gen++
	gen := d.gen
	sess, err := startSession(capture, func(devErr error) {
		// Detached so the capture actor can finish its teardown (and
		// unblock a concurrent halt) before the loop takes the event.
		go d.sendInternal(event{kind: evSessionAborted, gen: gen, err: devErr})
	})
	if err != nil {
		log.Errorf("starting capture: %v", err)
		d.notifyError(err.Error())
		return
	}

	d.sess = sess
	d.state = stateRecording
	d.notifyRecording(true)
	log.Info("recording started")
}

func (d *Daemon) stopRecording() {
	buf := d.sess.halt()
	dur := d.sess.duration()
	d.sess = nil
	d.notifyRecording(false)
	d.sessions++

	if len(buf) == 0 {
		log.Info("no audio captured")
		d.state = stateIdle
		return
	}

	d.state = stateFinalizing
	d.finalizeDone = make(chan struct{})
	go d.finalize(d.gen, buf, dur, d.finalizeDone)
	log.Info("recording stopped, transcribing")
}

// finalize encodes and ships one session's audio. It runs off the
// control loop; the loop stays responsive and rejects new sessions
// until the done event lands.
func (d *Daemon) finalize(gen uint64, buf []byte, dur time.Duration, done chan struct{}) {
	// done closes first so a shutdown waiting out the grace period is
	// released before the blocking completion send.
	defer d.sendInternal(event{kind: evSessionDone, gen: gen})
	defer close(done)

	encoded, err := d.enc.Encode(buf)
	if err != nil {
		log.Errorf("encoding audio: %v", err)
		d.notifyError(err.Error())
		return
	}

	result, err := d.client.Transcribe(context.Background(), encoded, d.enc.Format(), d.opts)
	if err != nil {
		d.reportTranscribeError(err)
		return
	}

	d.logResult(result, dur, len(encoded))

	if result.Transcription == "" {
		log.Info("no speech detected")
		return
	}

	if err := d.sink.Deliver(result.Transcription, result.FormattedText); err != nil {
		log.Errorf("delivering text: %v", err)
		d.notifyError(err.Error())
	}
}

func (d *Daemon) reportTranscribeError(err error) {
	var srvErr *transcriber.ServerError
	var connErr *transcriber.ConnectionError
	var toErr *transcriber.TimeoutError
	switch {
	case errors.As(err, &srvErr):
		log.Errorf("service error %d: %s", srvErr.StatusCode, srvErr.Detail)
	case errors.As(err, &toErr):
		log.Errorf("transcription timed out: %v", toErr)
	case errors.As(err, &connErr):
		log.Errorf("cannot reach transcription service: %v", connErr)
	default:
		log.Errorf("transcription failed: %v", err)
	}
	d.notifyError(err.Error())
}

func (d *Daemon) logResult(result *transcriber.Result, dur time.Duration, payloadBytes int) {
	m := log.RequestMetrics{
		AudioLengthS: dur.Seconds(),
		PayloadKB:    float64(payloadBytes) / 1024,
	}
	if result.Metrics != nil {
		m.DNSTimeMs = float64(result.Metrics.DNS.Milliseconds())
		m.TLSTimeMs = float64(result.Metrics.TLS.Milliseconds())
		m.TTFBMs = float64(result.Metrics.TTFB.Milliseconds())
		m.TotalTimeMs = float64(result.Metrics.Total.Milliseconds())
		m.ConnReused = result.Metrics.ConnReused
	}
	log.Transcription(m, string(d.enc.Format()), result.FormattedText != "")
	if result.Transcription != "" {
		log.TranscriptionText(result.Transcription)
	}
}

// shutdown forces a stop on an active recording without transcribing
// it, then waits out the grace period for any in-flight network call.
func (d *Daemon) shutdown() {
	log.Info("shutting down")

	if d.state == stateRecording && d.sess != nil {
		d.sess.halt()
		d.sess = nil
		d.notifyRecording(false)
	}

	if d.finalizeDone != nil {
		select {
		case <-d.finalizeDone:
		case <-time.After(shutdownGrace):
			log.Warn("abandoning in-flight transcription")
		}
	}
}

func (d *Daemon) notifyRecording(rec bool) {
	if d.onRecording != nil {
		d.onRecording(rec)
	}
}

func (d *Daemon) notifyError(msg string) {
	if d.onError != nil {
		d.onError(msg)
	}
}
