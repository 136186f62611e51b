// Package transcriber is the HTTP client for the voxserver transcription
// service.
package transcriber

import (
	"fmt"
	"time"
)

// NetworkMetrics breaks one request down by transport phase.
type NetworkMetrics struct {
	ConnWait   time.Duration
	DNS        time.Duration
	TCP        time.Duration
	TLS        time.Duration
	TTFB       time.Duration
	Download   time.Duration
	Total      time.Duration
	ConnReused bool
}

// Result is the parsed body of a successful /transcribe call.
// FormattedText is empty unless the service's formatting pass succeeded.
type Result struct {
	Transcription string
	FormattedText string
	Metrics       *NetworkMetrics
}

// Options carries the optional formatting directives for one request.
type Options struct {
	UseFormatting bool
	FormatModel   string
	FormatPrompt  string
}

// Health is the body of GET /health.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// ServerError is a non-2xx response from the service.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Detail)
}

// ConnectionError means the service could not be reached at all.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to server: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError means the round trip exceeded the request deadline.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("server request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
