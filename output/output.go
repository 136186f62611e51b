// Package output delivers final transcription text into the active
// application, either through the system clipboard or by synthetic
// keystrokes.
package output

import (
	"fmt"
	"regexp"
	"strings"

	"voxtyped/clipboard"
)

type Mode string

const (
	ModeClipboard  Mode = "clipboard"
	ModeDirectType Mode = "direct_type"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClipboard, ModeDirectType:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown output mode %q (use clipboard or direct_type)", s)
	}
}

type Sink struct {
	mode Mode

	// injectable for tests
	copyFn func(string) error
	typeFn func(string) error
}

func New(mode Mode) *Sink {
	return &Sink{
		mode:   mode,
		copyFn: clipboard.Copy,
		typeFn: clipboard.Type,
	}
}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// Sanitize collapses each run of line breaks into one space and trims
// the result.
func Sanitize(text string) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(text, " "))
}

// Deliver sends the transcription to the configured target. A formatted
// variant, when present, supersedes the raw one; this is the only place
// that choice is made.
func (s *Sink) Deliver(raw, formatted string) error {
	text := raw
	if formatted != "" {
		text = formatted
	}
	text = Sanitize(text)
	if text == "" {
		return nil
	}

	switch s.mode {
	case ModeDirectType:
		if err := s.typeFn(text); err != nil {
			return fmt.Errorf("typing failed: %w", err)
		}
	default:
		if err := s.copyFn(text); err != nil {
			return fmt.Errorf("clipboard copy failed: %w", err)
		}
	}
	return nil
}
