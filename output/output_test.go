package output

import (
	"errors"
	"strings"
	"testing"
)

func recordingSink(mode Mode) (*Sink, *string, *string) {
	var copied, typed string
	s := New(mode)
	s.copyFn = func(t string) error { copied = t; return nil }
	s.typeFn = func(t string) error { typed = t; return nil }
	return s, &copied, &typed
}

func TestSanitizeStripsLineBreaks(t *testing.T) {
	cases := map[string]string{
		"hello\nworld":       "hello world",
		"hello\r\nworld":     "hello world",
		"hello\rworld":       "hello world",
		"  padded  ":         "padded",
		"\nleading\n":        "leading",
		"no breaks":          "no breaks",
		"a\nb\r\nc\rd":       "a b c d",
		"a\n\nb":             "a b",
		"a\r\n\r\n\r\nb":     "a b",
		"para\n\n\nend":      "para end",
	}
	for in, want := range cases {
		got := Sanitize(in)
		if got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
		if strings.ContainsAny(got, "\r\n") {
			t.Errorf("Sanitize(%q) left a line break: %q", in, got)
		}
	}
}

func TestDeliverClipboard(t *testing.T) {
	s, copied, typed := recordingSink(ModeClipboard)
	if err := s.Deliver("hello", ""); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if *copied != "hello" {
		t.Errorf("clipboard got %q, want %q", *copied, "hello")
	}
	if *typed != "" {
		t.Error("direct type should not fire in clipboard mode")
	}
}

func TestDeliverDirectType(t *testing.T) {
	s, copied, typed := recordingSink(ModeDirectType)
	if err := s.Deliver("hello", ""); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if *typed != "hello" {
		t.Errorf("typed got %q, want %q", *typed, "hello")
	}
	if *copied != "" {
		t.Error("clipboard should not fire in direct_type mode")
	}
}

func TestFormattedSupersedesRaw(t *testing.T) {
	s, copied, _ := recordingSink(ModeClipboard)
	if err := s.Deliver("hello", "Hello."); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if *copied != "Hello." {
		t.Errorf("got %q, want formatted text", *copied)
	}
}

func TestRawUsedWhenFormattedAbsent(t *testing.T) {
	s, copied, _ := recordingSink(ModeClipboard)
	if err := s.Deliver("hello", ""); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if *copied != "hello" {
		t.Errorf("got %q, want raw text", *copied)
	}
}

func TestDeliverSanitizes(t *testing.T) {
	s, copied, _ := recordingSink(ModeClipboard)
	if err := s.Deliver("line one\nline two\r\n", ""); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if strings.ContainsAny(*copied, "\r\n") {
		t.Errorf("delivered text contains line break: %q", *copied)
	}
}

func TestDeliverEmptyIsNoop(t *testing.T) {
	s, copied, typed := recordingSink(ModeClipboard)
	if err := s.Deliver("   \n  ", ""); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if *copied != "" || *typed != "" {
		t.Error("whitespace-only text should not be delivered")
	}
}

func TestDeliverReportsFailure(t *testing.T) {
	s, _, _ := recordingSink(ModeClipboard)
	s.copyFn = func(string) error { return errors.New("no display") }
	if err := s.Deliver("hello", ""); err == nil {
		t.Fatal("expected error from failing clipboard")
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("clipboard"); err != nil {
		t.Error(err)
	}
	if _, err := ParseMode("direct_type"); err != nil {
		t.Error(err)
	}
	if _, err := ParseMode("teleport"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
