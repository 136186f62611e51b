package transcriber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voxtyped/encoder"
)

func TestTranscribeSuccess(t *testing.T) {
	var gotFilename, gotContentType, gotUseOllama string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		_, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		gotFilename = hdr.Filename
		gotContentType = hdr.Header.Get("Content-Type")
		gotUseOllama = r.FormValue("use_ollama")
		w.Write([]byte(`{"transcription":"hello"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Transcribe(context.Background(), []byte("RIFFdata"), encoder.FormatWAV, Options{})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Transcription != "hello" {
		t.Errorf("transcription = %q", res.Transcription)
	}
	if res.FormattedText != "" {
		t.Errorf("unexpected formatted text %q", res.FormattedText)
	}
	if gotFilename != "audio.wav" {
		t.Errorf("filename = %q, want audio.wav", gotFilename)
	}
	if gotContentType != "audio/wav" {
		t.Errorf("content type = %q, want audio/wav", gotContentType)
	}
	if gotUseOllama != "false" {
		t.Errorf("use_ollama = %q, want false", gotUseOllama)
	}
	if res.Metrics == nil || res.Metrics.Total <= 0 {
		t.Error("expected network metrics")
	}
}

func TestTranscribeFormattingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(10 << 20)
		if r.FormValue("use_ollama") != "true" {
			t.Errorf("use_ollama = %q", r.FormValue("use_ollama"))
		}
		if r.FormValue("ollama_model") != "llama3" {
			t.Errorf("ollama_model = %q", r.FormValue("ollama_model"))
		}
		if r.FormValue("ollama_prompt") != "fix punctuation" {
			t.Errorf("ollama_prompt = %q", r.FormValue("ollama_prompt"))
		}
		w.Write([]byte(`{"transcription":"hello","formatted_text":"Hello."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Transcribe(context.Background(), []byte("x"), encoder.FormatWAV, Options{
		UseFormatting: true,
		FormatModel:   "llama3",
		FormatPrompt:  "fix punctuation",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.FormattedText != "Hello." {
		t.Errorf("formatted = %q, want Hello.", res.FormattedText)
	}
}

func TestTranscribeEmptyIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transcription":""}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Transcribe(context.Background(), []byte("x"), encoder.FormatWAV, Options{})
	if err != nil {
		t.Fatalf("empty transcription must not be an error: %v", err)
	}
	if res.Transcription != "" {
		t.Errorf("transcription = %q, want empty", res.Transcription)
	}
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"oom"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Transcribe(context.Background(), []byte("x"), encoder.FormatWAV, Options{})
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected *ServerError, got %T: %v", err, err)
	}
	if serverErr.StatusCode != 500 || serverErr.Detail != "oom" {
		t.Errorf("got %d/%q", serverErr.StatusCode, serverErr.Detail)
	}
}

func TestTranscribeConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL)
	_, err := c.Transcribe(context.Background(), []byte("x"), encoder.FormatWAV, Options{})
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected *ConnectionError, got %T: %v", err, err)
	}
}

func TestTranscribeTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(srv.URL)
	c.timeout = 50 * time.Millisecond
	_, err := c.Transcribe(context.Background(), []byte("x"), encoder.FormatWAV, Options{})
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %T: %v", err, err)
	}
}

func TestCheckHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"status":"healthy","model_loaded":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	h, err := c.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if h.Status != "healthy" || !h.ModelLoaded {
		t.Errorf("got %+v", h)
	}
}
