// Package server implements the transcription service: a stateless
// HTTP handler that feeds uploaded audio to a speech oracle and
// optionally runs the result through an ollama formatting pass.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// maxUploadBytes bounds the multipart memory buffer. Dictation clips
// are short; 32 MiB covers several minutes of 16 kHz PCM.
const maxUploadBytes = 32 << 20

// Segment is one oracle decode unit. Segments are concatenated in
// order to form the transcription.
type Segment struct {
	Text string
}

// Oracle produces transcription segments from an audio container.
type Oracle interface {
	Transcribe(ctx context.Context, audio []byte, filename, contentType string) ([]Segment, error)
	Loaded(ctx context.Context) bool
}

// Formatter rewrites a transcription according to a directive. It
// never fails: on any error it returns the input unchanged.
type Formatter interface {
	Format(ctx context.Context, text, model, directive string) string
}

type transcribeResponse struct {
	Transcription string `json:"transcription"`
	FormattedText string `json:"formatted_text,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type Handler struct {
	oracle    Oracle
	formatter Formatter
	log       zerolog.Logger
	mux       *http.ServeMux
}

func New(oracle Oracle, formatter Formatter, log zerolog.Logger) *Handler {
	h := &Handler{
		oracle:    oracle,
		formatter: formatter,
		log:       log,
	}
	h.mux = http.NewServeMux()
	h.mux.HandleFunc("POST /transcribe", h.transcribe)
	h.mux.HandleFunc("GET /health", h.health)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, http.StatusBadRequest, fmt.Errorf("parsing multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, http.StatusBadRequest, fmt.Errorf("missing audio file field: %w", err))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}

	useOllama, _ := strconv.ParseBool(r.FormValue("use_ollama"))
	model := r.FormValue("ollama_model")
	directive := r.FormValue("ollama_prompt")

	segments, err := h.oracle.Transcribe(r.Context(), audio, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		h.fail(w, http.StatusInternalServerError, fmt.Errorf("transcribing: %w", err))
		return
	}

	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(seg.Text)
	}
	transcription := strings.TrimSpace(sb.String())

	resp := transcribeResponse{Transcription: transcription}
	if useOllama && model != "" && directive != "" && transcription != "" {
		resp.FormattedText = h.formatter.Format(r.Context(), transcription, model, directive)
	}

	h.log.Info().
		Int("audio_bytes", len(audio)).
		Int("chars", len(transcription)).
		Bool("formatted", resp.FormattedText != "").
		Msg("transcribed")

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		ModelLoaded: h.oracle.Loaded(r.Context()),
	})
}

func (h *Handler) fail(w http.ResponseWriter, status int, err error) {
	h.log.Error().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
