package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ollamaTimeout bounds the whole formatting pass. A slow or stuck
// model must not hold the transcription response hostage.
const ollamaTimeout = 60 * time.Second

// OllamaFormatter rewrites text with a local ollama model. Every
// failure path returns the input unchanged so transcription still
// succeeds when ollama is down.
type OllamaFormatter struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewOllamaFormatter(baseURL string, log zerolog.Logger) *OllamaFormatter {
	return &OllamaFormatter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: ollamaTimeout},
		log:     log,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (f *OllamaFormatter) Format(ctx context.Context, text, model, directive string) string {
	payload, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: directive + "\n\n" + text,
		Stream: false,
	})
	if err != nil {
		f.log.Warn().Err(err).Msg("ollama request marshal failed")
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, ollamaTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		f.log.Warn().Err(err).Msg("ollama request failed")
		return text
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn().Err(err).Msg("ollama unreachable")
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		f.log.Warn().Err(fmt.Errorf("status %d", resp.StatusCode)).Msg("ollama API error")
		return text
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		f.log.Warn().Err(err).Msg("ollama response decode failed")
		return text
	}
	if gr.Response == "" {
		return text
	}
	return gr.Response
}
