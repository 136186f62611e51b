package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// Decode parameters passed to the whisper backend on every request.
// Beam search with VAD filtering and no cross-segment conditioning
// gives the most stable output for short dictation clips.
const (
	beamSize = 5
	language = "ja"
)

// WhisperOracle forwards audio to a faster-whisper HTTP backend
// speaking the OpenAI transcription API and returns its segments.
type WhisperOracle struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewWhisperOracle(baseURL, model string) *WhisperOracle {
	return &WhisperOracle{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type whisperSegment struct {
	Text string `json:"text"`
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
}

func (o *WhisperOracle) Transcribe(ctx context.Context, audio []byte, filename, contentType string) ([]Segment, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if filename == "" {
		filename = "audio.wav"
	}
	if contentType == "" {
		contentType = "audio/wav"
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("writing audio: %w", err)
	}

	fields := map[string]string{
		"model":                      o.model,
		"language":                   language,
		"response_format":            "verbose_json",
		"beam_size":                  fmt.Sprintf("%d", beamSize),
		"vad_filter":                 "true",
		"without_timestamps":         "true",
		"condition_on_previous_text": "false",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading whisper response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var wr whisperResponse
	if err := json.Unmarshal(raw, &wr); err != nil {
		return nil, fmt.Errorf("decoding whisper response: %w", err)
	}

	if len(wr.Segments) == 0 && wr.Text != "" {
		return []Segment{{Text: wr.Text}}, nil
	}
	segments := make([]Segment, len(wr.Segments))
	for i, s := range wr.Segments {
		segments[i] = Segment{Text: s.Text}
	}
	return segments, nil
}

// Loaded reports whether the backend answers its health endpoint. The
// backend only binds once the model weights are in memory, so a 200
// doubles as a model-loaded signal.
func (o *WhisperOracle) Loaded(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
