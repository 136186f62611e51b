package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voxtyped/encoder"
)

// DefaultTimeout bounds one transcription round trip, including the
// service's optional formatting pass over several minutes of audio.
const DefaultTimeout = 60 * time.Second

const healthTimeout = 5 * time.Second

type Client struct {
	baseURL string
	client  *TracedClient
	timeout time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  NewTracedClient(),
		timeout: DefaultTimeout,
	}
}

// Transcribe sends one encoded audio payload and blocks for the result.
// Failed calls are never retried; the user re-triggers.
func (c *Client) Transcribe(ctx context.Context, audio []byte, format encoder.Format, opts Options) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, format.FileName()))
	header.Set("Content-Type", format.MIMEType())
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}

	writer.WriteField("use_ollama", strconv.FormatBool(opts.UseFormatting))
	if opts.FormatModel != "" {
		writer.WriteField("ollama_model", opts.FormatModel)
	}
	if opts.FormatPrompt != "" {
		writer.WriteField("ollama_prompt", opts.FormatPrompt)
	}
	writer.Close()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(resp.Body),
		}
	}

	var parsed struct {
		Transcription string `json:"transcription"`
		FormattedText string `json:"formatted_text"`
	}
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("response parse error: %w", err)
	}

	return &Result{
		Transcription: strings.TrimSpace(parsed.Transcription),
		FormattedText: parsed.FormattedText,
		Metrics:       resp.Metrics,
	}, nil
}

// CheckHealth probes GET /health. Used at daemon startup only.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ServerError{StatusCode: resp.StatusCode, Detail: errorDetail(resp.Body)}
	}

	var h Health
	if err := json.Unmarshal(resp.Body, &h); err != nil {
		return nil, fmt.Errorf("health parse error: %w", err)
	}
	return &h, nil
}

func classifyTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &TimeoutError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	return &ConnectionError{Err: err}
}

func errorDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return string(body)
}
