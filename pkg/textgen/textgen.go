package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/rs/zerolog"
)

// Options tunes a single generation call.
type Options struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// DefaultOptions mirrors Ollama's own defaults for deterministic-ish,
// bounded-length technical descriptions.
var DefaultOptions = Options{Temperature: 0.2, MaxTokens: 256, TopP: 0.9}

// Client speaks the Ollama /api/generate HTTP protocol. It holds no
// retry/backoff policy of its own; callers own that.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// Config configures a Client.
type Config struct {
	// BaseURL is the Ollama server's base, e.g. "http://localhost:11434".
	BaseURL string
	// Timeout bounds a single generation call; zero uses a 5 minute default.
	Timeout time.Duration
}

// New creates a Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log.WithComponent("textgen"),
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate issues a non-streaming POST /api/generate call and returns the
// model's response text.
func (c *Client) Generate(ctx context.Context, model, prompt string, opts Options) (string, error) {
	payload := generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
			TopP:        opts.TopP,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("generate: HTTP %d: %s", resp.StatusCode, respBody)
	}

	var decoded generateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return decoded.Response, nil
}
