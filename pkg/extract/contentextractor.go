package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/health"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/rs/zerolog"
)

// ServiceStartTimeout is how long ContentExtractor waits for its backing
// REST service to become ready after auto-starting it
const ServiceStartTimeout = 30 * time.Second

// ContentExtractorConfig configures a ContentExtractor capability.
type ContentExtractorConfig struct {
	// Endpoint is the REST service base URL (e.g. "http://localhost:9998").
	Endpoint string
	// StartCommand auto-starts the service if Endpoint is unreachable.
	// Empty means "never auto-start; fail if unreachable".
	StartCommand []string
	// RequestTimeout bounds a single per-file HTTP call.
	RequestTimeout time.Duration
}

// ContentExtractor is an HTTP client to a long-running Tika-like content
// extraction REST service: one request per file, with auto-start of the
// service (spawned detached, then readiness-polled via
// pkg/health.HTTPChecker) if it is unreachable.
type ContentExtractor struct {
	cfg    ContentExtractorConfig
	client *http.Client
	logger zerolog.Logger

	started *exec.Cmd
}

// NewContentExtractor creates a ContentExtractor.
func NewContentExtractor(cfg ContentExtractorConfig) *ContentExtractor {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	return &ContentExtractor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		logger: log.WithComponent("extract.content"),
	}
}

// Name implements Capability.
func (c *ContentExtractor) Name() string { return "AT" }

// EnsureRunning probes c.cfg.Endpoint and, if unreachable, spawns
// StartCommand as a detached child and polls readiness for up to
// ServiceStartTimeout.
func (c *ContentExtractor) EnsureRunning(ctx context.Context) error {
	checker := health.NewHTTPChecker(c.cfg.Endpoint + "/tika").WithTimeout(2 * time.Second)
	if checker.Check(ctx).Healthy {
		return nil
	}

	if len(c.cfg.StartCommand) == 0 {
		return fmt.Errorf("content extractor unreachable at %s and no start command configured", c.cfg.Endpoint)
	}

	c.logger.Info().Strs("command", c.cfg.StartCommand).Msg("content extractor unreachable, auto-starting")
	cmd := exec.Command(c.cfg.StartCommand[0], c.cfg.StartCommand[1:]...)
	cmd.Stdout, cmd.Stderr = nil, nil
	setProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn content extractor service: %w", err)
	}
	c.started = cmd
	go func() { _ = cmd.Wait() }() // reap; the service outlives this run

	if err := checker.WaitReady(ctx, 500*time.Millisecond, ServiceStartTimeout); err != nil {
		return fmt.Errorf("content extractor did not become ready: %w", err)
	}
	return nil
}

// Extract implements Capability: one HTTP PUT per file, body = file
// contents, Accept: application/json for Tika's metadata response.
func (c *ContentExtractor) Extract(ctx context.Context, paths []string, workspace string) (Result, error) {
	result := newResult()

	for _, path := range paths {
		fields, err := c.extractOne(ctx, path)
		if err != nil {
			c.logger.Error().Str("path", path).Err(err).Msg("content extraction failed")
			continue
		}
		for field, value := range fields {
			result.set(path, field, value)
		}
	}
	return result, nil
}

func (c *ContentExtractor) extractOne(ctx context.Context, path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.cfg.Endpoint+"/meta", f)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = fmt.Sprintf("%v", v)
	}
	return fields, nil
}
