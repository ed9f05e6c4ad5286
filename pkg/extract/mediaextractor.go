package extract

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/rs/zerolog"
)

// MediaExtractorConfig configures a MediaExtractor capability.
type MediaExtractorConfig struct {
	// BinaryPath is the path to the CLI tool's executable.
	BinaryPath string
	// Timeout bounds a single batch invocation.
	Timeout time.Duration
	// Grace is how long to wait after SIGTERM before SIGKILL.
	Grace time.Duration
}

// MediaExtractor invokes an ExifTool-like CLI tool and parses its
// "-S -q" key-value stream, one "======== <path>" separator line per
// input file.
type MediaExtractor struct {
	cfg    MediaExtractorConfig
	logger zerolog.Logger
}

// NewMediaExtractor creates a MediaExtractor.
func NewMediaExtractor(cfg MediaExtractorConfig) *MediaExtractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.Grace <= 0 {
		cfg.Grace = 10 * time.Second
	}
	return &MediaExtractor{cfg: cfg, logger: log.WithComponent("extract.media")}
}

// Name implements Capability.
func (m *MediaExtractor) Name() string { return "ET" }

// Extract implements Capability.
func (m *MediaExtractor) Extract(ctx context.Context, paths []string, workspace string) (Result, error) {
	result := newResult()
	if len(paths) == 0 {
		return result, nil
	}

	args := append([]string{"-S", "-q", "-q"}, paths...)
	out, err := runIsolated(ctx, m.cfg.Timeout, m.cfg.Grace, m.cfg.BinaryPath, args...)
	if err != nil {
		m.logger.Error().Err(err).Msg("media extraction batch failed")
		return result, nil
	}

	parseKeyValueStream(out, &result)
	return result, nil
}

// parseKeyValueStream parses lines of the form "======== <path>" as a
// file separator and "Field: Value" as a field assignment for the
// most-recently-seen path.
func parseKeyValueStream(out []byte, result *Result) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	var current string

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "========") {
			current = strings.TrimSpace(strings.TrimPrefix(line, "========"))
			continue
		}
		if current == "" {
			continue
		}
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		result.set(current, strings.TrimSpace(field), strings.TrimSpace(value))
	}
}
