package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/rs/zerolog"
)

// droidColumns is the fixed column set of FormatIdentifier's tabular
// output, in order.
var droidColumns = []string{"FILE_PATH", "PUID", "MIME_TYPE", "FORMAT_NAME", "FORMAT_VERSION", "SIZE", "LAST_MODIFIED"}

// MaxFormatIdentifierBatch is the default per-invocation file cap.
const MaxFormatIdentifierBatch = 25

// FormatIdentifierConfig configures a FormatIdentifier capability.
type FormatIdentifierConfig struct {
	// BinaryPath is the path to the identification tool's executable.
	BinaryPath string
	// Timeout bounds a single batch invocation.
	Timeout time.Duration
	// Grace is how long to wait after SIGTERM before SIGKILL.
	Grace time.Duration
}

// FormatIdentifier runs a DROID-like format identification tool against
// batches of at most MaxFormatIdentifierBatch files, isolated in its own
// process group with a timeout-driven SIGTERM→SIGKILL shutdown.
type FormatIdentifier struct {
	cfg    FormatIdentifierConfig
	logger zerolog.Logger
}

// NewFormatIdentifier creates a FormatIdentifier.
func NewFormatIdentifier(cfg FormatIdentifierConfig) *FormatIdentifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.Grace <= 0 {
		cfg.Grace = 10 * time.Second
	}
	return &FormatIdentifier{cfg: cfg, logger: log.WithComponent("extract.format")}
}

// Name implements Capability.
func (f *FormatIdentifier) Name() string { return "FS" }

// Extract implements Capability. paths beyond MaxFormatIdentifierBatch
// are split into sequential sub-batches.
func (f *FormatIdentifier) Extract(ctx context.Context, paths []string, workspace string) (Result, error) {
	result := newResult()

	for start := 0; start < len(paths); start += MaxFormatIdentifierBatch {
		end := start + MaxFormatIdentifierBatch
		if end > len(paths) {
			end = len(paths)
		}
		batch := paths[start:end]

		args := append([]string{"-q", "-a", workspace}, batch...)
		out, err := runIsolated(ctx, f.cfg.Timeout, f.cfg.Grace, f.cfg.BinaryPath, args...)
		if err != nil {
			f.logger.Error().Err(err).Int("batch_start", start).Msg("format identification batch failed")
			continue
		}
		if err := f.parseCSV(out, &result); err != nil {
			f.logger.Error().Err(err).Msg("failed to parse format identification output")
		}
	}

	return result, nil
}

func (f *FormatIdentifier) parseCSV(out []byte, result *Result) error {
	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parse csv: %w", err)
	}

	for _, row := range rows {
		if len(row) == 0 || row[0] == droidColumns[0] {
			continue // header line
		}
		if len(row) < len(droidColumns) {
			continue
		}
		path := row[0]
		for i := 1; i < len(droidColumns); i++ {
			result.set(path, droidColumns[i], row[i])
		}
	}
	return nil
}
