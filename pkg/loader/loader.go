package loader

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/metrics"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/rs/zerolog"
)

// DefaultChunkThreshold is the default split threshold
const DefaultChunkThreshold = 500 * 1024 * 1024

// scannerBufferSize bounds the longest single N-Quads line bufio.Scanner
// will accept; archival metadata lines (e.g. long extracted text values)
// can exceed the default 64 KiB.
const scannerBufferSize = 8 * 1024 * 1024

// Config configures a Loader.
type Config struct {
	// ChunkThreshold is the byte size above which an input file is split
	// into line-preserving chunks. Zero uses DefaultChunkThreshold.
	ChunkThreshold int64
}

// ChunkResult reports one chunk's upload outcome.
type ChunkResult struct {
	Index int
	Lines int
	Bytes int
	Err   error
}

// Report is NQuadsLoader's result for a single input file, including
// partial success when only some chunks uploaded.
type Report struct {
	Path         string
	ChunksTotal  int
	ChunksFailed int
	RowsLoaded   int
	Chunks       []ChunkResult
}

// Success reports whether every chunk of the file loaded without error.
func (r Report) Success() bool { return r.ChunksFailed == 0 }

// Loader uploads N-Quads files to the triple store, splitting oversized
// files on line boundaries and uploading chunks strictly serially (one
// POST at a time per medium, to avoid server-side contention).
type Loader struct {
	client *storeclient.Client
	cfg    Config
	logger zerolog.Logger
}

// New creates a Loader on top of an already-configured storeclient.Client.
func New(client *storeclient.Client, cfg Config) *Loader {
	if cfg.ChunkThreshold <= 0 {
		cfg.ChunkThreshold = DefaultChunkThreshold
	}
	return &Loader{client: client, cfg: cfg, logger: log.WithComponent("loader")}
}

// LoadFile splits path into chunks under the configured threshold and
// uploads each sequentially. One chunk's HTTP ≥ 400 failure is recorded
// and the loader continues with the remaining chunks.
func (l *Loader) LoadFile(ctx context.Context, path string) (Report, error) {
	report := Report{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return report, fmt.Errorf("open n-quads file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), scannerBufferSize)

	var chunk []byte
	var chunkLines int
	index := 0

	flush := func() {
		if len(chunk) == 0 {
			return
		}
		result := l.uploadChunk(ctx, index, chunk, chunkLines)
		report.ChunksTotal++
		report.Chunks = append(report.Chunks, result)
		if result.Err != nil {
			report.ChunksFailed++
		} else {
			report.RowsLoaded += chunkLines
		}
		index++
		chunk = chunk[:0]
		chunkLines = 0
	}

	for scanner.Scan() {
		line := scanner.Bytes()
		if int64(len(chunk)+len(line)+1) > l.cfg.ChunkThreshold && len(chunk) > 0 {
			flush()
		}
		chunk = append(chunk, line...)
		chunk = append(chunk, '\n')
		chunkLines++
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("scan n-quads file %s: %w", path, err)
	}
	flush()

	metrics.RowsLoadedTotal.Add(float64(report.RowsLoaded))
	return report, nil
}

func (l *Loader) uploadChunk(ctx context.Context, index int, data []byte, lines int) ChunkResult {
	buf := make([]byte, len(data))
	copy(buf, data)

	err := l.client.LoadQuads(ctx, buf)
	if err != nil {
		l.logger.Error().Int("chunk", index).Int("lines", lines).Err(err).Msg("chunk upload failed")
		return ChunkResult{Index: index, Lines: lines, Bytes: len(buf), Err: err}
	}
	l.logger.Info().Int("chunk", index).Int("lines", lines).Msg("chunk uploaded")
	return ChunkResult{Index: index, Lines: lines, Bytes: len(buf)}
}
