package hashworker

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/metrics"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/rs/zerolog"
)

const blockSize = 8 * 1024

// inventory is the on-disk shape of the hash inventory
type inventory struct {
	FileHashes []inventoryEntry `json:"file_hashes"`
}

type inventoryEntry struct {
	Path     string `json:"path"`
	SHA256   string `json:"sha256,omitempty"`
	Size     int64  `json:"size"`
	Modified string `json:"modified,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Config configures a single hashing pass over a set of paths.
type Config struct {
	// Medium labels metrics and log lines ("hd1", "hd2", "floppy").
	Medium string
	// Workers bounds the worker pool size; zero means min(4, NumCPU).
	Workers int
}

// Hasher streams file contents into SHA-256 hashes using a bounded worker
// pool, resumable against a prior inventory.
type Hasher struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates a Hasher.
func New(cfg Config) *Hasher {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
		if cfg.Workers > 4 {
			cfg.Workers = 4
		}
	}
	return &Hasher{
		cfg:    cfg,
		logger: log.WithComponent("hashworker").With().Str("medium", cfg.Medium).Logger(),
	}
}

// Run hashes every path in paths, reusing results from a prior inventory
// at inventoryPath when a path's size+mtime are unchanged, then
// atomically rewrites inventoryPath with the merged result.
//
// Returns the per-path results keyed by absolute path and the list of
// paths that failed to hash.
func (h *Hasher) Run(paths []string, inventoryPath string) (map[string]types.HashResult, []types.HashError) {
	prior := h.loadPrior(inventoryPath)

	type job struct {
		path string
	}
	type result struct {
		res types.HashResult
		err *types.HashError
	}

	jobs := make(chan job, len(paths))
	results := make(chan result, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < h.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- h.hashOne(j.path, prior)
			}
		}()
	}

	for _, p := range paths {
		jobs <- job{path: p}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	hashes := make(map[string]types.HashResult, len(paths))
	var errs []types.HashError
	for r := range results {
		if r.err != nil {
			errs = append(errs, *r.err)
			continue
		}
		hashes[r.res.Path] = r.res
	}

	if err := h.persist(inventoryPath, hashes, errs); err != nil {
		h.logger.Error().Err(err).Msg("failed to persist hash inventory")
	}

	return hashes, errs
}

// hashOne hashes a single path, reusing the prior result if size and mtime
// are unchanged.
func (h *Hasher) hashOne(path string, prior map[string]types.HashResult) (r struct {
	res types.HashResult
	err *types.HashError
}) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		r.err = &types.HashError{Path: path, Error: statErr.Error()}
		return r
	}

	if prev, ok := prior[path]; ok && prev.Size == info.Size() && prev.MTime.Equal(info.ModTime()) {
		r.res = prev
		return r
	}

	timer := metrics.NewTimer()
	sum, size, err := sumFile(path)
	timer.ObserveDuration(metrics.HashDuration)
	if err != nil {
		r.err = &types.HashError{Path: path, Error: err.Error()}
		return r
	}

	metrics.FilesHashedTotal.WithLabelValues(h.cfg.Medium).Inc()
	metrics.HashBytesTotal.WithLabelValues(h.cfg.Medium).Add(float64(size))

	r.res = types.HashResult{Path: path, SHA256: sum, Size: size, MTime: info.ModTime()}
	return r
}

func sumFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	buf := make([]byte, blockSize)
	size, err := io.CopyBuffer(hasher, f, buf)
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), size, nil
}

// loadPrior reads a prior inventory file, if any, keyed by path. A missing
// or unparseable file yields an empty map rather than an error: hashing
// simply proceeds as a cold run.
func (h *Hasher) loadPrior(path string) map[string]types.HashResult {
	prior := map[string]types.HashResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		return prior
	}

	var inv inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		h.logger.Warn().Err(err).Str("path", path).Msg("ignoring unparseable prior hash inventory")
		return prior
	}

	for _, e := range inv.FileHashes {
		if e.Error != "" || e.SHA256 == "" {
			continue
		}
		mtime, err := time.Parse(time.RFC3339, e.Modified)
		if err != nil {
			continue
		}
		prior[e.Path] = types.HashResult{Path: e.Path, SHA256: e.SHA256, Size: e.Size, MTime: mtime}
	}
	return prior
}

// persist atomically rewrites inventoryPath with hashes and errs.
func (h *Hasher) persist(inventoryPath string, hashes map[string]types.HashResult, errs []types.HashError) error {
	inv := inventory{FileHashes: make([]inventoryEntry, 0, len(hashes)+len(errs))}
	for _, r := range hashes {
		inv.FileHashes = append(inv.FileHashes, inventoryEntry{
			Path:     r.Path,
			SHA256:   r.SHA256,
			Size:     r.Size,
			Modified: r.MTime.Format(time.RFC3339Nano),
		})
	}
	for _, e := range errs {
		inv.FileHashes = append(inv.FileHashes, inventoryEntry{Path: e.Path, Error: e.Error})
	}

	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return err
	}

	tmp := inventoryPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp hash inventory: %w", err)
	}
	return os.Rename(tmp, inventoryPath)
}
