package sidecar

import "time"

// Counters mirrors the per-run URI counter sidecar: the running count of
// each URI-minting scheme MetadataOrchestrator and GraphEnricher use plus
// the label→IRI caches that let them reuse a Software or TechnicalMetadata
// node already minted in a previous checkpoint instead of creating a
// duplicate on resume.
type Counters struct {
	SoftwareCounter          int               `json:"software_counter"`
	ActivityCounter          int               `json:"activity_counter"`
	AITextCounter            int               `json:"ai_text_counter"`
	SoftwareCache            map[string]string `json:"software_cache"`
	ModelDocumentationCache  map[string]string `json:"model_documentation_cache"`
}

// NewCounters returns a zeroed Counters with initialized caches.
func NewCounters() *Counters {
	return &Counters{
		SoftwareCache:           make(map[string]string),
		ModelDocumentationCache: make(map[string]string),
	}
}

// Checkpoint is the set of instantiation entity IDs already processed in a
// run; MetadataOrchestrator is its only user.
type Checkpoint struct {
	ProcessedInstantiations []string  `json:"processed_instantiations"`
	LastUpdated             time.Time `json:"last_updated"`
}

// Store is the interface for resumable per-run sidecar state. A run key
// scopes state to one medium/stage invocation (e.g. "hd1.extract",
// "floppy3.enrich") so independent runs never share counters.
type Store interface {
	// GetCounters loads the counters for a run, returning a fresh
	// Counters if none have been checkpointed yet.
	GetCounters(run string) (*Counters, error)
	// SaveCounters atomically replaces the stored counters for a run.
	SaveCounters(run string, c *Counters) error

	// GetCheckpoint loads the checkpoint for a run, returning an empty
	// Checkpoint if none has been saved yet.
	GetCheckpoint(run string) (*Checkpoint, error)
	// SaveCheckpoint atomically replaces the stored checkpoint for a run.
	SaveCheckpoint(run string, cp *Checkpoint) error

	// ExportCountersJSON snapshots a run's counters to the canonical
	// "<run>_uri_counters.json" sidecar via temp-file-plus-rename.
	ExportCountersJSON(run, path string) error
	// ExportCheckpointJSON snapshots a run's checkpoint to a JSON file
	// via temp-file-plus-rename.
	ExportCheckpointJSON(run, path string) error

	// ImportCountersJSON loads a previously exported counters file back
	// into the store, used to resume a run after a crash.
	ImportCountersJSON(run, path string) error
	// ImportCheckpointJSON loads a previously exported checkpoint file
	// back into the store.
	ImportCheckpointJSON(run, path string) error

	Close() error
}
