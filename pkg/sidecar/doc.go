/*
Package sidecar persists the resumable per-run state that MetadataOrchestrator
and GraphEnricher keep as they work through a medium: URI counters (so
restarting a run doesn't re-mint Software/TechnicalMetadata/Activity IRIs
already assigned) and the checkpoint (the set of instantiation entity IDs
MetadataOrchestrator has already processed).

	┌──────────────────── SIDECAR STORAGE ──────────────────────┐
	│                                                             │
	│  BoltStore (bbolt, one file per pipeline invocation)        │
	│    bucket "counters"   (run key -> Counters JSON)           │
	│    bucket "checkpoint" (run key -> Checkpoint JSON)         │
	│                     │                                       │
	│         ExportCountersJSON / ExportCheckpointJSON            │
	│                     ▼                                       │
	│   <run>_uri_counters.json   (external, spec-mandated file) │
	│   <run>_checkpoint.json                                     │
	│                     │                                       │
	│         ImportCountersJSON / ImportCheckpointJSON            │
	│                     ▼ (on restart after a crash)             │
	│              BoltStore (reloaded)                            │
	└───────────────────────────────────────────────────────────┘

The bbolt database is the source of truth and the only state the pipeline
reads and writes: MetadataOrchestrator and GraphEnricher resume from what
it holds for their run key. The JSON export functions write a snapshot
atomically (temp file + rename) and the import functions load one back,
but no pipeline stage calls them, so a run produces no JSON sidecar files.

Keys passed as "run" scope state to one medium/stage pair, e.g.
"hd1.extract" or "floppy3.enrich" — independent runs never share counters.
*/
package sidecar
