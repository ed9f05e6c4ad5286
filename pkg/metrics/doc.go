/*
Package metrics provides Prometheus metrics collection and exposition for the
ingest pipeline.

The metrics package defines and registers every pipeline metric using the
Prometheus client library, giving observability into per-stage duration,
hashing/loading throughput, SPARQL query latency, and validation outcomes.
Metrics are exposed via an HTTP endpoint for scraping.

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│  Prometheus Registry (global DefaultRegistry)             │
	│    MustRegister at package init                          │
	│         │                                                 │
	│  FSWalker/HashWorker ─► paths/files/bytes counters        │
	│  StructureBuilder/Loader ─► quads/chunks/rows counters    │
	│  IntegrityChecker/Enricher/Validator ─► query histograms  │
	│  PipelineDriver ─► RecordStage, stage histogram           │
	│         │                                                 │
	│  HTTP handler: Handler() at /metrics (--metrics-listen)   │
	└────────────────────────────────────────────────────────────┘

Unlike a long-running service that samples live state on a ticker, this
pipeline runs to completion and exits, so there is no collector goroutine:
each stage reports its own outcome once, through RecordStage, as it finishes.

Timer is a thin wrapper for timing an operation and observing it into a
histogram, used the same way across every stage:

	timer := metrics.NewTimer()
	// ... do work ...
	timer.ObserveDurationVec(metrics.StageDuration, "hash", medium)
*/
package metrics
