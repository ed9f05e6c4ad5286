package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Walker metrics
	PathsVisitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_paths_visited_total",
			Help: "Total number of filesystem paths visited by FSWalker, by medium and kind",
		},
		[]string{"medium", "kind"},
	)

	PathErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_path_errors_total",
			Help: "Total number of filesystem paths that FSWalker could not read, by medium",
		},
		[]string{"medium"},
	)

	// Hashing metrics
	FilesHashedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_files_hashed_total",
			Help: "Total number of files hashed by HashWorker, by medium",
		},
		[]string{"medium"},
	)

	HashBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_hash_bytes_total",
			Help: "Total number of bytes read while hashing, by medium",
		},
		[]string{"medium"},
	)

	HashDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_hash_duration_seconds",
			Help:    "Time taken to hash a single file in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Structure / RDF generation metrics
	QuadsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_quads_generated_total",
			Help: "Total number of N-Quads generated, by stage",
		},
		[]string{"stage"},
	)

	// Loader metrics
	ChunksUploadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_chunks_uploaded_total",
			Help: "Total number of N-Quads chunks uploaded to the triple store, by status",
		},
		[]string{"status"},
	)

	ChunkUploadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_chunk_upload_duration_seconds",
			Help:    "Time taken to upload a single chunk of N-Quads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	RowsLoadedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_rows_loaded_total",
			Help: "Total number of quads successfully loaded into the triple store",
		},
	)

	// SPARQL query metrics, shared by IntegrityChecker, GraphEnricher, Validator
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_sparql_query_duration_seconds",
			Help:    "SPARQL query/update duration in seconds, by caller and query kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"caller", "kind"},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_sparql_queries_total",
			Help: "Total number of SPARQL queries issued, by caller and status",
		},
		[]string{"caller", "status"},
	)

	// Extractor metrics
	ExtractorDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_extractor_duration_seconds",
			Help:    "Time taken to run a single extraction capability in seconds, by capability",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"capability"},
	)

	ExtractorFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_extractor_failures_total",
			Help: "Total number of extraction capability invocations that failed, by capability",
		},
		[]string{"capability"},
	)

	// Enrichment metrics
	EnrichPassDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_enrich_pass_duration_seconds",
			Help:    "Time taken to run a single GraphEnricher pass in seconds, by pass name",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pass"},
	)

	LinksAssertedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_links_asserted_total",
			Help: "Total number of derived semantic links asserted, by pass name",
		},
		[]string{"pass"},
	)

	// Validator metrics
	ValidationChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_validation_checks_total",
			Help: "Total number of integrity/validation checks run, by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	ValidatorThrottleWaitSeconds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_validator_throttle_wait_seconds_total",
			Help: "Cumulative time the Validator spent waiting on its query-rate throttle",
		},
	)

	// Driver metrics
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_stage_duration_seconds",
			Help:    "Time taken to run a single pipeline stage in seconds, by stage and medium",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"stage", "medium"},
	)

	StageRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_stage_runs_total",
			Help: "Total number of pipeline stage runs, by stage and status",
		},
		[]string{"stage", "status"},
	)
)

func init() {
	// Register walker/hash metrics
	prometheus.MustRegister(PathsVisitedTotal)
	prometheus.MustRegister(PathErrorsTotal)
	prometheus.MustRegister(FilesHashedTotal)
	prometheus.MustRegister(HashBytesTotal)
	prometheus.MustRegister(HashDuration)

	// Register structure/loader metrics
	prometheus.MustRegister(QuadsGeneratedTotal)
	prometheus.MustRegister(ChunksUploadedTotal)
	prometheus.MustRegister(ChunkUploadDuration)
	prometheus.MustRegister(RowsLoadedTotal)

	// Register SPARQL metrics
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueriesTotal)

	// Register extractor/enrich metrics
	prometheus.MustRegister(ExtractorDuration)
	prometheus.MustRegister(ExtractorFailuresTotal)
	prometheus.MustRegister(EnrichPassDuration)
	prometheus.MustRegister(LinksAssertedTotal)

	// Register validator metrics
	prometheus.MustRegister(ValidationChecksTotal)
	prometheus.MustRegister(ValidatorThrottleWaitSeconds)

	// Register driver metrics
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(StageRunsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
