package metrics

import "time"

// StageOutcome is the minimal view of a finished pipeline stage that the
// collector needs to record metrics for. pkg/driver's stage result type
// satisfies this without metrics importing driver (which would import
// metrics back for its own timers).
type StageOutcome struct {
	Stage    string
	Medium   string
	Success  bool
	Duration time.Duration
}

// RecordStage records a single finished stage's duration and outcome.
// Called by PipelineDriver once per stage, in place of a ticker-driven
// collector polling a live service: a batch pipeline has no steady state
// to sample, only a sequence of completed stages to record.
func RecordStage(o StageOutcome) {
	status := "ok"
	if !o.Success {
		status = "failed"
	}
	StageDuration.WithLabelValues(o.Stage, o.Medium).Observe(o.Duration.Seconds())
	StageRunsTotal.WithLabelValues(o.Stage, status).Inc()
}

// RecordQuads records n N-Quads produced by the named generating stage
// (StructureBuilder's single flush, MetadataOrchestrator's periodic
// flushes).
func RecordQuads(stage string, n int) {
	QuadsGeneratedTotal.WithLabelValues(stage).Add(float64(n))
}
