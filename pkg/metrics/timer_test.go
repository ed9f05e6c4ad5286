package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTimer_DurationGrows(t *testing.T) {
	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)

	d := timer.Duration()
	assert.GreaterOrEqual(t, d, 10*time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	assert.Greater(t, timer.Duration(), d)
}

func TestTimer_ObserveDuration(t *testing.T) {
	hist := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "test_observe_seconds"})

	timer := NewTimer()
	timer.ObserveDuration(hist)

	assert.Equal(t, 1, testutil.CollectAndCount(hist))
}

func TestTimer_ObserveDurationVec(t *testing.T) {
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_observe_vec_seconds"}, []string{"stage"})

	timer := NewTimer()
	timer.ObserveDurationVec(vec, "hash")

	// Only the observed label combination materializes.
	assert.Equal(t, 1, testutil.CollectAndCount(vec))
}

func TestRecordStage_CountsByOutcome(t *testing.T) {
	okBefore := testutil.ToFloat64(StageRunsTotal.WithLabelValues("walk", "ok"))
	failedBefore := testutil.ToFloat64(StageRunsTotal.WithLabelValues("walk", "failed"))

	RecordStage(StageOutcome{Stage: "walk", Medium: "floppy", Success: true, Duration: time.Second})
	RecordStage(StageOutcome{Stage: "walk", Medium: "floppy", Success: false, Duration: time.Second})

	assert.Equal(t, okBefore+1, testutil.ToFloat64(StageRunsTotal.WithLabelValues("walk", "ok")))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(StageRunsTotal.WithLabelValues("walk", "failed")))
}

func TestRecordQuads_AddsToStageCounter(t *testing.T) {
	before := testutil.ToFloat64(QuadsGeneratedTotal.WithLabelValues("structure"))

	RecordQuads("structure", 42)

	assert.Equal(t, before+42, testutil.ToFloat64(QuadsGeneratedTotal.WithLabelValues("structure")))
}
