package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/events"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/metrics"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Kind classifies a Stage's effect on run outcome
type Kind string

const (
	// KindCritical stages must succeed; failure aborts remaining stages.
	KindCritical Kind = "critical"
	// KindVerification stages must also succeed; failure aborts remaining
	// stages, but the stage itself only checks, it does not mutate state.
	KindVerification Kind = "verification"
	// KindTolerant stages run to completion regardless of outcome; a
	// failure is recorded but does not abort the medium.
	KindTolerant Kind = "tolerant"
)

// Stage is one step of a medium's pipeline run.
type Stage struct {
	Name string
	Kind Kind
	Run  func(ctx context.Context) error
}

// Config configures a Driver run for one medium.
type Config struct {
	Medium      string // "floppy", "hd", "hdexternal"
	RootID      string
	BackupPath  string // when set, Run backs up the graph before stages
	ClearBefore bool
	// Backup, when set, is invoked before the ClearBefore reset (and before
	// the first stage) to serialize the current graph to BackupPath.
	Backup func(ctx context.Context, path string) error
}

// Driver sequences a medium's stages and produces a final Report.
type Driver struct {
	client *storeclient.Client
	cfg    Config
	broker *events.Broker
	logger zerolog.Logger
}

// New creates a Driver.
func New(client *storeclient.Client, cfg Config, broker *events.Broker) *Driver {
	return &Driver{
		client: client,
		cfg:    cfg,
		broker: broker,
		logger: log.WithComponent("driver").With().Str("medium", cfg.Medium).Logger(),
	}
}

// StageReport is one stage's outcome in the final Report.
type StageReport struct {
	Name       string        `json:"name"`
	Kind       Kind          `json:"kind"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	DurationMS float64       `json:"duration_ms"`
}

// Report is the per-medium run outcome
type Report struct {
	Medium   string        `json:"medium"`
	Success  bool          `json:"success"`
	Stages   []StageReport `json:"stages"`
	Aborted  bool          `json:"aborted"`
	AbortedAt string       `json:"aborted_at,omitempty"`
}

// Run executes stages in order, aborting on the first failed critical or
// verification stage. ClearBefore/Backup run before the first stage.
func (d *Driver) Run(ctx context.Context, stages []Stage) (*Report, error) {
	report := &Report{Medium: d.cfg.Medium, Success: true}

	if d.cfg.BackupPath != "" && d.cfg.Backup != nil {
		d.logger.Info().Str("path", d.cfg.BackupPath).Msg("backing up graph before run")
		if err := d.cfg.Backup(ctx, d.cfg.BackupPath); err != nil {
			return report, fmt.Errorf("pre-run backup: %w", err)
		}
	}
	if d.cfg.ClearBefore {
		d.logger.Info().Msg("clearing store before run")
		if err := d.client.ClearAll(ctx, "driver"); err != nil {
			return report, fmt.Errorf("pre-run clear: %w", err)
		}
	}

	for _, stage := range stages {
		stageReport := d.runStage(ctx, stage)
		report.Stages = append(report.Stages, stageReport)

		if !stageReport.Success {
			report.Success = false
			if stage.Kind == KindCritical || stage.Kind == KindVerification {
				report.Aborted = true
				report.AbortedAt = stage.Name
				break
			}
		}
	}

	return report, nil
}

func (d *Driver) runStage(ctx context.Context, stage Stage) StageReport {
	d.publish(events.EventStageStarted, stage.Name, "")

	timer := metrics.NewTimer()
	err := stage.Run(ctx)
	duration := timer.Duration()
	metrics.RecordStage(metrics.StageOutcome{
		Stage:    stage.Name,
		Medium:   d.cfg.Medium,
		Success:  err == nil,
		Duration: duration,
	})

	report := StageReport{
		Name:       stage.Name,
		Kind:       stage.Kind,
		Success:    err == nil,
		DurationMS: float64(duration.Microseconds()) / 1000.0,
	}

	if err != nil {
		report.Error = err.Error()
		d.logger.Error().Err(err).Str("stage", stage.Name).Msg("stage failed")
		d.publish(events.EventStageFailed, stage.Name, err.Error())
		return report
	}

	d.logger.Info().Str("stage", stage.Name).Dur("duration", duration).Msg("stage completed")
	d.publish(events.EventStageCompleted, stage.Name, "")
	return report
}

func (d *Driver) publish(eventType events.EventType, stageName, message string) {
	if d.broker == nil {
		return
	}
	d.broker.Publish(&events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Medium:    d.cfg.Medium,
		Message:   message,
		Metadata:  map[string]string{"stage": stageName},
	})
}
