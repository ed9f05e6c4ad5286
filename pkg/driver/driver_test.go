package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AbortsOnCriticalStageFailure(t *testing.T) {
	d := New(nil, Config{Medium: "hd1"}, events.NewBroker())

	var ranThird bool
	stages := []Stage{
		{Name: "walk", Kind: KindCritical, Run: func(ctx context.Context) error { return nil }},
		{Name: "hash", Kind: KindCritical, Run: func(ctx context.Context) error { return errors.New("boom") }},
		{Name: "structure", Kind: KindCritical, Run: func(ctx context.Context) error { ranThird = true; return nil }},
	}

	report, err := d.Run(context.Background(), stages)
	require.NoError(t, err)

	assert.False(t, report.Success)
	assert.True(t, report.Aborted)
	assert.Equal(t, "hash", report.AbortedAt)
	assert.False(t, ranThird)
	assert.Len(t, report.Stages, 2)
}

func TestRun_ToleratesNonCriticalFailureAndContinues(t *testing.T) {
	d := New(nil, Config{Medium: "hd1"}, events.NewBroker())

	var ranLast bool
	stages := []Stage{
		{Name: "optional", Kind: KindTolerant, Run: func(ctx context.Context) error { return errors.New("meh") }},
		{Name: "final", Kind: KindCritical, Run: func(ctx context.Context) error { ranLast = true; return nil }},
	}

	report, err := d.Run(context.Background(), stages)
	require.NoError(t, err)

	assert.False(t, report.Success) // a tolerant failure still marks overall success false
	assert.False(t, report.Aborted)
	assert.True(t, ranLast)
	require.Len(t, report.Stages, 2)
	assert.False(t, report.Stages[0].Success)
	assert.True(t, report.Stages[1].Success)
}

func TestRun_AllStagesSucceed(t *testing.T) {
	d := New(nil, Config{Medium: "floppy1"}, events.NewBroker())

	stages := []Stage{
		{Name: "walk", Kind: KindCritical, Run: func(ctx context.Context) error { return nil }},
		{Name: "validate", Kind: KindVerification, Run: func(ctx context.Context) error { return nil }},
	}

	report, err := d.Run(context.Background(), stages)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.False(t, report.Aborted)
}
