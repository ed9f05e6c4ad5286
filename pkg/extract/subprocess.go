package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/rs/zerolog"
)

// runIsolated spawns name/args in its own process group and waits for
// completion or timeout. On timeout (or caller cancellation) it signals
// the whole group with SIGTERM, then SIGKILL if it hasn't exited within
// grace.
func runIsolated(ctx context.Context, timeout, grace time.Duration, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger := log.WithComponent("extract.subprocess")

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, stderr.String())
		}
		return stdout.Bytes(), nil

	case <-ctx.Done():
		forceStop(cmd, done, grace, logger)
		return stdout.Bytes(), ctx.Err()

	case <-timer.C:
		logger.Warn().Str("cmd", name).Dur("timeout", timeout).Msg("subprocess timed out, sending SIGTERM")
		forceStop(cmd, done, grace, logger)
		return stdout.Bytes(), fmt.Errorf("%s: timed out after %s", name, timeout)
	}
}

// forceStop signals the process group with SIGTERM, then SIGKILL if the
// process hasn't exited within grace. done must be the channel the
// caller's cmd.Wait() goroutine reports on; forceStop drains it so that
// goroutine never blocks forever.
func forceStop(cmd *exec.Cmd, done <-chan error, grace time.Duration, logger zerolog.Logger) {
	_ = signalGroup(cmd, syscall.SIGTERM)

	select {
	case <-done:
		return
	case <-time.After(grace):
	}

	logger.Warn().Msg("subprocess did not exit after SIGTERM, sending SIGKILL")
	_ = signalGroup(cmd, syscall.SIGKILL)
	<-done
}
