package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build).
	Version = "dev"
	Commit  = "unknown"
)

const (
	exitSuccess      = 0
	exitError        = 1
	exitHashCorrupt  = 2
	exitUserInterrupt = 130
)

func main() {
	ctx, cancel := signalContext()
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func exitCodeFor(err error) int {
	if errors.Is(err, errHashCorrupt) {
		return exitHashCorrupt
	}
	if errors.Is(err, errUserInterrupt) || errors.Is(err, context.Canceled) {
		return exitUserInterrupt
	}
	return exitError
}

var rootCmd = &cobra.Command{
	Use:   "archivectl",
	Short: "Archivio Evangelisti ingest pipeline",
	Long: `archivectl walks a storage medium's filesystem, hashes and describes its
contents, loads the result into a SPARQL triple store, and enriches and
validates the resulting knowledge graph, per the Archivio Evangelisti
ingest pipeline.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("archivectl version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs (as JSON) to this file; pipeline runs default to a dated file in the workspace")
	rootCmd.PersistentFlags().String("config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().String("workspace", "./workspace", "Directory for intermediate stage artifacts (inventories, replay N-Quads, reports)")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(walkCmd)
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(integrityCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(pipelineCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")
	logFile, _ := rootCmd.PersistentFlags().GetString("log-file")

	if err := log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
		FilePath:   logFile,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; logging to console only\n", err)
	}
}
