package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/config"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/spf13/cobra"
)

// errHashCorrupt and errUserInterrupt are sentinels mapped to exit codes
// 2 and 130 respectively
var (
	errHashCorrupt   = errors.New("hash corruption detected")
	errUserInterrupt = errors.New("interrupted")
)

// addCommonFlags attaches the per-tool-driver flags shared by every
// subcommand
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("medium", "", "Storage medium: floppy, hd, or hdexternal (required)")
	cmd.Flags().Bool("dry-run", false, "Skip the enrichment SPARQL updates, still writing the replay file; read by enrich and pipeline only, and pipeline's other stages still write to the store")
	cmd.Flags().Int("limit", 0, "Item cap; accepted but not read by any subcommand")
	cmd.Flags().Int("batch-size", 0, "Batch size override; accepted but not read by any subcommand")
	cmd.Flags().Int("page-size", 0, "Page size override; accepted but not read by any subcommand")
	cmd.Flags().Bool("export-nquads", false, "Replay N-Quads export switch; accepted but not read by any subcommand")
	cmd.Flags().String("target-graph", "", "Override the named graph the stage writes into")
	cmd.Flags().String("endpoint", "", "Override the triple store base URL")
	_ = cmd.MarkFlagRequired("medium")
}

// mediumRootID maps a --medium value to its well-known root container ID.
func mediumRootID(medium string) (string, error) {
	switch medium {
	case "hd":
		return types.RootHDInternal, nil
	case "hdexternal":
		return types.RootHDExternal, nil
	case "floppy":
		return types.RootFloppy, nil
	default:
		return "", fmt.Errorf("unknown medium %q: must be floppy, hd, or hdexternal", medium)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := rootCmd.PersistentFlags().GetString("config")
	overrides := map[string]string{}

	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		overrides["store.endpoint"] = endpoint
	}
	if targetGraph, _ := cmd.Flags().GetString("target-graph"); targetGraph != "" {
		overrides["enrich.target-graph"] = targetGraph
	}

	return config.Load(configPath, overrides)
}

// workspacePath returns <workspace>/<medium>/<name>, creating the medium
// subdirectory if it does not yet exist. Every stage's intermediate
// artifact (inventories, replay N-Quads, reports) lives under here.
func workspacePath(cmd *cobra.Command, medium, name string) (string, error) {
	workspace, _ := rootCmd.PersistentFlags().GetString("workspace")
	dir := filepath.Join(workspace, medium)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}

func newStoreClient(cfg *config.Config) (*storeclient.Client, error) {
	timeout, err := time.ParseDuration(cfg.String("store.timeout"))
	if err != nil {
		return nil, fmt.Errorf("parse store.timeout: %w", err)
	}
	return storeclient.New(storeclient.Config{
		BaseURL:   cfg.String("store.endpoint"),
		Namespace: cfg.String("store.namespace"),
		Timeout:   timeout,
	}), nil
}
