package main

import (
	"fmt"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/loader"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load an N-Quads file into the triple store",
	RunE:  runLoad,
}

func init() {
	addCommonFlags(loadCmd)
	loadCmd.Flags().String("file", "", "Path to the N-Quads file to load (required)")
	_ = loadCmd.MarkFlagRequired("file")
}

func runLoad(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")
	file, _ := cmd.Flags().GetString("file")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newStoreClient(cfg)
	if err != nil {
		return err
	}

	chunkThreshold, err := cfg.Int("store.chunk-threshold")
	if err != nil {
		return fmt.Errorf("parse store.chunk-threshold: %w", err)
	}

	if err := client.EnsureNamespace(cmd.Context()); err != nil {
		return fmt.Errorf("ensure namespace: %w", err)
	}

	l := loader.New(client, loader.Config{ChunkThreshold: int64(chunkThreshold)})
	report, err := l.LoadFile(cmd.Context(), file)
	if err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}

	fmt.Printf("✓ loaded %s for medium %s: %d/%d chunks, %d rows\n", file, medium, report.ChunksTotal-report.ChunksFailed, report.ChunksTotal, report.RowsLoaded)
	if !report.Success() {
		return fmt.Errorf("%d of %d chunks failed to load", report.ChunksFailed, report.ChunksTotal)
	}
	return nil
}
