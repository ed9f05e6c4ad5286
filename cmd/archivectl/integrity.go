package main

import (
	"fmt"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/integrity"
	"github.com/spf13/cobra"
)

var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Verify the loaded graph against on-disk inventories",
}

var integrityCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Compare directory file/subdirectory counts between the graph and a JSON inventory",
	RunE:  runIntegrityCount,
}

var integrityHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compare per-file SHA-256 between the graph and a JSON hash inventory",
	RunE:  runIntegrityHash,
}

func init() {
	addCommonFlags(integrityCountCmd)
	integrityCountCmd.Flags().String("graph", "", "Named graph IRI holding the loaded structure (required)")
	integrityCountCmd.Flags().String("base-path", "", "Absolute path prefix to reconstruct entries' original locations (required)")
	integrityCountCmd.Flags().String("inventory", "", "Path to the JSON count inventory (required)")
	_ = integrityCountCmd.MarkFlagRequired("graph")
	_ = integrityCountCmd.MarkFlagRequired("base-path")
	_ = integrityCountCmd.MarkFlagRequired("inventory")

	addCommonFlags(integrityHashCmd)
	integrityHashCmd.Flags().String("graph", "", "Named graph IRI holding the loaded structure (required)")
	integrityHashCmd.Flags().String("base-path", "", "Absolute path prefix to reconstruct entries' original locations (required)")
	integrityHashCmd.Flags().String("inventory", "", "Path to the JSON hash inventory produced by 'archivectl hash' (required)")
	_ = integrityHashCmd.MarkFlagRequired("graph")
	_ = integrityHashCmd.MarkFlagRequired("base-path")
	_ = integrityHashCmd.MarkFlagRequired("inventory")

	integrityCmd.AddCommand(integrityCountCmd, integrityHashCmd)
}

func runIntegrityCount(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")
	graph, _ := cmd.Flags().GetString("graph")
	basePath, _ := cmd.Flags().GetString("base-path")
	inventory, _ := cmd.Flags().GetString("inventory")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newStoreClient(cfg)
	if err != nil {
		return err
	}

	checker := integrity.New(client)
	result, err := checker.CountCheck(cmd.Context(), graph, basePath, inventory)
	if err != nil {
		return fmt.Errorf("count check: %w", err)
	}

	outPath, err := workspacePath(cmd, medium, "integrity_count.json")
	if err != nil {
		return err
	}
	if err := writeJSONFile(outPath, result); err != nil {
		return err
	}

	if result.Success() {
		fmt.Printf("✓ count check passed for %s\n", medium)
		return nil
	}
	fmt.Printf("count check found %d missing directories and %d mismatches (see %s)\n", len(result.Missing), len(result.Mismatched), outPath)
	return fmt.Errorf("count check failed for %s", medium)
}

func runIntegrityHash(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")
	graph, _ := cmd.Flags().GetString("graph")
	basePath, _ := cmd.Flags().GetString("base-path")
	inventory, _ := cmd.Flags().GetString("inventory")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newStoreClient(cfg)
	if err != nil {
		return err
	}

	checker := integrity.New(client)
	result, err := checker.HashCheck(cmd.Context(), graph, basePath, inventory)
	if err != nil {
		return fmt.Errorf("hash check: %w", err)
	}

	outPath, err := workspacePath(cmd, medium, "integrity_hash.json")
	if err != nil {
		return err
	}
	if err := writeJSONFile(outPath, result); err != nil {
		return err
	}

	fmt.Printf("hash check: %d exact, %d json-only, %d graph-only, %d mismatched (see %s)\n",
		len(result.ExactMatches), len(result.JSONOnly), len(result.GraphOnly), len(result.Mismatches), outPath)

	if len(result.Mismatches) > 0 {
		return fmt.Errorf("%w: %d files", errHashCorrupt, len(result.Mismatches))
	}
	if !result.Success() {
		return fmt.Errorf("hash check incomplete for %s", medium)
	}
	fmt.Printf("✓ hash check passed for %s\n", medium)
	return nil
}
