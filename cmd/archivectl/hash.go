package main

import (
	"fmt"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/hashworker"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compute SHA-256 for every Record discovered by walk",
	RunE:  runHash,
}

func init() {
	addCommonFlags(hashCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	workers, err := cfg.Int("hash.workers")
	if err != nil {
		return fmt.Errorf("parse hash.workers: %w", err)
	}

	walkEvents, err := loadWalkEvents(cmd, medium)
	if err != nil {
		return fmt.Errorf("load walk events (run 'archivectl walk' first): %w", err)
	}

	var paths []string
	for _, ev := range walkEvents {
		if ev.Kind == types.KindRecord {
			paths = append(paths, ev.Path)
		}
	}

	hasher := hashworker.New(hashworker.Config{Medium: medium, Workers: workers})
	inventoryPath, err := workspacePath(cmd, medium, "hash_inventory.json")
	if err != nil {
		return err
	}

	results, hashErrs := hasher.Run(paths, inventoryPath)

	resultsPath, err := workspacePath(cmd, medium, "hash_results.json")
	if err != nil {
		return err
	}
	if err := writeJSONFile(resultsPath, results); err != nil {
		return err
	}

	if len(hashErrs) > 0 {
		errPath, err := workspacePath(cmd, medium, "hash_errors.json")
		if err != nil {
			return err
		}
		if err := writeJSONFile(errPath, hashErrs); err != nil {
			return err
		}
		fmt.Printf("hash completed with %d errors (see %s)\n", len(hashErrs), errPath)
	}

	fmt.Printf("✓ hashed %d files for medium %s\n", len(results), medium)
	return nil
}
