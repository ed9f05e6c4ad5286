package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/structure"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/spf13/cobra"
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Build the archival structure graph from walk and hash output",
	RunE:  runStructure,
}

func init() {
	addCommonFlags(structureCmd)
	structureCmd.Flags().String("root", "", "Absolute filesystem path of the medium's top folder (required, for relative-path computation)")
	_ = structureCmd.MarkFlagRequired("root")
}

func mediumRootLabel(rootID string) string {
	switch rootID {
	case types.RootHDInternal:
		return types.RootHDInternalLabel
	case types.RootHDExternal:
		return types.RootHDExternalLabel
	case types.RootFloppy:
		return types.RootFloppyLabel
	default:
		return rootID
	}
}

func runStructure(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")
	root, _ := cmd.Flags().GetString("root")

	rootID, err := mediumRootID(medium)
	if err != nil {
		return err
	}

	walkEvents, err := loadWalkEvents(cmd, medium)
	if err != nil {
		return fmt.Errorf("load walk events (run 'archivectl walk' first): %w", err)
	}

	hashes := map[string]types.HashResult{}
	hashPath, err := workspacePath(cmd, medium, "hash_results.json")
	if err == nil {
		_ = readJSONFile(hashPath, &hashes) // absent results means no fixities yet
	}

	builder := structure.New(medium, rootID, time.Now())
	builder.BuildContainer(rootID)
	builder.BuildRoot(rootID, mediumRootLabel(rootID))

	for _, ev := range walkEvents {
		relPath, err := filepath.Rel(root, ev.Path)
		if err != nil {
			relPath = ev.Path
		}
		var hash *types.HashResult
		if h, ok := hashes[ev.Path]; ok {
			hash = &h
		}
		builder.BuildNode(ev, relPath, hash, ev.ID == rootID)
	}

	outPath, err := workspacePath(cmd, medium, "structure.nq")
	if err != nil {
		return err
	}
	n, err := builder.Writer().Flush(outPath)
	if err != nil {
		return fmt.Errorf("flush structure graph: %w", err)
	}

	fmt.Printf("✓ built structure graph for %s: %d quads written to %s\n", medium, n, outPath)
	return nil
}
