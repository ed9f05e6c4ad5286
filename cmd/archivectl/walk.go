package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/events"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/walker"
	"github.com/spf13/cobra"
)

var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Traverse a medium's filesystem and record its entity tree",
	RunE:  runWalk,
}

func init() {
	addCommonFlags(walkCmd)
	walkCmd.Flags().String("root", "", "Absolute filesystem path of the medium's top folder (required)")
	_ = walkCmd.MarkFlagRequired("root")
}

func runWalk(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")
	root, _ := cmd.Flags().GetString("root")

	rootID, err := mediumRootID(medium)
	if err != nil {
		return err
	}

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	w := walker.New(walker.Config{Root: root, RootID: rootID, Medium: medium, Broker: broker})
	walkEvents, walkErrs := w.Walk()

	outPath, err := workspacePath(cmd, medium, "walk_events.json")
	if err != nil {
		return err
	}
	if err := writeJSONFile(outPath, walkEvents); err != nil {
		return err
	}

	if len(walkErrs) > 0 {
		errPath, err := workspacePath(cmd, medium, "walk_errors.json")
		if err != nil {
			return err
		}
		if err := writeJSONFile(errPath, walkErrs); err != nil {
			return err
		}
		fmt.Printf("walk completed with %d path errors (see %s)\n", len(walkErrs), errPath)
	}

	fmt.Printf("✓ walked %d entities from %s (root %s)\n", len(walkEvents), root, rootID)
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

// loadWalkEvents is shared by hash/structure/pipeline to read back the
// walk stage's output.
func loadWalkEvents(cmd *cobra.Command, medium string) ([]types.WalkEvent, error) {
	path, err := workspacePath(cmd, medium, "walk_events.json")
	if err != nil {
		return nil, err
	}
	var events []types.WalkEvent
	if err := readJSONFile(path, &events); err != nil {
		return nil, err
	}
	return events, nil
}
