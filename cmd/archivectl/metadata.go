package main

import (
	"fmt"
	"os"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/extract"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/sidecar"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/spf13/cobra"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Run FormatIdentifier, ContentExtractor, and MediaExtractor over a medium's records",
	RunE:  runMetadata,
}

func init() {
	addCommonFlags(metadataCmd)
	metadataCmd.Flags().String("format-binary", "droid", "Path to the format identification tool's executable")
	metadataCmd.Flags().String("media-binary", "exiftool", "Path to the media metadata tool's executable")
	metadataCmd.Flags().String("content-endpoint", "http://localhost:9998", "Base URL of the content extraction REST service")
	metadataCmd.Flags().String("content-start-command", "", "Command to auto-start the content extraction service if unreachable (empty disables auto-start)")
	metadataCmd.Flags().String("data-dir", "./workspace/sidecar", "Directory holding the resumable sidecar database")
}

func runMetadata(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")
	formatBinary, _ := cmd.Flags().GetString("format-binary")
	mediaBinary, _ := cmd.Flags().GetString("media-binary")
	contentEndpoint, _ := cmd.Flags().GetString("content-endpoint")
	contentStart, _ := cmd.Flags().GetString("content-start-command")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	chunkSize, err := cfg.Int("extract.chunk-size")
	if err != nil {
		return fmt.Errorf("parse extract.chunk-size: %w", err)
	}

	walkEvents, err := loadWalkEvents(cmd, medium)
	if err != nil {
		return fmt.Errorf("load walk events (run 'archivectl walk' first): %w", err)
	}

	var instantiations []extract.Instantiation
	for _, ev := range walkEvents {
		if ev.Kind == types.KindRecord {
			instantiations = append(instantiations, extract.Instantiation{
				EntityID: ev.ID,
				Path:     ev.Path,
			})
		}
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create sidecar data dir: %w", err)
	}
	store, err := sidecar.NewBoltStore(dataDir)
	if err != nil {
		return fmt.Errorf("open sidecar store: %w", err)
	}
	defer store.Close()

	workspace, err := workspacePath(cmd, medium, "extract-scratch")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return fmt.Errorf("create extract scratch dir: %w", err)
	}

	outputPaths := make(map[string]string, 3)
	for _, tool := range []string{"FS", "AT", "ET"} {
		p, err := workspacePath(cmd, medium, "metadata_"+tool+".nq")
		if err != nil {
			return err
		}
		outputPaths[tool] = p
	}

	graphByTool := map[string]string{
		"FS": rdf.MetadataGraphIRI("FS", medium),
		"AT": rdf.MetadataGraphIRI("AT", medium),
		"ET": rdf.MetadataGraphIRI("ET", medium),
	}

	contentExtractor := extract.NewContentExtractor(extract.ContentExtractorConfig{
		Endpoint:     contentEndpoint,
		StartCommand: splitCommand(contentStart),
	})
	if err := contentExtractor.EnsureRunning(cmd.Context()); err != nil {
		return fmt.Errorf("content extractor: %w", err)
	}

	capabilities := []extract.Capability{
		extract.NewFormatIdentifier(extract.FormatIdentifierConfig{BinaryPath: formatBinary}),
		contentExtractor,
		extract.NewMediaExtractor(extract.MediaExtractorConfig{BinaryPath: mediaBinary}),
	}

	orchestrator := extract.New(extract.Config{
		Medium:      medium,
		ChunkSize:   chunkSize,
		Workspace:   workspace,
		OutputPaths: outputPaths,
		RunKey:      medium + ".extract",
		GraphByTool: graphByTool,
	}, capabilities, store)

	if err := orchestrator.Run(cmd.Context(), instantiations); err != nil {
		return fmt.Errorf("run metadata orchestrator: %w", err)
	}

	fmt.Printf("✓ extracted technical metadata for %d records on %s, written to %s, %s, %s\n",
		len(instantiations), medium, outputPaths["FS"], outputPaths["AT"], outputPaths["ET"])
	return nil
}

func splitCommand(s string) []string {
	if s == "" {
		return nil
	}
	return []string{"/bin/sh", "-c", s}
}
