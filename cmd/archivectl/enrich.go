package main

import (
	"context"
	"fmt"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/config"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/enrich"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/sidecar"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/textgen"
	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the GraphEnricher derivation passes over a loaded medium",
	RunE:  runEnrich,
}

func init() {
	addCommonFlags(enrichCmd)
	enrichCmd.Flags().Bool("dates", true, "Run the creation/modification date linking passes")
	enrichCmd.Flags().Bool("titles", true, "Run the title generation pass")
	enrichCmd.Flags().Bool("duplicates", true, "Run the duplicate-hash clique linking pass")
	enrichCmd.Flags().Bool("type-sets", true, "Run the TechnicalMetadataTypeSet bootstrap and linking passes")
	enrichCmd.Flags().Bool("mime-classify", true, "Run the MIME-type rico:type classification pass")
	enrichCmd.Flags().Bool("works", false, "Run the Work linking pass (requires --work-table)")
	enrichCmd.Flags().String("work-table", "", "Path to the CSV Work table for the works pass")
	enrichCmd.Flags().Bool("descriptions", false, "Run the AI technical-description generation pass")
	enrichCmd.Flags().String("textgen-endpoint", "", "Override the text generation service base URL")
	enrichCmd.Flags().String("textgen-model", "", "Override the text generation model name")
	enrichCmd.Flags().String("data-dir", "./workspace/sidecar", "Directory holding the resumable sidecar database (for the descriptions pass)")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newStoreClient(cfg)
	if err != nil {
		return err
	}
	chunkSize, err := cfg.Int("enrich.chunk-size")
	if err != nil {
		return fmt.Errorf("parse enrich.chunk-size: %w", err)
	}

	replayPath, err := workspacePath(cmd, medium, "enrich_replay.nq")
	if err != nil {
		return err
	}

	enricher := enrich.New(client, enrich.Config{
		TargetGraph: cfg.String("enrich.target-graph"),
		ChunkSize:   chunkSize,
		ReplayPath:  replayPath,
		DryRun:      dryRun,
	})

	ctx := cmd.Context()
	summary := map[string]interface{}{}

	if run, _ := cmd.Flags().GetBool("duplicates"); run {
		result, err := enricher.LinkDuplicateHashes(ctx)
		if err != nil {
			return fmt.Errorf("link duplicate hashes: %w", err)
		}
		summary["duplicates"] = result
		fmt.Printf("duplicates: %+v\n", result)
	}

	if run, _ := cmd.Flags().GetBool("dates"); run {
		created, err := enricher.LinkCreationDates(ctx)
		if err != nil {
			return fmt.Errorf("link creation dates: %w", err)
		}
		modified, err := enricher.LinkModificationDates(ctx)
		if err != nil {
			return fmt.Errorf("link modification dates: %w", err)
		}
		summary["creation_dates"] = created
		summary["modification_dates"] = modified
		fmt.Printf("creation dates: %+v\nmodification dates: %+v\n", created, modified)
	}

	if run, _ := cmd.Flags().GetBool("titles"); run {
		result, err := enricher.GenerateTitles(ctx)
		if err != nil {
			return fmt.Errorf("generate titles: %w", err)
		}
		summary["titles"] = result
		fmt.Printf("titles: %+v\n", result)
	}

	if run, _ := cmd.Flags().GetBool("type-sets"); run {
		if err := enricher.BootstrapTypeSets(ctx); err != nil {
			return fmt.Errorf("bootstrap type sets: %w", err)
		}
		linked, err := enricher.LinkTypesToSets(ctx)
		if err != nil {
			return fmt.Errorf("link types to sets: %w", err)
		}
		equivalences, err := enricher.LinkEquivalences(ctx)
		if err != nil {
			return fmt.Errorf("link equivalences: %w", err)
		}
		summary["type_sets"] = linked
		summary["equivalences"] = equivalences
		fmt.Printf("type sets: %+v\nequivalences: %+v\n", linked, equivalences)
	}

	if run, _ := cmd.Flags().GetBool("mime-classify"); run {
		result, err := enricher.ClassifyMIMETypes(ctx)
		if err != nil {
			return fmt.Errorf("classify mime types: %w", err)
		}
		summary["mime_classification"] = result
		fmt.Printf("mime classification: %+v\n", result)
	}

	if run, _ := cmd.Flags().GetBool("works"); run {
		table, _ := cmd.Flags().GetString("work-table")
		if table == "" {
			return fmt.Errorf("--works requires --work-table")
		}
		rows, err := enrich.LoadWorkTable(table)
		if err != nil {
			return fmt.Errorf("load work table: %w", err)
		}
		result, err := enricher.LinkWorks(ctx, rows)
		if err != nil {
			return fmt.Errorf("link works: %w", err)
		}
		summary["works"] = result
		fmt.Printf("works: %+v\n", result)
	}

	if run, _ := cmd.Flags().GetBool("descriptions"); run {
		result, err := runDescriptions(cmd, ctx, enricher, cfg, medium)
		if err != nil {
			return err
		}
		summary["descriptions"] = result
		fmt.Printf("descriptions: %+v\n", result)
	}

	if err := enricher.Flush(); err != nil {
		return fmt.Errorf("flush replay buffer: %w", err)
	}

	outPath, err := workspacePath(cmd, medium, "enrich_summary.json")
	if err != nil {
		return err
	}
	if err := writeJSONFile(outPath, summary); err != nil {
		return err
	}

	fmt.Printf("✓ enrichment complete for %s (see %s)\n", medium, outPath)
	return nil
}

func runDescriptions(cmd *cobra.Command, ctx context.Context, enricher *enrich.Enricher, cfg *config.Config, medium string) (enrich.DescribeResult, error) {
	textgenEndpoint, _ := cmd.Flags().GetString("textgen-endpoint")
	textgenModel, _ := cmd.Flags().GetString("textgen-model")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	if textgenEndpoint == "" {
		textgenEndpoint = cfg.String("textgen.endpoint")
	}
	if textgenModel == "" {
		textgenModel = cfg.String("textgen.model")
	}

	store, err := sidecar.NewBoltStore(dataDir)
	if err != nil {
		return enrich.DescribeResult{}, fmt.Errorf("open sidecar store: %w", err)
	}
	defer store.Close()

	gen := textgen.New(textgen.Config{BaseURL: textgenEndpoint})

	return enricher.GenerateDescriptions(ctx, store, gen, enrich.DescribeConfig{
		Model:   textgenModel,
		RunKey:  medium + ".describe",
		Options: textgen.DefaultOptions,
	})
}
