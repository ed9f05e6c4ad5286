package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/config"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/driver"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/enrich"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/events"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/extract"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/hashworker"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/integrity"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/loader"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/metrics"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/sidecar"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/structure"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/textgen"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/validate"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/walker"
	"github.com/spf13/cobra"
)

// pipelineCmd runs the full per-medium PipelineDriver sequence:
// FSWalker ⇒ HashWorker ⇒ StructureBuilder ⇒ NQuadsLoader ⇒
// IntegrityChecker (count+hash) ⇒ MetadataOrchestrator ⇒ NQuadsLoader ⇒
// HashWorker (re-run) ⇒ post-metadata hash-consistency check ⇒
// GraphEnricher ⇒ Validator. Stage implementations call the same library
// packages the per-stage subcommands call; pipeline.go only sequences
// them through pkg/driver so a single invocation drives one medium
// end-to-end.
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full ingest pipeline for one medium (walk through validate)",
	RunE:  runPipeline,
}

func init() {
	addCommonFlags(pipelineCmd)
	pipelineCmd.Flags().String("root", "", "Absolute filesystem path of the medium's top folder (required)")
	pipelineCmd.Flags().Bool("clear-before", false, "Issue CLEAR ALL against the store before running")
	pipelineCmd.Flags().Bool("backup-before", false, "Back up the current graph to a dated N-Quads file before running")
	pipelineCmd.Flags().String("format-binary", "droid", "Path to the format identification tool's executable")
	pipelineCmd.Flags().String("media-binary", "exiftool", "Path to the media metadata tool's executable")
	pipelineCmd.Flags().String("content-endpoint", "http://localhost:9998", "Base URL of the content extraction REST service")
	pipelineCmd.Flags().String("content-start-command", "", "Command to auto-start the content extraction service if unreachable")
	pipelineCmd.Flags().String("count-inventory", "", "Path to the JSON count inventory for the count check (skipped if empty)")
	pipelineCmd.Flags().Bool("enrich-descriptions", false, "Include the AI technical-description generation pass")
	pipelineCmd.Flags().String("work-table", "", "Path to the CSV Work table for the works linking pass (skipped if empty)")
	pipelineCmd.Flags().String("textgen-endpoint", "", "Override the text generation service base URL")
	pipelineCmd.Flags().String("textgen-model", "", "Override the text generation model name")
	pipelineCmd.Flags().String("data-dir", "./workspace/sidecar", "Directory holding the resumable sidecar database")
	pipelineCmd.Flags().String("metrics-listen", "", "Address to serve Prometheus metrics on during the run (e.g. :9090, disabled if empty)")
	_ = pipelineCmd.MarkFlagRequired("root")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")
	root, _ := cmd.Flags().GetString("root")
	clearBefore, _ := cmd.Flags().GetBool("clear-before")
	backupBefore, _ := cmd.Flags().GetBool("backup-before")

	rootID, err := mediumRootID(medium)
	if err != nil {
		return err
	}

	if addr, _ := cmd.Flags().GetString("metrics-listen"); addr != "" {
		go serveMetrics(addr)
	}

	// Each pipeline run leaves a dated log file unless the operator named
	// one explicitly.
	if logPath, _ := rootCmd.PersistentFlags().GetString("log-file"); logPath == "" {
		logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
		logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")
		datedPath, err := workspacePath(cmd, medium, fmt.Sprintf("pipeline_%s.log", time.Now().UTC().Format("20060102T150405Z")))
		if err != nil {
			return err
		}
		if err := log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: logJSON, FilePath: datedPath}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v; logging to console only\n", err)
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newStoreClient(cfg)
	if err != nil {
		return err
	}
	if err := client.EnsureNamespace(cmd.Context()); err != nil {
		return fmt.Errorf("ensure namespace: %w", err)
	}

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	structureGraph := rdf.StructureGraphIRI(rootID)

	var backupPath string
	var backupFn func(context.Context, string) error
	if backupBefore {
		backupPath, err = workspacePath(cmd, medium, fmt.Sprintf("backup_%s.nq", time.Now().UTC().Format("20060102T150405Z")))
		if err != nil {
			return err
		}
		backupFn = func(ctx context.Context, path string) error {
			return backupGraph(ctx, client, path)
		}
	}

	d := driver.New(client, driver.Config{
		Medium:      medium,
		RootID:      rootID,
		BackupPath:  backupPath,
		ClearBefore: clearBefore,
		Backup:      backupFn,
	}, broker)

	var walkEvents []types.WalkEvent
	var preHashes map[string]types.HashResult

	stages := []driver.Stage{
		{Name: "walk", Kind: driver.KindCritical, Run: func(ctx context.Context) error {
			evs, walkErrs, err := stageWalk(cmd, medium, root, rootID, broker)
			if err != nil {
				return err
			}
			if len(walkErrs) > 0 {
				fmt.Printf("walk completed with %d path errors\n", len(walkErrs))
			}
			walkEvents = evs
			return nil
		}},
		{Name: "hash", Kind: driver.KindCritical, Run: func(ctx context.Context) error {
			hashes, hashErrs, err := stageHash(cmd, cfg, medium, walkEvents)
			if err != nil {
				return err
			}
			if len(hashErrs) > 0 {
				fmt.Printf("hash completed with %d errors\n", len(hashErrs))
			}
			preHashes = hashes
			return nil
		}},
		{Name: "structure", Kind: driver.KindCritical, Run: func(ctx context.Context) error {
			return stageStructure(cmd, medium, root, rootID, walkEvents, preHashes)
		}},
		{Name: "structure_load", Kind: driver.KindCritical, Run: func(ctx context.Context) error {
			path, err := workspacePath(cmd, medium, "structure.nq")
			if err != nil {
				return err
			}
			return stageLoad(cmd, cfg, client, medium, path)
		}},
		{Name: "count_check", Kind: driver.KindVerification, Run: func(ctx context.Context) error {
			inventory, _ := cmd.Flags().GetString("count-inventory")
			if inventory == "" {
				return nil
			}
			return stageCountCheck(cmd, client, medium, root, structureGraph, inventory)
		}},
		{Name: "hash_check", Kind: driver.KindVerification, Run: func(ctx context.Context) error {
			inventoryPath, err := workspacePath(cmd, medium, "hash_inventory.json")
			if err != nil {
				return err
			}
			return stageHashCheck(cmd, client, medium, root, structureGraph, inventoryPath)
		}},
		{Name: "metadata_extraction", Kind: driver.KindCritical, Run: func(ctx context.Context) error {
			return stageMetadata(cmd, cfg, medium, walkEvents)
		}},
		{Name: "metadata_load", Kind: driver.KindCritical, Run: func(ctx context.Context) error {
			for _, tool := range []string{"FS", "AT", "ET"} {
				path, err := workspacePath(cmd, medium, "metadata_"+tool+".nq")
				if err != nil {
					return err
				}
				if err := stageLoad(cmd, cfg, client, medium, path); err != nil {
					return fmt.Errorf("load %s metadata: %w", tool, err)
				}
			}
			return nil
		}},
		{Name: "post_metadata_hash", Kind: driver.KindVerification, Run: func(ctx context.Context) error {
			postHashes, hashErrs, err := stageHash(cmd, cfg, medium, walkEvents)
			if err != nil {
				return err
			}
			if len(hashErrs) > 0 {
				fmt.Printf("post-metadata hash completed with %d errors\n", len(hashErrs))
			}
			return diffHashInventories(preHashes, postHashes)
		}},
		{Name: "enrich", Kind: driver.KindTolerant, Run: func(ctx context.Context) error {
			return stageEnrich(cmd, cfg, client, medium)
		}},
		{Name: "validate", Kind: driver.KindTolerant, Run: func(ctx context.Context) error {
			return stageValidate(cmd, cfg, client, medium)
		}},
	}

	report, err := d.Run(cmd.Context(), stages)
	if err != nil {
		return err
	}

	reportPath, err := workspacePath(cmd, medium, "pipeline_report.json")
	if err != nil {
		return err
	}
	if err := writeJSONFile(reportPath, report); err != nil {
		return err
	}

	for _, s := range report.Stages {
		status := "ok"
		if !s.Success {
			status = "FAILED: " + s.Error
		}
		fmt.Printf("  [%-20s] %-12s %s (%.0fms)\n", s.Name, s.Kind, status, s.DurationMS)
	}

	if report.Aborted {
		return fmt.Errorf("pipeline aborted at stage %q for medium %s (see %s)", report.AbortedAt, medium, reportPath)
	}
	if !report.Success {
		return fmt.Errorf("pipeline completed with failures for medium %s (see %s)", medium, reportPath)
	}
	fmt.Printf("✓ pipeline complete for medium %s (see %s)\n", medium, reportPath)
	return nil
}

// serveMetrics exposes the Prometheus registry at /metrics for the
// duration of the run. Errors are logged, not fatal: a busy port must not
// stop an ingest.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	logger := log.WithComponent("metrics")
	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics listener stopped")
	}
}

// backupGraph serializes the whole graph (default plus named graphs) to
// an N-Quads file via a CONSTRUCT over both.
func backupGraph(ctx context.Context, client *storeclient.Client, path string) error {
	const sparql = `CONSTRUCT { ?s ?p ?o } WHERE { { ?s ?p ?o } UNION { GRAPH ?g { ?s ?p ?o } } }`
	result, err := client.Query(ctx, "driver", "construct", sparql)
	if err != nil {
		return fmt.Errorf("backup construct: %w", err)
	}
	if err := os.WriteFile(path, result.Body, 0o644); err != nil {
		return fmt.Errorf("write backup file %s: %w", path, err)
	}
	return nil
}

func stageWalk(cmd *cobra.Command, medium, root, rootID string, broker *events.Broker) ([]types.WalkEvent, []types.HashError, error) {
	w := walker.New(walker.Config{Root: root, RootID: rootID, Medium: medium, Broker: broker})
	evs, errs := w.Walk()

	outPath, err := workspacePath(cmd, medium, "walk_events.json")
	if err != nil {
		return nil, nil, err
	}
	if err := writeJSONFile(outPath, evs); err != nil {
		return nil, nil, err
	}
	if len(errs) > 0 {
		errPath, err := workspacePath(cmd, medium, "walk_errors.json")
		if err != nil {
			return nil, nil, err
		}
		if err := writeJSONFile(errPath, errs); err != nil {
			return nil, nil, err
		}
	}
	return evs, errs, nil
}

func stageHash(cmd *cobra.Command, cfg *config.Config, medium string, walkEvents []types.WalkEvent) (map[string]types.HashResult, []types.HashError, error) {
	workers, err := cfg.Int("hash.workers")
	if err != nil {
		return nil, nil, fmt.Errorf("parse hash.workers: %w", err)
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
		return nil, nil, err
	}

	results, hashErrs := hasher.Run(paths, inventoryPath)

	resultsPath, err := workspacePath(cmd, medium, "hash_results.json")
	if err != nil {
		return nil, nil, err
	}
	if err := writeJSONFile(resultsPath, results); err != nil {
		return nil, nil, err
	}
	return results, hashErrs, nil
}

func stageStructure(cmd *cobra.Command, medium, root, rootID string, walkEvents []types.WalkEvent, hashes map[string]types.HashResult) error {
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
	metrics.RecordQuads("structure", n)
	fmt.Printf("structure: %d quads written to %s\n", n, outPath)
	return nil
}

func stageLoad(cmd *cobra.Command, cfg *config.Config, client *storeclient.Client, medium, filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("stat %s: %w", filePath, err)
	}
	chunkThreshold, err := cfg.Int("store.chunk-threshold")
	if err != nil {
		return fmt.Errorf("parse store.chunk-threshold: %w", err)
	}

	l := loader.New(client, loader.Config{ChunkThreshold: int64(chunkThreshold)})
	report, err := l.LoadFile(cmd.Context(), filePath)
	if err != nil {
		return fmt.Errorf("load %s: %w", filePath, err)
	}
	fmt.Printf("load %s: %d/%d chunks, %d rows\n", filePath, report.ChunksTotal-report.ChunksFailed, report.ChunksTotal, report.RowsLoaded)
	if !report.Success() {
		return fmt.Errorf("%d of %d chunks failed to load %s", report.ChunksFailed, report.ChunksTotal, filePath)
	}
	return nil
}

func stageCountCheck(cmd *cobra.Command, client *storeclient.Client, medium, root, graph, inventoryPath string) error {
	checker := integrity.New(client)
	result, err := checker.CountCheck(cmd.Context(), graph, root, inventoryPath)
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
	if !result.Success() {
		return fmt.Errorf("count check found %d missing and %d mismatched directories (see %s)", len(result.Missing), len(result.Mismatched), outPath)
	}
	return nil
}

func stageHashCheck(cmd *cobra.Command, client *storeclient.Client, medium, root, graph, inventoryPath string) error {
	checker := integrity.New(client)
	result, err := checker.HashCheck(cmd.Context(), graph, root, inventoryPath)
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
	if len(result.Mismatches) > 0 {
		return fmt.Errorf("%w: %d files", errHashCorrupt, len(result.Mismatches))
	}
	if !result.Success() {
		return fmt.Errorf("hash check incomplete for %s (see %s)", medium, outPath)
	}
	return nil
}

func stageMetadata(cmd *cobra.Command, cfg *config.Config, medium string, walkEvents []types.WalkEvent) error {
	formatBinary, _ := cmd.Flags().GetString("format-binary")
	mediaBinary, _ := cmd.Flags().GetString("media-binary")
	contentEndpoint, _ := cmd.Flags().GetString("content-endpoint")
	contentStart, _ := cmd.Flags().GetString("content-start-command")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	chunkSize, err := cfg.Int("extract.chunk-size")
	if err != nil {
		return fmt.Errorf("parse extract.chunk-size: %w", err)
	}

	var instantiations []extract.Instantiation
	for _, ev := range walkEvents {
		if ev.Kind == types.KindRecord {
			instantiations = append(instantiations, extract.Instantiation{EntityID: ev.ID, Path: ev.Path})
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
	fmt.Printf("metadata: extracted technical metadata for %d records, written to %s, %s, %s\n",
		len(instantiations), outputPaths["FS"], outputPaths["AT"], outputPaths["ET"])
	return nil
}

func stageEnrich(cmd *cobra.Command, cfg *config.Config, client *storeclient.Client, medium string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
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

	if result, err := enricher.LinkDuplicateHashes(ctx); err != nil {
		return fmt.Errorf("link duplicate hashes: %w", err)
	} else {
		summary["duplicates"] = result
	}

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

	if result, err := enricher.GenerateTitles(ctx); err != nil {
		return fmt.Errorf("generate titles: %w", err)
	} else {
		summary["titles"] = result
	}

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

	if result, err := enricher.ClassifyMIMETypes(ctx); err != nil {
		return fmt.Errorf("classify mime types: %w", err)
	} else {
		summary["mime_classification"] = result
	}

	if workTable, _ := cmd.Flags().GetString("work-table"); workTable != "" {
		rows, err := enrich.LoadWorkTable(workTable)
		if err != nil {
			return fmt.Errorf("load work table: %w", err)
		}
		result, err := enricher.LinkWorks(ctx, rows)
		if err != nil {
			return fmt.Errorf("link works: %w", err)
		}
		summary["works"] = result
	}

	if describe, _ := cmd.Flags().GetBool("enrich-descriptions"); describe {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		textgenEndpoint, _ := cmd.Flags().GetString("textgen-endpoint")
		textgenModel, _ := cmd.Flags().GetString("textgen-model")
		if textgenEndpoint == "" {
			textgenEndpoint = cfg.String("textgen.endpoint")
		}
		if textgenModel == "" {
			textgenModel = cfg.String("textgen.model")
		}

		store, err := sidecar.NewBoltStore(dataDir)
		if err != nil {
			return fmt.Errorf("open sidecar store: %w", err)
		}
		defer store.Close()

		gen := textgen.New(textgen.Config{BaseURL: textgenEndpoint})
		result, err := enricher.GenerateDescriptions(ctx, store, gen, enrich.DescribeConfig{
			Model:   textgenModel,
			RunKey:  medium + ".describe",
			Options: textgen.DefaultOptions,
		})
		if err != nil {
			return fmt.Errorf("generate descriptions: %w", err)
		}
		summary["descriptions"] = result
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
	fmt.Printf("enrich: summary written to %s\n", outPath)
	return nil
}

func stageValidate(cmd *cobra.Command, cfg *config.Config, client *storeclient.Client, medium string) error {
	queryDelay, err := time.ParseDuration(cfg.String("validate.query-delay"))
	if err != nil {
		return fmt.Errorf("parse validate.query-delay: %w", err)
	}
	categoryDelay, err := time.ParseDuration(cfg.String("validate.category-delay"))
	if err != nil {
		return fmt.Errorf("parse validate.category-delay: %w", err)
	}

	validator := validate.New(client, validate.Config{
		Level:         "full",
		QueryDelay:    queryDelay,
		CategoryDelay: categoryDelay,
	})

	report, err := validator.RunSuite(cmd.Context())
	if err != nil {
		return fmt.Errorf("run validation suite: %w", err)
	}

	outPath, err := workspacePath(cmd, medium, "validation_report.json")
	if err != nil {
		return err
	}
	if err := writeJSONFile(outPath, report); err != nil {
		return err
	}
	fmt.Printf("validate: %d/%d categories passed (report: %s)\n", len(report.SuccessfulCategories), len(report.Categories), outPath)
	if len(report.FailedCategories) > 0 {
		return fmt.Errorf("validation categories failed: %v", report.FailedCategories)
	}
	return nil
}

// diffHashInventories reports the post-metadata hash-consistency failure
// requires: any file whose hash changed (or disappeared)
// between the pre- and post-extraction inventories is treated as
// potential corruption introduced by a supposedly read-only extractor.
func diffHashInventories(pre, post map[string]types.HashResult) error {
	for path, preHash := range pre {
		postHash, ok := post[path]
		if !ok {
			return fmt.Errorf("potential file corruption during metadata extraction: %s missing after extraction", path)
		}
		if preHash.SHA256 != postHash.SHA256 {
			return fmt.Errorf("potential file corruption during metadata extraction: %s hash changed from %s to %s", path, preHash.SHA256, postHash.SHA256)
		}
	}
	return nil
}
