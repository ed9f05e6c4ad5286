package extract

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/metrics"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/sidecar"
	"github.com/rs/zerolog"
)

// Ontology terms for technical metadata, grounded on the bodi: predicates
// the validation query battery exercises (bodi:TechnicalMetadata,
// bodi:TechnicalMetadataType, bodi:hasTechnicalMetadata,
// bodi:hasTechnicalMetadataType, bodi:generatedBy, bodi:Software,
// rico:Activity, rico:occurredAtDate).
const (
	classTechnicalMetadata     = rdf.NSBodi + "TechnicalMetadata"
	classTechnicalMetadataType = rdf.NSBodi + "TechnicalMetadataType"
	classSoftware              = rdf.NSBodi + "Software"
	classActivity              = rdf.NSRico + "Activity"

	predType                   = rdf.NSRDF + "type"
	predLabel                  = rdf.NSRDFS + "label"
	predValue                  = rdf.NSRDF + "value"
	predHasTechnicalMetadata   = rdf.NSBodi + "hasTechnicalMetadata"
	predHasTechnicalMetaType  = rdf.NSBodi + "hasTechnicalMetadataType"
	predGeneratedBy            = rdf.NSBodi + "generatedBy"
	predOccurredAtDate          = rdf.NSRico + "occurredAtDate"
)

// Instantiation is the minimal view MetadataOrchestrator needs of a
// record's physical embodiment: its archival ID and absolute path.
type Instantiation struct {
	EntityID string
	Path     string
}

// DefaultChunkSize is the default number of instantiations processed
// per batch.
const DefaultChunkSize = 150

// DefaultFlushEvery is the default tuple count between N-Quads flushes
// and sidecar checkpoints.
const DefaultFlushEvery = 100

// Config configures an Orchestrator run.
type Config struct {
	Medium     string
	ChunkSize  int
	FlushEvery int
	Workspace  string
	// OutputPaths maps a capability name ("FS", "AT", "ET") to the
	// N-Quads file its quads are flushed to. Three separate files are
	// produced per medium so each tool's metadata can be reloaded
	// independently of the others.
	OutputPaths map[string]string
	RunKey      string // sidecar scoping key, e.g. "hd1.extract"
	GraphByTool map[string]string
}

// Orchestrator schedules FormatIdentifier, ContentExtractor, and
// MediaExtractor concurrently over chunks of instantiations, merges
// their outputs into TechnicalMetadata N-Quads, and checkpoints the
// run via pkg/sidecar so a crash mid-run is resumable.
type Orchestrator struct {
	cfg          Config
	capabilities []Capability
	store        sidecar.Store
	writers      map[string]*rdf.Writer // keyed by capability name
	logger       zerolog.Logger

	metaTypeCache map[string]string // "tool|field" -> TechnicalMetadataType IRI
}

// New creates an Orchestrator.
func New(cfg Config, capabilities []Capability, store sidecar.Store) *Orchestrator {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = DefaultFlushEvery
	}
	writers := make(map[string]*rdf.Writer, len(capabilities))
	for _, cap := range capabilities {
		writers[cap.Name()] = rdf.NewWriter()
	}
	return &Orchestrator{
		cfg:           cfg,
		capabilities:  capabilities,
		store:         store,
		writers:       writers,
		logger:        log.WithComponent("extract.orchestrator").With().Str("medium", cfg.Medium).Logger(),
		metaTypeCache: map[string]string{},
	}
}

// writerFor returns tool's N-Quads writer, creating one if this tool
// wasn't among the capabilities passed to New (defensive: every known
// tool name should already have a writer).
func (o *Orchestrator) writerFor(tool string) *rdf.Writer {
	w, ok := o.writers[tool]
	if !ok {
		w = rdf.NewWriter()
		o.writers[tool] = w
	}
	return w
}

// Run processes every instantiation not already present in the run's
// checkpoint, in chunks, flushing N-Quads and checkpointing every
// cfg.FlushEvery tuples.
func (o *Orchestrator) Run(ctx context.Context, instantiations []Instantiation) error {
	checkpoint, err := o.store.GetCheckpoint(o.cfg.RunKey)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	done := map[string]bool{}
	for _, id := range checkpoint.ProcessedInstantiations {
		done[id] = true
	}

	counters, err := o.store.GetCounters(o.cfg.RunKey)
	if err != nil {
		return fmt.Errorf("load counters: %w", err)
	}

	pending := make([]Instantiation, 0, len(instantiations))
	for _, inst := range instantiations {
		if !done[inst.EntityID] {
			pending = append(pending, inst)
		}
	}

	tuplesSinceFlush := 0
	for start := 0; start < len(pending); start += o.cfg.ChunkSize {
		end := start + o.cfg.ChunkSize
		if end > len(pending) {
			end = len(pending)
		}
		chunk := pending[start:end]

		results := o.runCapabilities(ctx, chunk)
		n := o.mergeResults(chunk, results, counters)
		tuplesSinceFlush += n

		for _, inst := range chunk {
			checkpoint.ProcessedInstantiations = append(checkpoint.ProcessedInstantiations, inst.EntityID)
		}
		checkpoint.LastUpdated = time.Now()

		if tuplesSinceFlush >= o.cfg.FlushEvery {
			if err := o.checkpointAndFlush(checkpoint, counters); err != nil {
				return err
			}
			tuplesSinceFlush = 0
		}
	}

	return o.checkpointAndFlush(checkpoint, counters)
}

func (o *Orchestrator) checkpointAndFlush(checkpoint *sidecar.Checkpoint, counters *sidecar.Counters) error {
	for tool, w := range o.writers {
		outPath, ok := o.cfg.OutputPaths[tool]
		if !ok {
			continue
		}
		n, err := w.Flush(outPath)
		if err != nil {
			return fmt.Errorf("flush n-quads for %s: %w", tool, err)
		}
		metrics.RecordQuads("metadata_"+tool, n)
	}
	if err := o.store.SaveCheckpoint(o.cfg.RunKey, checkpoint); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	if err := o.store.SaveCounters(o.cfg.RunKey, counters); err != nil {
		return fmt.Errorf("save counters: %w", err)
	}
	return nil
}

// runCapabilities runs every capability concurrently over chunk and
// collects their results keyed by capability name.
func (o *Orchestrator) runCapabilities(ctx context.Context, chunk []Instantiation) map[string]Result {
	paths := make([]string, len(chunk))
	for i, inst := range chunk {
		paths[i] = inst.Path
	}

	results := make(map[string]Result, len(o.capabilities))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, cap := range o.capabilities {
		wg.Add(1)
		go func(c Capability) {
			defer wg.Done()
			timer := metrics.NewTimer()
			res, err := c.Extract(ctx, paths, o.cfg.Workspace)
			timer.ObserveDurationVec(metrics.ExtractorDuration, c.Name())
			if err != nil {
				metrics.ExtractorFailuresTotal.WithLabelValues(c.Name()).Inc()
				o.logger.Error().Str("capability", c.Name()).Err(err).Msg("capability failed")
				return
			}
			mu.Lock()
			results[c.Name()] = res
			mu.Unlock()
		}(cap)
	}
	wg.Wait()

	return results
}

// mergeResults emits TechnicalMetadata quads for every (path, tool,
// field, value) tuple and returns the number of tuples emitted.
func (o *Orchestrator) mergeResults(chunk []Instantiation, results map[string]Result, counters *sidecar.Counters) int {
	byPath := make(map[string]string, len(chunk))
	for _, inst := range chunk {
		byPath[inst.Path] = inst.EntityID
	}

	today := time.Now().Format("2006-01-02")
	n := 0

	for tool, res := range results {
		software := o.softwareIRI(tool, counters)
		activity := o.activityIRI(tool, counters)

		for path, fields := range res.Fields {
			entityID, ok := byPath[path]
			if !ok {
				continue
			}
			instIRI := rdf.InstantiationIRI(entityID)

			for field, value := range fields {
				n++
				o.emitTuple(entityID, instIRI, tool, field, value, software, activity)
			}
		}

		o.emitActivity(tool, activity, software, today)
	}

	return n
}

func (o *Orchestrator) emitTuple(entityID, instIRI, tool, field, value, software, activity string) {
	metaType := o.technicalMetadataType(tool, field, software)

	meta := rdf.BaseIRI + url.PathEscape(entityID+"_inst_meta_"+tool+"_"+field)
	o.quad(tool, meta, predType, rdf.NewIRI(classTechnicalMetadata))
	o.quad(tool, meta, predLabel, rdf.NewString(field))
	o.quad(tool, meta, predValue, rdf.NewString(value))
	o.quad(tool, meta, predHasTechnicalMetaType, rdf.NewIRI(metaType))
	o.quad(tool, meta, predGeneratedBy, rdf.NewIRI(activity))
	o.quad(tool, instIRI, predHasTechnicalMetadata, rdf.NewIRI(meta))
}

func (o *Orchestrator) technicalMetadataType(tool, field, software string) string {
	key := tool + "|" + field
	if iri, ok := o.metaTypeCache[key]; ok {
		return iri
	}
	iri := rdf.BaseIRI + "metadatatype/" + url.PathEscape(tool+"_"+field)
	o.metaTypeCache[key] = iri

	o.quad(tool, iri, predType, rdf.NewIRI(classTechnicalMetadataType))
	o.quad(tool, iri, predLabel, rdf.NewString(field))
	o.quad(tool, iri, predGeneratedBy, rdf.NewIRI(software))
	return iri
}

func (o *Orchestrator) emitActivity(tool, activity, software, today string) {
	o.quad(tool, activity, predType, rdf.NewIRI(classActivity))
	o.quad(tool, activity, predOccurredAtDate, rdf.NewIRI(rdf.DateIRI(today)))
	o.quad(tool, activity, predGeneratedBy, rdf.NewIRI(software))
}

func (o *Orchestrator) softwareIRI(tool string, counters *sidecar.Counters) string {
	if iri, ok := counters.SoftwareCache[tool]; ok {
		return iri
	}
	counters.SoftwareCounter++
	iri := rdf.SoftwareIRI(counters.SoftwareCounter)
	counters.SoftwareCache[tool] = iri

	o.quad(tool, iri, predType, rdf.NewIRI(classSoftware))
	o.quad(tool, iri, predLabel, rdf.NewString(tool))
	return iri
}

func (o *Orchestrator) activityIRI(tool string, counters *sidecar.Counters) string {
	counters.ActivityCounter++
	return rdf.BaseIRI + fmt.Sprintf("extract_activity_%04d", counters.ActivityCounter)
}

// quad appends a quad to tool's writer, tagged with tool's named graph.
func (o *Orchestrator) quad(tool, subject, predicate string, object rdf.Term) {
	o.writerFor(tool).Add(rdf.Quad{
		Subject:   rdf.NewIRI(subject),
		Predicate: rdf.NewIRI(predicate),
		Object:    object,
		Graph:     rdf.NewIRI(o.cfg.GraphByTool[tool]),
	})
}
