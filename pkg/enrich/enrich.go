package enrich

import (
	"context"
	"fmt"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/metrics"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/rs/zerolog"
)

// DefaultChunkSize is the default number of triples per SPARQL UPDATE.
const DefaultChunkSize = 1000

// Ontology terms shared across passes.
const (
	predType  = rdf.NSRDF + "type"
	predLabel = rdf.NSRDFS + "label"
	predValue = rdf.NSRDF + "value"

	predHasSameHashCodeAs = rdf.NSBodi + "hasSameHashCodeAs"
	predHasCreationDate   = rdf.NSRico + "hasCreationDate"
	predIsCreationDateOf  = rdf.NSRico + "isCreationDateOf"
	predHasModDate        = rdf.NSRico + "hasModificationDate"
	predIsModDateOf       = rdf.NSRico + "isModificationDateOf"
	predHasTitle          = rdf.NSRico + "hasOrHadTitle"
	predIsTitleOf         = rdf.NSRico + "isOrWasTitleOf"
	predHasHashCode       = rdf.NSBodi + "hasHashCode"

	predIsPartOf   = rdf.NSRico + "isOrWasPartOf"
	predHasPart    = rdf.NSRico + "hasOrHadPart"
	predSameAs     = rdf.NSOWL + "sameAs"
	predRicoType   = rdf.NSRico + "type"

	classDate                      = rdf.NSRico + "Date"
	classTitle                     = rdf.NSRico + "Title"
	classTechnicalMetadataType     = rdf.NSBodi + "TechnicalMetadataType"
	classTechnicalMetadataTypeSet  = rdf.NSBodi + "TechnicalMetadataTypeSet"

	predNormalizedDateValue = rdf.NSBodi + "normalizedDateValue"
	predExpressedDate       = rdf.NSBodi + "expressedDate"
	predDateProvenance      = rdf.NSBodi + "dateProvenanceTag"

	predDCCreated  = rdf.NSDC + "created"
	predDCModified = rdf.NSDC + "modified"
)

const (
	provEmbedded   = "Derived from embedded metadata"
	provFilesystem = "Derived from file system metadata"
)

// Config configures an Enricher run.
type Config struct {
	// TargetGraph is the named graph every pass writes derived triples
	// into ("updated_relations").
	TargetGraph string
	// ChunkSize is the number of triples per SPARQL UPDATE batch; zero
	// uses DefaultChunkSize.
	ChunkSize int
	// ReplayPath is the file every generated quad is appended to,
	// regardless of DryRun, so a run can be replayed.
	ReplayPath string
	// DryRun suppresses the SPARQL UPDATE calls but still writes the
	// replay buffer.
	DryRun bool
}

// Enricher runs GraphEnricher's passes against an already-loaded store.
type Enricher struct {
	client *storeclient.Client
	cfg    Config
	writer *rdf.Writer
	logger zerolog.Logger
}

// New creates an Enricher on top of an already-configured storeclient.Client.
func New(client *storeclient.Client, cfg Config) *Enricher {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.TargetGraph == "" {
		cfg.TargetGraph = rdf.EnrichmentGraphIRI
	}
	return &Enricher{
		client: client,
		cfg:    cfg,
		writer: rdf.NewWriter(),
		logger: log.WithComponent("enrich"),
	}
}

// Flush writes the accumulated replay buffer to cfg.ReplayPath. Safe to
// call multiple times; callers invoke it once after all passes have run.
func (e *Enricher) Flush() error {
	if e.cfg.ReplayPath == "" {
		return nil
	}
	if _, err := e.writer.Flush(e.cfg.ReplayPath); err != nil {
		return fmt.Errorf("flush enrichment replay buffer: %w", err)
	}
	return nil
}

// quad appends a quad to the replay buffer, targeting cfg.TargetGraph.
func (e *Enricher) quad(s, p string, o rdf.Term) {
	e.writer.Add(rdf.Quad{
		Subject:   rdf.NewIRI(s),
		Predicate: rdf.NewIRI(p),
		Object:    o,
		Graph:     rdf.NewIRI(e.cfg.TargetGraph),
	})
}

func (e *Enricher) quadIRI(s, p, o string) { e.quad(s, p, rdf.NewIRI(o)) }

// insertChunked issues one SPARQL UPDATE per cfg.ChunkSize quads.
// No-op under DryRun, besides metrics and the replay buffer (handled by
// Flush separately).
func (e *Enricher) insertChunked(ctx context.Context, pass string, quads []rdf.Quad) error {
	if len(quads) == 0 {
		return nil
	}
	if e.cfg.DryRun {
		metrics.LinksAssertedTotal.WithLabelValues(pass).Add(float64(len(quads)))
		return nil
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.EnrichPassDuration, pass)

	for start := 0; start < len(quads); start += e.cfg.ChunkSize {
		end := start + e.cfg.ChunkSize
		if end > len(quads) {
			end = len(quads)
		}
		if err := e.insertBatch(ctx, quads[start:end]); err != nil {
			return fmt.Errorf("insert batch for pass %s: %w", pass, err)
		}
	}
	metrics.LinksAssertedTotal.WithLabelValues(pass).Add(float64(len(quads)))
	return nil
}

func (e *Enricher) insertBatch(ctx context.Context, quads []rdf.Quad) error {
	sparql := "INSERT DATA {\n"
	for _, q := range quads {
		triple := rdf.Quad{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object}
		sparql += "  GRAPH <" + q.Graph.IRI + "> { " + triple.Format() + " }\n"
	}
	sparql += "}"
	return e.client.Update(ctx, "enrich", sparql)
}

// ask issues a SPARQL ASK query and parses its boolean result.
func (e *Enricher) ask(ctx context.Context, sparql string) (bool, error) {
	res, err := e.client.Query(ctx, "enrich", "ask", sparql)
	if err != nil {
		return false, err
	}
	var out struct {
		Boolean bool `json:"boolean"`
	}
	if err := unmarshalBool(res.Body, &out); err != nil {
		return false, fmt.Errorf("parse ask response: %w", err)
	}
	return out.Boolean, nil
}

func (e *Enricher) selectQuery(ctx context.Context, sparql string) ([]map[string]binding, error) {
	res, err := e.client.Query(ctx, "enrich", "select", sparql)
	if err != nil {
		return nil, err
	}
	return parseBindings(res.Body)
}
