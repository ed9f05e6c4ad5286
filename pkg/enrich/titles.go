package enrich

import (
	"context"
	"fmt"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
)

// TitleResult reports the outcome of the title generation pass.
type TitleResult struct {
	TitlesCreated int
}

// GenerateTitles emits a rico:Title entity (rdfs:label copied from the
// owning entity's label) for every Record/RecordSet that does not yet
// have one. Idempotent: entities already linked via rico:hasOrHadTitle
// are skipped.
func (e *Enricher) GenerateTitles(ctx context.Context) (TitleResult, error) {
	var result TitleResult

	entities, err := e.fetchLabeledEntitiesWithoutTitle(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch entities without title: %w", err)
	}

	var quads []rdf.Quad
	for _, en := range entities {
		titleIRI := rdf.BaseIRI + "title_" + rdf.EncodePathSegment(localName(en.entityIRI))
		quads = append(quads,
			rdf.Quad{Subject: rdf.NewIRI(titleIRI), Predicate: rdf.NewIRI(predType), Object: rdf.NewIRI(classTitle), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(titleIRI), Predicate: rdf.NewIRI(predLabel), Object: rdf.NewString(en.label), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(en.entityIRI), Predicate: rdf.NewIRI(predHasTitle), Object: rdf.NewIRI(titleIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(titleIRI), Predicate: rdf.NewIRI(predIsTitleOf), Object: rdf.NewIRI(en.entityIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
		)
	}

	for _, q := range quads {
		e.writer.Add(q)
	}
	if err := e.insertChunked(ctx, "titles", quads); err != nil {
		return result, err
	}
	result.TitlesCreated = len(quads) / 4
	return result, nil
}

type labeledEntity struct {
	entityIRI string
	label     string
}

func (e *Enricher) fetchLabeledEntitiesWithoutTitle(ctx context.Context) ([]labeledEntity, error) {
	query := fmt.Sprintf(`
PREFIX rico: <%s>
PREFIX rdfs: <%s>
SELECT ?entity ?label WHERE {
  { ?entity a rico:Record . } UNION { ?entity a rico:RecordSet . }
  ?entity rdfs:label ?label .
  FILTER NOT EXISTS { ?entity rico:hasOrHadTitle ?t . }
}`, rdf.NSRico, rdf.NSRDFS)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]labeledEntity, 0, len(rows))
	for _, row := range rows {
		entity, ok1 := col(row, "entity")
		label, ok2 := col(row, "label")
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, labeledEntity{entityIRI: entity, label: label})
	}
	return out, nil
}

// localName returns the last path segment of an IRI, used to mint a
// deterministic per-entity Title IRI suffix.
func localName(iri string) string {
	for i := len(iri) - 1; i >= 0; i-- {
		if iri[i] == '/' {
			return iri[i+1:]
		}
	}
	return iri
}
