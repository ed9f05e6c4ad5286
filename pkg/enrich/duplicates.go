package enrich

import (
	"context"
	"fmt"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
)

// DuplicateResult reports the outcome of the hash-duplicate-clique pass.
type DuplicateResult struct {
	Cliques     int
	EdgesLinked int
}

// LinkDuplicateHashes finds every Fixity value shared by more than one
// Instantiation and, for each clique of size N, emits N*(N-1) directed
// bodi:hasSameHashCodeAs edges between instantiations. Idempotent:
// re-running after edges already exist emits zero new edges, since the
// pass queries existing edges first and subtracts them.
func (e *Enricher) LinkDuplicateHashes(ctx context.Context) (DuplicateResult, error) {
	var result DuplicateResult

	cliques, err := e.fetchHashCliques(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch hash cliques: %w", err)
	}

	existing, err := e.fetchExistingSameHashEdges(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch existing hasSameHashCodeAs edges: %w", err)
	}

	var quads []rdf.Quad
	for _, members := range cliques {
		if len(members) < 2 {
			continue
		}
		result.Cliques++
		for _, a := range members {
			for _, b := range members {
				if a == b {
					continue
				}
				key := a + "|" + b
				if existing[key] {
					continue
				}
				quads = append(quads, rdf.Quad{
					Subject:   rdf.NewIRI(a),
					Predicate: rdf.NewIRI(predHasSameHashCodeAs),
					Object:    rdf.NewIRI(b),
					Graph:     rdf.NewIRI(e.cfg.TargetGraph),
				})
			}
		}
	}

	for _, q := range quads {
		e.writer.Add(q)
	}
	if err := e.insertChunked(ctx, "duplicates", quads); err != nil {
		return result, err
	}
	result.EdgesLinked = len(quads)
	return result, nil
}

func (e *Enricher) fetchHashCliques(ctx context.Context) (map[string][]string, error) {
	query := fmt.Sprintf(`
PREFIX bodi: <%s>
PREFIX rdf: <%s>
SELECT ?inst ?hash WHERE {
  ?inst bodi:hasHashCode ?fixity .
  ?fixity rdf:value ?hash .
}`, rdf.NSBodi, rdf.NSRDF)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	byHash := map[string][]string{}
	for _, row := range rows {
		inst, ok1 := col(row, "inst")
		hash, ok2 := col(row, "hash")
		if !ok1 || !ok2 {
			continue
		}
		byHash[hash] = append(byHash[hash], inst)
	}
	return byHash, nil
}

func (e *Enricher) fetchExistingSameHashEdges(ctx context.Context) (map[string]bool, error) {
	query := fmt.Sprintf(`
PREFIX bodi: <%s>
SELECT ?a ?b WHERE {
  GRAPH <%s> { ?a bodi:hasSameHashCodeAs ?b . }
}`, rdf.NSBodi, e.cfg.TargetGraph)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	existing := map[string]bool{}
	for _, row := range rows {
		a, ok1 := col(row, "a")
		b, ok2 := col(row, "b")
		if !ok1 || !ok2 {
			continue
		}
		existing[a+"|"+b] = true
	}
	return existing, nil
}
