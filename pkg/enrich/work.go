package enrich

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
)

const (
	classWork    = rdf.NSBodi + "Work"
	predHasWork  = rdf.NSBodi + "hasWork"
	predIsWorkOf = rdf.NSBodi + "isWorkOf"
)

// WorkRow is one entry of the bibliographic Work table, mapping a
// RecordSet's label to the LRMoo F1 Work it belongs to.
type WorkRow struct {
	RecordSetLabel string
	WorkLabel      string
}

// LoadWorkTable reads a two-column CSV (recordset_label,work_label,
// header row expected) from path, typically exported from the curators'
// spreadsheet.
func LoadWorkTable(path string) ([]WorkRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open work table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	var rows []WorkRow
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read work table: %w", err)
		}
		if first {
			first = false
			continue // header
		}
		rows = append(rows, WorkRow{RecordSetLabel: record[0], WorkLabel: record[1]})
	}
	return rows, nil
}

// WorkLinkResult reports the outcome of the WorkLinker pass.
type WorkLinkResult struct {
	WorksCreated    int
	RecordSetsLinked int
	RecordsLinked   int
}

// LinkWorks creates one Work entity per distinct WorkLabel in table, links
// the matching RecordSet via bodi:hasWork/bodi:isWorkOf by exact label
// match, and propagates the same link down to every child Record.
// Idempotent: skips RecordSets/Records that already carry a
// bodi:hasWork edge.
func (e *Enricher) LinkWorks(ctx context.Context, table []WorkRow) (WorkLinkResult, error) {
	var result WorkLinkResult

	recordSets, err := e.fetchRecordSetsByLabel(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch record sets by label: %w", err)
	}
	existing, err := e.fetchExistingWorkLinks(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch existing work links: %w", err)
	}

	workIRIs := map[string]string{}
	var quads []rdf.Quad
	for _, row := range table {
		workIRI, ok := workIRIs[row.WorkLabel]
		if !ok {
			workIRI = rdf.BaseIRI + "work_" + rdf.EncodePathSegment(row.WorkLabel)
			workIRIs[row.WorkLabel] = workIRI
			quads = append(quads,
				rdf.Quad{Subject: rdf.NewIRI(workIRI), Predicate: rdf.NewIRI(predType), Object: rdf.NewIRI(classWork), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
				rdf.Quad{Subject: rdf.NewIRI(workIRI), Predicate: rdf.NewIRI(predLabel), Object: rdf.NewString(row.WorkLabel), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			)
			result.WorksCreated++
		}

		rsIRI, ok := recordSets[row.RecordSetLabel]
		if !ok {
			continue
		}
		if !existing[rsIRI] {
			quads = append(quads,
				rdf.Quad{Subject: rdf.NewIRI(rsIRI), Predicate: rdf.NewIRI(predHasWork), Object: rdf.NewIRI(workIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
				rdf.Quad{Subject: rdf.NewIRI(workIRI), Predicate: rdf.NewIRI(predIsWorkOf), Object: rdf.NewIRI(rsIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			)
			result.RecordSetsLinked++
		}

		children, err := e.fetchChildRecords(ctx, rsIRI)
		if err != nil {
			return result, fmt.Errorf("fetch child records of %s: %w", rsIRI, err)
		}
		for _, childIRI := range children {
			if existing[childIRI] {
				continue
			}
			quads = append(quads,
				rdf.Quad{Subject: rdf.NewIRI(childIRI), Predicate: rdf.NewIRI(predHasWork), Object: rdf.NewIRI(workIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
				rdf.Quad{Subject: rdf.NewIRI(workIRI), Predicate: rdf.NewIRI(predIsWorkOf), Object: rdf.NewIRI(childIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			)
			existing[childIRI] = true
			result.RecordsLinked++
		}
	}

	for _, q := range quads {
		e.writer.Add(q)
	}
	if err := e.insertChunked(ctx, "works", quads); err != nil {
		return result, err
	}
	return result, nil
}

func (e *Enricher) fetchRecordSetsByLabel(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf(`
PREFIX rico: <%s>
PREFIX rdfs: <%s>
SELECT ?rs ?label WHERE {
  ?rs a rico:RecordSet .
  ?rs rdfs:label ?label .
}`, rdf.NSRico, rdf.NSRDFS)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	byLabel := map[string]string{}
	for _, row := range rows {
		rs, ok1 := col(row, "rs")
		label, ok2 := col(row, "label")
		if !ok1 || !ok2 {
			continue
		}
		byLabel[label] = rs
	}
	return byLabel, nil
}

func (e *Enricher) fetchExistingWorkLinks(ctx context.Context) (map[string]bool, error) {
	query := fmt.Sprintf(`
PREFIX bodi: <%s>
SELECT ?entity WHERE {
  GRAPH <%s> { ?entity bodi:hasWork ?work . }
}`, rdf.NSBodi, e.cfg.TargetGraph)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	existing := map[string]bool{}
	for _, row := range rows {
		if s, ok := col(row, "entity"); ok {
			existing[s] = true
		}
	}
	return existing, nil
}

// fetchChildRecords returns every Record transitively contained in the
// RecordSet identified by rsIRI, following rico:isOrWasIncludedIn one or
// more levels deep.
func (e *Enricher) fetchChildRecords(ctx context.Context, rsIRI string) ([]string, error) {
	query := fmt.Sprintf(`
PREFIX rico: <%s>
SELECT ?record WHERE {
  ?record rico:isOrWasIncludedIn+ <%s> .
  ?record a rico:Record .
}`, rdf.NSRico, rsIRI)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if r, ok := col(row, "record"); ok {
			out = append(out, r)
		}
	}
	return out, nil
}
