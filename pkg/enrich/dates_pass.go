package enrich

import (
	"context"
	"fmt"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
)

// Field-name candidates a TechnicalMetadata's rdfs:label is matched
// against. The mtime group mirrors the FileModifyDate / File Modified
// Date / st_mtime equivalence the extractors report the same fact under.
var (
	creationFieldNames = []string{"dcterms:created", "Created", "created", "CreateDate", "DateCreated"}
	modifiedFieldNames = []string{"dcterms:modified", "Modified", "modified", "ModifyDate"}
	mtimeFieldNames    = []string{"st_mtime", "FileModifyDate", "File Modified Date"}
)

// entityRef describes one Record/RecordSet/Instantiation triangle the
// date passes need: the owning entity's IRI, its kind, and its
// Instantiation's IRI.
type entityRef struct {
	EntityIRI string
	Kind      string // "record" or "recordset"
	InstIRI   string
}

// DateResult reports one date-linking pass's outcome.
type DateResult struct {
	DatesLinked int
	Skipped     int // values that failed normalization
}

// LinkCreationDates harvests dcterms:created values attached to
// instantiations, normalizes them, and links Record/RecordSet → Date via
// rico:hasCreationDate (inverse rico:isCreationDateOf), tagged "Derived
// from embedded metadata".
func (e *Enricher) LinkCreationDates(ctx context.Context) (DateResult, error) {
	return e.linkDates(ctx, creationFieldNames, nil, predHasCreationDate, predIsCreationDateOf, provEmbedded, "creation_dates", targetEntity)
}

// LinkModificationDates implements the three-part modification
// date pattern:
//  1. dcterms:modified on Records, tagged "Derived from embedded metadata".
//  2. st_mtime fallback for Records lacking (1), tagged "Derived from
//     file system metadata".
//  3. st_mtime exclusively for RecordSets and for Instantiations.
func (e *Enricher) LinkModificationDates(ctx context.Context) (DateResult, error) {
	var total DateResult

	recordsWithEmbedded := map[string]bool{}
	r1, err := e.linkDatesTracking(ctx, modifiedFieldNames, []string{"record"}, predHasModDate, predIsModDateOf, provEmbedded, "modification_dates_embedded", targetEntity, recordsWithEmbedded)
	if err != nil {
		return total, err
	}
	total.add(r1)

	r2, err := e.linkDatesExcluding(ctx, mtimeFieldNames, []string{"record"}, predHasModDate, predIsModDateOf, provFilesystem, "modification_dates_fallback", targetEntity, recordsWithEmbedded)
	if err != nil {
		return total, err
	}
	total.add(r2)

	r3, err := e.linkDates(ctx, mtimeFieldNames, []string{"recordset"}, predHasModDate, predIsModDateOf, provFilesystem, "modification_dates_recordset", targetEntity)
	if err != nil {
		return total, err
	}
	total.add(r3)

	r4, err := e.linkDates(ctx, mtimeFieldNames, nil, predHasModDate, predIsModDateOf, provFilesystem, "modification_dates_instantiation", targetInstantiation)
	if err != nil {
		return total, err
	}
	total.add(r4)

	return total, nil
}

func (r *DateResult) add(o DateResult) {
	r.DatesLinked += o.DatesLinked
	r.Skipped += o.Skipped
}

type linkTarget int

const (
	targetEntity linkTarget = iota
	targetInstantiation
)

// linkDates is the common shape of every date pass: fetch the first
// matching metadata value per instantiation (restricted to kinds, if
// non-nil), normalize it, and link the chosen target (entity or
// instantiation) to a canonical per-day Date entity.
func (e *Enricher) linkDates(ctx context.Context, fieldNames, kinds []string, hasPred, isPred, provenance, pass string, target linkTarget) (DateResult, error) {
	return e.linkDatesTracking(ctx, fieldNames, kinds, hasPred, isPred, provenance, pass, target, nil)
}

func (e *Enricher) linkDatesTracking(ctx context.Context, fieldNames, kinds []string, hasPred, isPred, provenance, pass string, target linkTarget, seen map[string]bool) (DateResult, error) {
	var result DateResult

	values, err := e.fetchMetadataValues(ctx, fieldNames)
	if err != nil {
		return result, fmt.Errorf("fetch metadata values for %s: %w", pass, err)
	}
	refs, err := e.fetchEntityRefs(ctx, kinds)
	if err != nil {
		return result, fmt.Errorf("fetch entity refs for %s: %w", pass, err)
	}
	existing, err := e.fetchExistingDateLinks(ctx, hasPred)
	if err != nil {
		return result, fmt.Errorf("fetch existing date links for %s: %w", pass, err)
	}

	var quads []rdf.Quad
	for instIRI, ref := range refs {
		raw, ok := values[instIRI]
		if !ok {
			continue
		}
		iso, expressed, ok := NormalizeDate(raw)
		if !ok {
			result.Skipped++
			continue
		}

		subject := ref.EntityIRI
		if target == targetInstantiation {
			subject = ref.InstIRI
		}
		if seen != nil {
			seen[subject] = true
		}
		if existing[subject] {
			continue
		}

		dateIRI := rdf.DateIRI(iso)
		quads = append(quads,
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(predType), Object: rdf.NewIRI(classDate), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(predNormalizedDateValue), Object: rdf.NewDate(iso), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(predExpressedDate), Object: rdf.NewString(expressed), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(predDateProvenance), Object: rdf.NewString(provenance), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(subject), Predicate: rdf.NewIRI(hasPred), Object: rdf.NewIRI(dateIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(isPred), Object: rdf.NewIRI(subject), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
		)
	}

	for _, q := range quads {
		e.writer.Add(q)
	}
	if err := e.insertChunked(ctx, pass, quads); err != nil {
		return result, err
	}
	result.DatesLinked = len(quads) / 6
	return result, nil
}

// linkDatesExcluding behaves like linkDates but skips any instantiation
// whose subject is already present in already: the st_mtime fallback
// applies only to records lacking dcterms:modified.
func (e *Enricher) linkDatesExcluding(ctx context.Context, fieldNames, kinds []string, hasPred, isPred, provenance, pass string, target linkTarget, already map[string]bool) (DateResult, error) {
	var result DateResult

	values, err := e.fetchMetadataValues(ctx, fieldNames)
	if err != nil {
		return result, fmt.Errorf("fetch metadata values for %s: %w", pass, err)
	}
	refs, err := e.fetchEntityRefs(ctx, kinds)
	if err != nil {
		return result, fmt.Errorf("fetch entity refs for %s: %w", pass, err)
	}
	existing, err := e.fetchExistingDateLinks(ctx, hasPred)
	if err != nil {
		return result, fmt.Errorf("fetch existing date links for %s: %w", pass, err)
	}

	var quads []rdf.Quad
	for instIRI, ref := range refs {
		if already[ref.EntityIRI] {
			continue
		}
		raw, ok := values[instIRI]
		if !ok {
			continue
		}
		iso, expressed, ok := NormalizeDate(raw)
		if !ok {
			result.Skipped++
			continue
		}
		if existing[ref.EntityIRI] {
			continue
		}

		dateIRI := rdf.DateIRI(iso)
		quads = append(quads,
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(predType), Object: rdf.NewIRI(classDate), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(predNormalizedDateValue), Object: rdf.NewDate(iso), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(predExpressedDate), Object: rdf.NewString(expressed), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(predDateProvenance), Object: rdf.NewString(provenance), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(ref.EntityIRI), Predicate: rdf.NewIRI(hasPred), Object: rdf.NewIRI(dateIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(dateIRI), Predicate: rdf.NewIRI(isPred), Object: rdf.NewIRI(ref.EntityIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
		)
	}

	for _, q := range quads {
		e.writer.Add(q)
	}
	if err := e.insertChunked(ctx, pass, quads); err != nil {
		return result, err
	}
	result.DatesLinked = len(quads) / 6
	return result, nil
}

// fetchMetadataValues returns, per instantiation IRI, the value of the
// first TechnicalMetadata whose rdfs:label matches one of fieldNames.
func (e *Enricher) fetchMetadataValues(ctx context.Context, fieldNames []string) (map[string]string, error) {
	filter := ""
	for i, name := range fieldNames {
		if i > 0 {
			filter += " || "
		}
		filter += fmt.Sprintf(`?field = "%s"`, name)
	}
	query := fmt.Sprintf(`
PREFIX bodi: <%s>
PREFIX rdfs: <%s>
PREFIX rdf: <%s>
SELECT ?inst ?value WHERE {
  ?inst bodi:hasTechnicalMetadata ?meta .
  ?meta rdfs:label ?field .
  ?meta rdf:value ?value .
  FILTER(%s)
}`, rdf.NSBodi, rdf.NSRDFS, rdf.NSRDF, filter)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	for _, row := range rows {
		inst, ok1 := col(row, "inst")
		value, ok2 := col(row, "value")
		if !ok1 || !ok2 {
			continue
		}
		if _, exists := values[inst]; exists {
			continue // first match wins
		}
		values[inst] = value
	}
	return values, nil
}

// fetchEntityRefs returns every Instantiation's owning entity and kind,
// optionally filtered to kinds.
func (e *Enricher) fetchEntityRefs(ctx context.Context, kinds []string) (map[string]entityRef, error) {
	query := fmt.Sprintf(`
PREFIX rico: <%s>
SELECT ?entity ?inst ?kind WHERE {
  ?entity rico:hasOrHadInstantiation ?inst .
  ?entity a ?kind .
}`, rdf.NSRico)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	want := map[string]bool{}
	for _, k := range kinds {
		want[k] = true
	}

	refs := map[string]entityRef{}
	for _, row := range rows {
		entity, ok1 := col(row, "entity")
		inst, ok2 := col(row, "inst")
		kindIRI, ok3 := col(row, "kind")
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		kind := "recordset"
		if hasSuffix(kindIRI, "Record") {
			kind = "record"
		}
		if len(want) > 0 && !want[kind] {
			continue
		}
		refs[inst] = entityRef{EntityIRI: entity, Kind: kind, InstIRI: inst}
	}
	return refs, nil
}

func (e *Enricher) fetchExistingDateLinks(ctx context.Context, hasPred string) (map[string]bool, error) {
	query := fmt.Sprintf(`
SELECT ?subject WHERE {
  GRAPH <%s> { ?subject <%s> ?date . }
}`, e.cfg.TargetGraph, hasPred)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	existing := map[string]bool{}
	for _, row := range rows {
		if s, ok := col(row, "subject"); ok {
			existing[s] = true
		}
	}
	return existing, nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
