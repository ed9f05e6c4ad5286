package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/sidecar"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/textgen"
)

// Relations exclusive to the AI description pass.
const (
	classTechnicalDescription = rdf.NSBodi + "TechnicalDescription"
	classActivity             = rdf.NSBodi + "Activity"
	classSoftware             = rdf.NSBodi + "Software"

	predHasTechnicalDescription = rdf.NSBodi + "hasTechnicalDescription"
	predIsTechnicalDescriptionOf = rdf.NSBodi + "isTechnicalDescriptionOf"
	predTDGeneratedBy           = rdf.NSBodi + "generatedBy"
	predHasGenerated            = rdf.NSBodi + "hasGenerated"
	predPerformedBy             = rdf.NSRico + "isOrWasPerformedBy"
	predPerforms                = rdf.NSRico + "performsOrPerformed"
	predHasHumanValidation      = rdf.NSBodi + "hasHumanValidation"
	predRedactedInformation     = rdf.NSBodi + "redactedInformation"
)

// DescribeConfig configures a GenerateDescriptions run.
type DescribeConfig struct {
	Model     string
	PageSize  int
	Options   textgen.Options
	RunKey    string // sidecar scoping key for the software/activity counters
}

// DescribeResult reports the outcome of the TechnicalDescription pass.
type DescribeResult struct {
	Described int
	Skipped   int
}

// GenerateDescriptions pages through every Instantiation not marked
// bodi:redactedInformation and lacking a TechnicalDescription, builds a
// prompt from its TechnicalMetadata, calls gen, and emits
// TechnicalDescription + Activity + Software (deduped by model name),
// writing to the dedicated ai_descriptions named graph.
func (e *Enricher) GenerateDescriptions(ctx context.Context, store sidecar.Store, gen *textgen.Client, cfg DescribeConfig) (DescribeResult, error) {
	var result DescribeResult
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}

	counters, err := store.GetCounters(cfg.RunKey)
	if err != nil {
		return result, fmt.Errorf("load sidecar counters: %w", err)
	}

	softwareIRI, ok := counters.SoftwareCache[cfg.Model]
	if !ok {
		counters.SoftwareCounter++
		softwareIRI = rdf.SoftwareIRI(counters.SoftwareCounter)
		counters.SoftwareCache[cfg.Model] = softwareIRI
		softwareQuads := []rdf.Quad{
			{Subject: rdf.NewIRI(softwareIRI), Predicate: rdf.NewIRI(predType), Object: rdf.NewIRI(classSoftware), Graph: rdf.NewIRI(rdf.AIDescriptionsGraphIRI)},
			{Subject: rdf.NewIRI(softwareIRI), Predicate: rdf.NewIRI(predLabel), Object: rdf.NewString(cfg.Model), Graph: rdf.NewIRI(rdf.AIDescriptionsGraphIRI)},
		}
		for _, q := range softwareQuads {
			e.writer.Add(q)
		}
		if err := e.insertChunked(ctx, "ai_descriptions", softwareQuads); err != nil {
			return result, fmt.Errorf("insert software entity: %w", err)
		}
	}

	pending, err := e.fetchUndescribedInstantiations(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch undescribed instantiations: %w", err)
	}

	for start := 0; start < len(pending); start += cfg.PageSize {
		end := start + cfg.PageSize
		if end > len(pending) {
			end = len(pending)
		}

		for _, inst := range pending[start:end] {
			fields, err := e.fetchInstantiationMetadata(ctx, inst)
			if err != nil {
				e.logger.Warn().Err(err).Str("instantiation", inst).Msg("fetch technical metadata failed, skipping")
				result.Skipped++
				continue
			}

			prompt := buildDescriptionPrompt(fields)
			text, err := gen.Generate(ctx, cfg.Model, prompt, cfg.Options)
			if err != nil {
				e.logger.Warn().Err(err).Str("instantiation", inst).Msg("generate failed, skipping")
				result.Skipped++
				continue
			}

			counters.AITextCounter++
			activityIRI := rdf.AIActivityIRI(counters.AITextCounter, localName(inst))
			descIRI := rdf.BaseIRI + "technical_description_" + rdf.EncodePathSegment(localName(inst))

			quads := []rdf.Quad{
				{Subject: rdf.NewIRI(descIRI), Predicate: rdf.NewIRI(predType), Object: rdf.NewIRI(classTechnicalDescription)},
				{Subject: rdf.NewIRI(descIRI), Predicate: rdf.NewIRI(predValue), Object: rdf.NewString(text)},
				{Subject: rdf.NewIRI(descIRI), Predicate: rdf.NewIRI(predHasHumanValidation), Object: rdf.NewBool(false)},
				{Subject: rdf.NewIRI(inst), Predicate: rdf.NewIRI(predHasTechnicalDescription), Object: rdf.NewIRI(descIRI)},
				{Subject: rdf.NewIRI(descIRI), Predicate: rdf.NewIRI(predIsTechnicalDescriptionOf), Object: rdf.NewIRI(inst)},
				{Subject: rdf.NewIRI(descIRI), Predicate: rdf.NewIRI(predTDGeneratedBy), Object: rdf.NewIRI(activityIRI)},
				{Subject: rdf.NewIRI(activityIRI), Predicate: rdf.NewIRI(predType), Object: rdf.NewIRI(classActivity)},
				{Subject: rdf.NewIRI(activityIRI), Predicate: rdf.NewIRI(predHasGenerated), Object: rdf.NewIRI(descIRI)},
				{Subject: rdf.NewIRI(activityIRI), Predicate: rdf.NewIRI(predPerformedBy), Object: rdf.NewIRI(softwareIRI)},
				{Subject: rdf.NewIRI(softwareIRI), Predicate: rdf.NewIRI(predPerforms), Object: rdf.NewIRI(activityIRI)},
			}
			for i := range quads {
				quads[i].Graph = rdf.NewIRI(rdf.AIDescriptionsGraphIRI)
			}

			for _, q := range quads {
				e.writer.Add(q)
			}
			if err := e.insertChunked(ctx, "ai_descriptions", quads); err != nil {
				return result, err
			}
			result.Described++
		}
	}

	if err := store.SaveCounters(cfg.RunKey, counters); err != nil {
		return result, fmt.Errorf("save sidecar counters: %w", err)
	}
	return result, nil
}

func buildDescriptionPrompt(fields map[string]string) string {
	var b strings.Builder
	b.WriteString("Describe the following digital object based on its technical metadata:\n")
	for label, value := range fields {
		b.WriteString(fmt.Sprintf("- %s: %s\n", label, value))
	}
	return b.String()
}

// fetchUndescribedInstantiations returns every eligible instantiation up
// front; the caller pages through the list locally, so mid-run inserts
// never shift a server-side OFFSET under it.
func (e *Enricher) fetchUndescribedInstantiations(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
PREFIX rico: <%s>
SELECT ?inst WHERE {
  ?inst a rico:Instantiation .
  FILTER NOT EXISTS { ?inst <%s> true . }
  FILTER NOT EXISTS { ?inst <%s> ?d . }
}
ORDER BY ?inst`, rdf.NSRico, predRedactedInformation, predHasTechnicalDescription)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if inst, ok := col(row, "inst"); ok {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (e *Enricher) fetchInstantiationMetadata(ctx context.Context, instIRI string) (map[string]string, error) {
	query := fmt.Sprintf(`
PREFIX bodi: <%s>
PREFIX rdfs: <%s>
PREFIX rdf: <%s>
SELECT ?field ?value WHERE {
  <%s> bodi:hasTechnicalMetadata ?meta .
  ?meta rdfs:label ?field .
  ?meta rdf:value ?value .
}`, rdf.NSBodi, rdf.NSRDFS, rdf.NSRDF, instIRI)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	for _, row := range rows {
		field, ok1 := col(row, "field")
		value, ok2 := col(row, "value")
		if !ok1 || !ok2 {
			continue
		}
		fields[field] = value
	}
	return fields, nil
}
