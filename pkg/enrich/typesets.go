package enrich

import (
	"context"
	"fmt"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
)

// fixedTypeSets are the ten coarse categories, bootstrapped once.
var fixedTypeSets = []types.TechnicalMetadataTypeSet{
	types.MetadataSetFileSystem,
	types.MetadataSetDocumentContent,
	types.MetadataSetImage,
	types.MetadataSetAudio,
	types.MetadataSetVideo,
	types.MetadataSetEmail,
	types.MetadataSetExecutable,
	types.MetadataSetCompressedFile,
	types.MetadataSetSecurity,
	types.MetadataSetOther,
}

// fieldToSet is the static exact-label classification dictionary for
// TechnicalMetadataType → TechnicalMetadataTypeSet, covering the field
// names FormatIdentifier/ContentExtractor/MediaExtractor are known to
// emit.
var fieldToSet = map[string]types.TechnicalMetadataTypeSet{
	"PUID":           types.MetadataSetFileSystem,
	"FORMAT_NAME":    types.MetadataSetFileSystem,
	"FORMAT_VERSION": types.MetadataSetFileSystem,
	"SIZE":           types.MetadataSetFileSystem,
	"LAST_MODIFIED":  types.MetadataSetFileSystem,
	"FileSize":       types.MetadataSetFileSystem,
	"FileModifyDate": types.MetadataSetFileSystem,
	"FileType":       types.MetadataSetFileSystem,
	"st_mtime":       types.MetadataSetFileSystem,

	"Content-Type":      types.MetadataSetDocumentContent,
	"dcterms:created":   types.MetadataSetDocumentContent,
	"dcterms:modified":  types.MetadataSetDocumentContent,
	"Author":            types.MetadataSetDocumentContent,
	"Title":              types.MetadataSetDocumentContent,
	"Content-Length":    types.MetadataSetDocumentContent,

	"ImageWidth":  types.MetadataSetImage,
	"ImageHeight": types.MetadataSetImage,
	"ImageSize":   types.MetadataSetImage,
	"Megapixels":  types.MetadataSetImage,
	"Orientation": types.MetadataSetImage,

	"AudioChannels":  types.MetadataSetAudio,
	"SampleRate":     types.MetadataSetAudio,
	"AudioBitrate":   types.MetadataSetAudio,

	"VideoFrameRate": types.MetadataSetVideo,
	"Duration":       types.MetadataSetVideo,
	"VideoCodec":     types.MetadataSetVideo,

	"MessageFrom": types.MetadataSetEmail,
	"MessageTo":   types.MetadataSetEmail,
	"Subject":     types.MetadataSetEmail,

	"Architecture": types.MetadataSetExecutable,
	"EntryPoint":   types.MetadataSetExecutable,

	"ZipCompressionMethod": types.MetadataSetCompressedFile,
	"ZipRequiredVersion":   types.MetadataSetCompressedFile,

	"EncryptionStatus": types.MetadataSetSecurity,
	"Signature":        types.MetadataSetSecurity,
}

// equivalenceGroups is the static list of TechnicalMetadataType label
// groups expanded into owl:sameAs edges: labels under which different
// extractors report the same underlying field.
var equivalenceGroups = [][]string{
	{"FileModifyDate", "File Modified Date", "st_mtime"},
	{"FileCreateDate", "Created", "dcterms:created"},
	{"MIMEType", "Content-Type", "FILE_MIME_TYPE"},
}

// BootstrapTypeSets emits the ten fixed TechnicalMetadataTypeSet entities
// if not already present.
func (e *Enricher) BootstrapTypeSets(ctx context.Context) error {
	existing, err := e.fetchExistingTypeSets(ctx)
	if err != nil {
		return fmt.Errorf("fetch existing type sets: %w", err)
	}

	var quads []rdf.Quad
	for _, set := range fixedTypeSets {
		iri := typeSetIRI(set)
		if existing[iri] {
			continue
		}
		quads = append(quads,
			rdf.Quad{Subject: rdf.NewIRI(iri), Predicate: rdf.NewIRI(predType), Object: rdf.NewIRI(classTechnicalMetadataTypeSet), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(iri), Predicate: rdf.NewIRI(predLabel), Object: rdf.NewString(string(set)), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
		)
	}

	for _, q := range quads {
		e.writer.Add(q)
	}
	return e.insertChunked(ctx, "typeset_bootstrap", quads)
}

func typeSetIRI(set types.TechnicalMetadataTypeSet) string {
	return rdf.BaseIRI + "technical_metadata_set_" + rdf.EncodePathSegment(string(set))
}

// TypeLinkResult reports the outcome of the type-to-set classification
// pass.
type TypeLinkResult struct {
	Linked int
}

// LinkTypesToSets classifies every TechnicalMetadataType not yet
// classified by exact label match against fieldToSet, else by MIME
// category fallback (when the label itself is a known MIME type,
// mapped to Image/Audio/Video/CompressedFile/DocumentContent/Other), else
// "Other".
func (e *Enricher) LinkTypesToSets(ctx context.Context) (TypeLinkResult, error) {
	var result TypeLinkResult

	unclassified, err := e.fetchUnclassifiedTypes(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch unclassified technical metadata types: %w", err)
	}

	var quads []rdf.Quad
	for _, t := range unclassified {
		set := classifyFieldLabel(t.label)
		setIRI := typeSetIRI(set)
		quads = append(quads,
			rdf.Quad{Subject: rdf.NewIRI(t.iri), Predicate: rdf.NewIRI(predIsPartOf), Object: rdf.NewIRI(setIRI), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
			rdf.Quad{Subject: rdf.NewIRI(setIRI), Predicate: rdf.NewIRI(predHasPart), Object: rdf.NewIRI(t.iri), Graph: rdf.NewIRI(e.cfg.TargetGraph)},
		)
	}

	for _, q := range quads {
		e.writer.Add(q)
	}
	if err := e.insertChunked(ctx, "type_classification", quads); err != nil {
		return result, err
	}
	result.Linked = len(quads) / 2
	return result, nil
}

func classifyFieldLabel(label string) types.TechnicalMetadataTypeSet {
	if set, ok := fieldToSet[label]; ok {
		return set
	}
	if cat, ok := mimeTypeCategory[label]; ok {
		switch {
		case hasPrefix(cat, "Image"):
			return types.MetadataSetImage
		case hasPrefix(cat, "Audio"):
			return types.MetadataSetAudio
		case hasPrefix(cat, "Video"):
			return types.MetadataSetVideo
		case hasPrefix(cat, "Archive"):
			return types.MetadataSetCompressedFile
		case hasPrefix(cat, "Document") || hasPrefix(cat, "Spreadsheet") || hasPrefix(cat, "Presentation") || hasPrefix(cat, "E-Book"):
			return types.MetadataSetDocumentContent
		}
	}
	return types.MetadataSetOther
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

type technicalMetadataType struct {
	iri   string
	label string
}

func (e *Enricher) fetchUnclassifiedTypes(ctx context.Context) ([]technicalMetadataType, error) {
	query := fmt.Sprintf(`
PREFIX bodi: <%s>
PREFIX rdfs: <%s>
PREFIX rico: <%s>
SELECT ?type ?label WHERE {
  ?type a bodi:TechnicalMetadataType .
  ?type rdfs:label ?label .
  FILTER NOT EXISTS { ?type rico:isOrWasPartOf ?set . }
}`, rdf.NSBodi, rdf.NSRDFS, rdf.NSRico)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]technicalMetadataType, 0, len(rows))
	for _, row := range rows {
		iri, ok1 := col(row, "type")
		label, ok2 := col(row, "label")
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, technicalMetadataType{iri: iri, label: label})
	}
	return out, nil
}

func (e *Enricher) fetchExistingTypeSets(ctx context.Context) (map[string]bool, error) {
	query := fmt.Sprintf(`
PREFIX bodi: <%s>
SELECT ?set WHERE { ?set a bodi:TechnicalMetadataTypeSet . }`, rdf.NSBodi)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	existing := map[string]bool{}
	for _, row := range rows {
		if s, ok := col(row, "set"); ok {
			existing[s] = true
		}
	}
	return existing, nil
}

// EquivalenceResult reports the outcome of the owl:sameAs closure pass.
type EquivalenceResult struct {
	EdgesAsserted int
}

// LinkEquivalences expands equivalenceGroups into owl:sameAs edges
// between the TechnicalMetadataType IRIs of labels actually present in
// the graph, one edge per unordered pair (symmetry implicit), deduped
// against existing edges.
func (e *Enricher) LinkEquivalences(ctx context.Context) (EquivalenceResult, error) {
	var result EquivalenceResult

	present, err := e.fetchTypeIRIsByLabel(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch technical metadata type IRIs: %w", err)
	}
	existing, err := e.fetchExistingSameAs(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch existing sameAs edges: %w", err)
	}

	var quads []rdf.Quad
	for _, group := range equivalenceGroups {
		var iris []string
		for _, label := range group {
			if iri, ok := present[label]; ok {
				iris = append(iris, iri)
			}
		}
		for i := 0; i < len(iris); i++ {
			for j := i + 1; j < len(iris); j++ {
				a, b := iris[i], iris[j]
				if existing[a+"|"+b] || existing[b+"|"+a] {
					continue
				}
				quads = append(quads, rdf.Quad{Subject: rdf.NewIRI(a), Predicate: rdf.NewIRI(predSameAs), Object: rdf.NewIRI(b), Graph: rdf.NewIRI(e.cfg.TargetGraph)})
			}
		}
	}

	for _, q := range quads {
		e.writer.Add(q)
	}
	if err := e.insertChunked(ctx, "equivalences", quads); err != nil {
		return result, err
	}
	result.EdgesAsserted = len(quads)
	return result, nil
}

func (e *Enricher) fetchTypeIRIsByLabel(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf(`
PREFIX bodi: <%s>
PREFIX rdfs: <%s>
SELECT ?type ?label WHERE {
  ?type a bodi:TechnicalMetadataType .
  ?type rdfs:label ?label .
}`, rdf.NSBodi, rdf.NSRDFS)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	byLabel := map[string]string{}
	for _, row := range rows {
		iri, ok1 := col(row, "type")
		label, ok2 := col(row, "label")
		if !ok1 || !ok2 {
			continue
		}
		byLabel[label] = iri
	}
	return byLabel, nil
}

func (e *Enricher) fetchExistingSameAs(ctx context.Context) (map[string]bool, error) {
	query := fmt.Sprintf(`
PREFIX owl: <%s>
SELECT ?a ?b WHERE {
  GRAPH <%s> { ?a owl:sameAs ?b . }
}`, rdf.NSOWL, e.cfg.TargetGraph)

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

// MIMEClassificationResult reports the outcome of the MIME classification
// pass.
type MIMEClassificationResult struct {
	Classified int
}

// mimeFieldNames is the Content-Type field plus the two fallback
// fields the classification pass reads, in priority order.
var mimeFieldNames = []string{"Content-Type", "MIMEType", "FILE_MIME_TYPE"}

// ClassifyMIMETypes reads a Content-Type-like field per Instantiation and
// emits rico:type "<category>" unless already present.
func (e *Enricher) ClassifyMIMETypes(ctx context.Context) (MIMEClassificationResult, error) {
	var result MIMEClassificationResult

	values, err := e.fetchMetadataValues(ctx, mimeFieldNames)
	if err != nil {
		return result, fmt.Errorf("fetch mime values: %w", err)
	}
	existing, err := e.fetchExistingRicoType(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch existing rico:type assertions: %w", err)
	}

	var quads []rdf.Quad
	for instIRI, value := range values {
		if existing[instIRI] {
			continue
		}
		category := classifyMIME(value)
		quads = append(quads, rdf.Quad{Subject: rdf.NewIRI(instIRI), Predicate: rdf.NewIRI(predRicoType), Object: rdf.NewString(category), Graph: rdf.NewIRI(e.cfg.TargetGraph)})
	}

	for _, q := range quads {
		e.writer.Add(q)
	}
	if err := e.insertChunked(ctx, "mime_classification", quads); err != nil {
		return result, err
	}
	result.Classified = len(quads)
	return result, nil
}

func (e *Enricher) fetchExistingRicoType(ctx context.Context) (map[string]bool, error) {
	query := fmt.Sprintf(`
PREFIX rico: <%s>
SELECT ?inst WHERE {
  GRAPH <%s> { ?inst rico:type ?t . }
}`, rdf.NSRico, e.cfg.TargetGraph)

	rows, err := e.selectQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	existing := map[string]bool{}
	for _, row := range rows {
		if s, ok := col(row, "inst"); ok {
			existing[s] = true
		}
	}
	return existing, nil
}
