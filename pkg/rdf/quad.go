package rdf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BaseIRI is the namespace every entity IRI in this pipeline is minted
// under.
const BaseIRI = "http://ficlit.unibo.it/ArchivioEvangelisti/"

// Ontology prefixes used across the generated graph.
const (
	NSRico  = "https://www.ica.org/standards/RiC/ontology#"
	NSBodi  = "http://w3id.org/bodi#"
	NSPremis = "http://www.loc.gov/premis/rdf/v3/"
	NSProv  = "http://www.w3.org/ns/prov#"
	NSDC    = "http://purl.org/dc/terms/"
	NSRDF   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS  = "http://www.w3.org/2000/01/rdf-schema#"
	NSXSD   = "http://www.w3.org/2001/XMLSchema#"
	NSOWL   = "http://www.w3.org/2002/07/owl#"
)

// Term is one position (subject, predicate, object) of a Quad. Exactly one
// of IRI or Literal is set; object positions may be either, subject and
// predicate positions are always IRI.
type Term struct {
	IRI     string
	Literal string
	// Datatype is the literal's XSD datatype IRI; empty means xsd:string.
	Datatype string
	// Lang is the literal's language tag, mutually exclusive with Datatype.
	Lang string
}

// IsLiteral reports whether this term is a literal rather than an IRI.
func (t Term) IsLiteral() bool {
	return t.IRI == ""
}

// NewIRI builds an IRI term.
func NewIRI(iri string) Term { return Term{IRI: iri} }

// NewString builds a plain xsd:string literal term.
func NewString(value string) Term { return Term{Literal: value} }

// NewTyped builds a literal term with an explicit XSD datatype.
func NewTyped(value, datatype string) Term { return Term{Literal: value, Datatype: datatype} }

// NewBool builds an xsd:boolean literal term.
func NewBool(value bool) Term {
	return Term{Literal: strconv.FormatBool(value), Datatype: NSXSD + "boolean"}
}

// NewDate builds an xsd:date literal term ("YYYY-MM-DD").
func NewDate(value string) Term {
	return Term{Literal: value, Datatype: NSXSD + "date"}
}

// Quad is a single subject-predicate-object-graph statement.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// NTriplesEscape escapes a literal value for N-Quads output per the
// N-Triples grammar (backslash, quote, newline, carriage return, tab).
func NTriplesEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func formatTerm(t Term) string {
	if !t.IsLiteral() {
		return "<" + t.IRI + ">"
	}
	escaped := `"` + NTriplesEscape(t.Literal) + `"`
	switch {
	case t.Lang != "":
		return escaped + "@" + t.Lang
	case t.Datatype != "":
		return escaped + "^^<" + t.Datatype + ">"
	default:
		return escaped
	}
}

// Format renders a Quad as one N-Quads line (no trailing newline).
func (q Quad) Format() string {
	if q.Graph.IRI == "" {
		return fmt.Sprintf("%s %s %s .", formatTerm(q.Subject), formatTerm(q.Predicate), formatTerm(q.Object))
	}
	return fmt.Sprintf("%s %s %s %s .", formatTerm(q.Subject), formatTerm(q.Predicate), formatTerm(q.Object), formatTerm(q.Graph))
}

// EncodePathSegment percent-encodes a single path segment for use inside
// an entity IRI.
func EncodePathSegment(segment string) string {
	return url.PathEscape(segment)
}

// EntityIRI builds a Record/RecordSet IRI: <base>/<ID>.
func EntityIRI(id string) string { return BaseIRI + EncodePathSegment(id) }

// IdentifierIRI builds an Identifier IRI: <base>/<ID>_id.
func IdentifierIRI(id string) string { return BaseIRI + EncodePathSegment(id+"_id") }

// InstantiationIRI builds an Instantiation IRI: <base>/<ID>_inst.
func InstantiationIRI(id string) string { return BaseIRI + EncodePathSegment(id+"_inst") }

// LocationIRI builds a Location IRI: <base>/<ID>_inst_path.
func LocationIRI(id string) string { return BaseIRI + EncodePathSegment(id+"_inst_path") }

// FixityIRI builds a Fixity IRI: <base>/<ID>_inst_hash.
func FixityIRI(id string) string { return BaseIRI + EncodePathSegment(id+"_inst_hash") }

// AlgorithmSHA256IRI is the singleton SHA-256 Algorithm IRI.
const AlgorithmSHA256IRI = BaseIRI + "mechanism/sha256"

// DateIRI builds a canonical per-day Date IRI: <base>/date_YYYYMMDD.
func DateIRI(isoDate string) string {
	compact := strings.ReplaceAll(isoDate, "-", "")
	return BaseIRI + "date_" + compact
}

// SoftwareIRI builds a Software IRI: <base>/software_NNNN (4-digit
// zero-padded, 1-based counter).
func SoftwareIRI(n int) string {
	return BaseIRI + fmt.Sprintf("software_%04d", n)
}

// AIActivityIRI builds an AI-description Activity IRI:
// <base>/ai_textgen_activity_NNNN_<id>.
func AIActivityIRI(n int, instantiationID string) string {
	return BaseIRI + fmt.Sprintf("ai_textgen_activity_%04d_%s", n, EncodePathSegment(instantiationID))
}

// StructureGraphIRI builds the per-root structure graph IRI:
// <base>/structure/<ROOT_ID>.
func StructureGraphIRI(rootID string) string {
	return BaseIRI + "structure/" + EncodePathSegment(rootID)
}

// MetadataGraphIRI builds a per-tool, per-medium metadata graph IRI. tool
// is an extractor capability name; archivectl passes "FS" (FormatIdentifier),
// "AT" (ContentExtractor) and "ET" (MediaExtractor).
func MetadataGraphIRI(tool, medium string) string {
	return BaseIRI + tool + "_TechMeta_" + EncodePathSegment(medium)
}

// EnrichmentGraphIRI is the fixed graph GraphEnricher's Group A/B passes
// target.
const EnrichmentGraphIRI = BaseIRI + "updated_relations"

// AIDescriptionsGraphIRI is the fixed graph the AI-description pass
// targets.
const AIDescriptionsGraphIRI = BaseIRI + "ai_descriptions"
