package validate

import "fmt"

// Kind classifies how a check's raw SPARQL result is turned into a
// Status.
type Kind string

const (
	// KindCount runs a SELECT (COUNT(...) AS ?count) and reports INFO
	// with the count, or WARNING when the count is zero and ZeroIsWarning
	// is set.
	KindCount Kind = "count"
	// KindAskExpectFalse runs an ASK expected to be false; FAIL if true.
	KindAskExpectFalse Kind = "ask_expect_false"
	// KindDistribution runs a SELECT ... GROUP BY and reports INFO with
	// the row count and the rows themselves as Details.
	KindDistribution Kind = "distribution"
)

// Check is one entry of the validation catalogue.
type Check struct {
	Name          string
	Description   string
	Category      string
	SPARQL        string
	Kind          Kind
	ZeroIsWarning bool
}

// Category name constants: five validation categories plus the CSV
// export category.
const (
	CategoryGeneralStatistics    = "general_statistics"
	CategoryStructuralIntegrity  = "structural_integrity"
	CategoryMetadataValidation   = "metadata_validation"
	CategoryHashValidation       = "hash_validation"
	CategoryAdvancedConsistency = "advanced_consistency"
	CategoryCSVExport            = "csv_export"
)

// AllCategories lists the categories in run order. "basic" level runs
// only the first two; "full" runs all of them.
var AllCategories = []string{
	CategoryGeneralStatistics,
	CategoryStructuralIntegrity,
	CategoryMetadataValidation,
	CategoryHashValidation,
	CategoryAdvancedConsistency,
	CategoryCSVExport,
}

// BasicCategories is the subset run under validation level "basic".
var BasicCategories = []string{
	CategoryGeneralStatistics,
	CategoryStructuralIntegrity,
}

func countQuery(class string) string {
	return fmt.Sprintf(`
PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
PREFIX bodi: <http://w3id.org/bodi#>
SELECT (COUNT(?entity) AS ?count) WHERE { ?entity a %s . }`, class)
}

func withoutLabelAsk(class string) string {
	return fmt.Sprintf(`
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
ASK { ?entity a %s . FILTER NOT EXISTS { ?entity rdfs:label ?label . } }`, class)
}

// Catalogue is the full set of checks, grouped by category, in the
// order the suite runs them.
var Catalogue = buildCatalogue()

func buildCatalogue() []Check {
	var c []Check

	// 1. General statistics.
	c = append(c,
		Check{Name: "rico_record_count", Description: "Record entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("rico:Record")},
		Check{Name: "rico_recordset_count", Description: "RecordSet entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("rico:RecordSet")},
		Check{Name: "rico_instantiation_count", Description: "Instantiation entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("rico:Instantiation")},
		Check{Name: "rico_identifier_count", Description: "Identifier entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("rico:Identifier")},
		Check{Name: "technical_metadata_count", Description: "TechnicalMetadata entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("bodi:TechnicalMetadata")},
		Check{Name: "technical_metadata_type_count", Description: "TechnicalMetadataType entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("bodi:TechnicalMetadataType")},
		Check{Name: "rico_activity_count", Description: "Activity entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("rico:Activity")},
		Check{Name: "premis_fixity_count", Description: "Fixity entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("premis:Fixity")},
		Check{Name: "software_count", Description: "Software entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("bodi:Software")},
		Check{Name: "algorithm_count", Description: "Algorithm entity count", Category: CategoryGeneralStatistics, Kind: KindCount, SPARQL: countQuery("bodi:Algorithm")},
	)

	// 2. Structural integrity.
	c = append(c,
		Check{Name: "record_without_label_ask", Description: "Record missing rdfs:label", Category: CategoryStructuralIntegrity, Kind: KindAskExpectFalse, SPARQL: withoutLabelAsk("rico:Record")},
		Check{Name: "recordset_without_label_ask", Description: "RecordSet missing rdfs:label", Category: CategoryStructuralIntegrity, Kind: KindAskExpectFalse, SPARQL: withoutLabelAsk("rico:RecordSet")},
		Check{Name: "instantiation_without_label_ask", Description: "Instantiation missing rdfs:label", Category: CategoryStructuralIntegrity, Kind: KindAskExpectFalse, SPARQL: withoutLabelAsk("rico:Instantiation")},
		Check{
			Name: "self_inclusion_check_ask", Description: "Entity included in itself", Category: CategoryStructuralIntegrity, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
ASK { ?e rico:isOrWasIncludedIn ?e . }`,
		},
		Check{
			Name: "circular_hierarchy_check_ask", Description: "Two-level inclusion cycle", Category: CategoryStructuralIntegrity, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
ASK { ?a rico:isOrWasIncludedIn ?b . ?b rico:isOrWasIncludedIn ?a . FILTER(?a != ?b) }`,
		},
		Check{
			Name: "orphan_instantiations_ask", Description: "Instantiation with no owning Record/RecordSet", Category: CategoryStructuralIntegrity, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
ASK { ?inst a rico:Instantiation . FILTER NOT EXISTS { ?entity rico:hasOrHadInstantiation ?inst . } }`,
		},
		Check{
			Name: "orphan_records_ask", Description: "Record with no parent RecordSet", Category: CategoryStructuralIntegrity, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
ASK { ?r a rico:Record . FILTER NOT EXISTS { ?r rico:isOrWasIncludedIn ?parent . } }`,
		},
		Check{
			Name: "hierarchy_depth_inconsistencies_ask", Description: "Parent/child instantiation depths not differing by exactly 1", Category: CategoryStructuralIntegrity, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
PREFIX bodi: <http://w3id.org/bodi#>
ASK {
  ?child rico:isOrWasIncludedIn ?parent .
  ?child a rico:Instantiation . ?parent a rico:Instantiation .
  ?child bodi:hierarchyDepth ?cd . ?parent bodi:hierarchyDepth ?pd .
  FILTER(?cd != ?pd + 1)
}`,
		},
		Check{
			Name: "root_recordset_count", Description: "RecordSets with no parent (the shared container plus any stray root)", Category: CategoryStructuralIntegrity, Kind: KindCount, ZeroIsWarning: true,
			SPARQL: `PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
SELECT (COUNT(?rs) AS ?count) WHERE { ?rs a rico:RecordSet . FILTER NOT EXISTS { ?rs rico:isOrWasIncludedIn ?parent . } }`,
		},
	)

	// 3. Metadata validation.
	c = append(c,
		Check{
			Name: "metadata_without_type_count", Description: "TechnicalMetadata lacking a TechnicalMetadataType", Category: CategoryMetadataValidation, Kind: KindCount, ZeroIsWarning: false,
			SPARQL: `PREFIX bodi: <http://w3id.org/bodi#>
SELECT (COUNT(?m) AS ?count) WHERE { ?m a bodi:TechnicalMetadata . FILTER NOT EXISTS { ?m bodi:hasTechnicalMetadataType ?t . } }`,
		},
		Check{
			Name: "metadata_type_orphans_count", Description: "TechnicalMetadataType never referenced by any metadata", Category: CategoryMetadataValidation, Kind: KindCount,
			SPARQL: `PREFIX bodi: <http://w3id.org/bodi#>
SELECT (COUNT(?t) AS ?count) WHERE { ?t a bodi:TechnicalMetadataType . FILTER NOT EXISTS { ?m bodi:hasTechnicalMetadataType ?t . } }`,
		},
		Check{
			Name: "mime_type_distribution", Description: "MIME type value distribution", Category: CategoryMetadataValidation, Kind: KindDistribution,
			SPARQL: `PREFIX bodi: <http://w3id.org/bodi#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
SELECT ?value (COUNT(*) AS ?count) WHERE {
  ?metadataType a bodi:TechnicalMetadataType ; rdfs:label ?label .
  FILTER(?label IN ("MIME_TYPE", "Content-Type", "MIMEType"))
  ?meta bodi:hasTechnicalMetadataType ?metadataType .
  ?meta rdf:value ?value .
} GROUP BY ?value ORDER BY DESC(?count)`,
		},
	)

	// 4. Hash validation.
	c = append(c,
		Check{
			Name: "hash_without_algorithm_ask", Description: "Fixity lacking its hash algorithm link", Category: CategoryHashValidation, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX premis: <http://www.loc.gov/premis/rdf/v3/>
PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
ASK { ?f a premis:Fixity . FILTER NOT EXISTS { ?f rico:hasCreator ?a . } }`,
		},
		Check{
			Name: "hash_format_invalid_ask", Description: "Fixity value not a 64-char hex string", Category: CategoryHashValidation, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX premis: <http://www.loc.gov/premis/rdf/v3/>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
ASK { ?f a premis:Fixity . ?f rdf:value ?v . FILTER(!REGEX(STR(?v), "^[0-9a-fA-F]{64}$")) }`,
		},
		Check{
			Name: "multiple_hashes_per_file_ask", Description: "Instantiation with more than one Fixity", Category: CategoryHashValidation, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX bodi: <http://w3id.org/bodi#>
ASK {
  SELECT ?inst (COUNT(?f) AS ?n) WHERE { ?inst bodi:hasHashCode ?f . } GROUP BY ?inst HAVING(?n > 1)
}`,
		},
		Check{
			Name: "duplicate_hash_analysis", Description: "Hash-value cliques shared by more than one Instantiation", Category: CategoryHashValidation, Kind: KindDistribution,
			SPARQL: `PREFIX bodi: <http://w3id.org/bodi#>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
SELECT ?hash (COUNT(?inst) AS ?count) WHERE {
  ?inst bodi:hasHashCode ?f . ?f rdf:value ?hash .
} GROUP BY ?hash HAVING(COUNT(?inst) > 1) ORDER BY DESC(?count)`,
		},
	)

	// 5. Advanced consistency.
	c = append(c,
		Check{
			Name: "path_format_invalid_ask", Description: "Location path label empty or not starting with /", Category: CategoryAdvancedConsistency, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX prov: <http://www.w3.org/ns/prov#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
ASK { ?loc a prov:Location . ?loc rdfs:label ?path . FILTER(!STRSTARTS(STR(?path), "/")) }`,
		},
		Check{
			Name: "multiple_paths_per_instantiation_ask", Description: "Instantiation with more than one Location", Category: CategoryAdvancedConsistency, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX prov: <http://www.w3.org/ns/prov#>
ASK {
  SELECT ?inst (COUNT(?loc) AS ?n) WHERE { ?inst prov:atLocation ?loc . } GROUP BY ?inst HAVING(?n > 1)
}`,
		},
		Check{
			Name: "instantiations_without_metadata_count", Description: "Instantiations with no TechnicalMetadata (expected for record sets)", Category: CategoryAdvancedConsistency, Kind: KindCount,
			SPARQL: `PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
PREFIX bodi: <http://w3id.org/bodi#>
SELECT (COUNT(?i) AS ?count) WHERE { ?i a rico:Instantiation . FILTER NOT EXISTS { ?i bodi:hasTechnicalMetadata ?m . } }`,
		},
		Check{
			Name: "files_with_children_ask", Description: "Record incorrectly used as a container", Category: CategoryAdvancedConsistency, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
ASK { ?r a rico:Record . ?child rico:isOrWasIncludedIn ?r . }`,
		},
		Check{
			Name: "location_duplicates_check", Description: "Two Instantiations sharing the exact same Location label", Category: CategoryAdvancedConsistency, Kind: KindAskExpectFalse,
			SPARQL: `PREFIX prov: <http://www.w3.org/ns/prov#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
ASK {
  SELECT ?path (COUNT(DISTINCT ?inst) AS ?n) WHERE {
    ?inst prov:atLocation ?loc . ?loc rdfs:label ?path .
  } GROUP BY ?path HAVING(?n > 1)
}`,
		},
	)

	return c
}
