package types

import "time"

// EntityKind distinguishes a Record (file, leaf) from a RecordSet (directory,
// branch) without requiring a type switch on the concrete Go type.
type EntityKind string

const (
	KindRecord    EntityKind = "record"
	KindRecordSet EntityKind = "recordset"
)

// Identifier is the 1:1 unique-id object attached to a Record or RecordSet.
type Identifier struct {
	Label string // equal to the owning entity's ID
}

// Record represents a single file (a leaf in the archival hierarchy).
type Record struct {
	ID         string // e.g. "RS1_RS2_R1"
	Label      string // filename
	ParentID   string
	Depth      int
	Identifier Identifier
}

// RecordSet represents a directory (a branch in the archival hierarchy).
// Three well-known RecordSet IDs ("RS1_RS1", "RS1_RS2", "RS1_RS3") are the
// roots of the three storage media and additionally carry a Location chain.
type RecordSet struct {
	ID         string
	Label      string
	ParentID   string
	Depth      int
	Identifier Identifier
	IsRoot     bool
	Medium     StorageMedium
}

// Location is the 1:1 filesystem path label attached to an Instantiation.
// Value always starts with "/".
type Location struct {
	Path string
}

// Fixity is the SHA-256 fixity value attached to a file's Instantiation.
type Fixity struct {
	Value      string // 64-hex lowercase
	ComputedBy HashActivity
}

// Algorithm is the singleton hash algorithm descriptor ("SHA-256").
type Algorithm struct {
	Label          string
	Characteristic string
}

// HashActivity is the act of computing a Fixity.
type HashActivity struct {
	OccurredAt  Date
	PerformedBy Algorithm
}

// Instantiation is the physical embodiment of a non-root Record or
// RecordSet: one per such entity.
type Instantiation struct {
	EntityID string
	Kind     EntityKind
	Location Location
	Depth    int
	Fixity   *Fixity // nil when hashing failed for this file
}

// Date is a normalized temporal point, shared by canonical IRI per
// calendar day ("date_YYYYMMDD").
type Date struct {
	NormalizedValue string // ISO-8601 date, "YYYY-MM-DD"
	ExpressedDate   string // original human-readable string
	ProvenanceTag   string // e.g. "Derived from embedded metadata"
}

// TechnicalMetadataTypeSet is one of the ten fixed coarse categories a
// TechnicalMetadataType is classified into.
type TechnicalMetadataTypeSet string

const (
	MetadataSetFileSystem     TechnicalMetadataTypeSet = "FileSystem"
	MetadataSetDocumentContent TechnicalMetadataTypeSet = "DocumentContent"
	MetadataSetImage           TechnicalMetadataTypeSet = "Image"
	MetadataSetAudio           TechnicalMetadataTypeSet = "Audio"
	MetadataSetVideo           TechnicalMetadataTypeSet = "Video"
	MetadataSetEmail           TechnicalMetadataTypeSet = "Email"
	MetadataSetExecutable      TechnicalMetadataTypeSet = "Executable"
	MetadataSetCompressedFile  TechnicalMetadataTypeSet = "CompressedFile"
	MetadataSetSecurity        TechnicalMetadataTypeSet = "Security"
	MetadataSetOther           TechnicalMetadataTypeSet = "Other"
)

// TechnicalMetadataType is the field-name controlled vocabulary entry,
// keyed by (tool, field) and shared across instantiations.
type TechnicalMetadataType struct {
	Label       string // field name
	GeneratedBy Software
	Set         TechnicalMetadataTypeSet
}

// TechnicalMetadata is a single extracted (field, value) record attached
// to an Instantiation via hasTechnicalMetadata.
type TechnicalMetadata struct {
	Type        TechnicalMetadataType
	Value       string
	GeneratedBy Activity
}

// Software is an extraction tool (FormatIdentifier/ContentExtractor/
// MediaExtractor implementation, or an LLM model), deduped by label.
type Software struct {
	Label         string
	Documentation string // documentation IRI, may be empty
}

// Activity is a generation/extraction event: one per extraction batch or
// AI-description generation.
type Activity struct {
	Label         string
	OccurredAt    Date
	PerformedBy   Software
	SupervisedBy  string // Person IRI/label, optional
}

// StorageLocation is the physical custody location of a root container.
type StorageLocation struct {
	Label string
}

// StorageMedium is the physical hardware descriptor of a root container,
// linked from a StorageLocation. Exactly three instances exist.
type StorageMedium struct {
	Label    string
	Location StorageLocation
}

// Well-known root IDs and their human-readable labels
const (
	RootHDInternal = "RS1_RS1"
	RootHDExternal = "RS1_RS2"
	RootFloppy     = "RS1_RS3"

	RootHDInternalLabel = "Hard Disk computer"
	RootHDExternalLabel = "Hard Disk esterno"
	RootFloppyLabel     = "Floppy Disks"

	RootContainerID = "RS1"
)

// TechnicalDescription is an AI-generated natural-language blurb attached
// to an eligible Instantiation.
type TechnicalDescription struct {
	Value             string
	HasHumanValidation bool
}

// Work is an optional bibliographic entity representing a logical work in
// a cycle/trilogy, loaded from an external spreadsheet.
type Work struct {
	Label string
}

// WalkEvent is a single item in FSWalker's ordered output stream.
type WalkEvent struct {
	Path     string
	Kind     EntityKind
	Depth    int
	ParentID string
	ID       string
	Medium   string
}

// HashResult is one entry of HashWorker's JSON inventory.
type HashResult struct {
	Path  string
	SHA256 string
	Size   int64
	MTime  time.Time
}

// HashError is one entry of HashWorker's per-path failure list.
type HashError struct {
	Path  string
	Error string
}
