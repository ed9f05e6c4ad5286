package structure

import (
	"fmt"
	"strings"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/rdf"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
)

// Ontology classes and predicates used by the structure graph, grounded on
// the RiC-O / PREMIS / PROV-O / bodi terms exercised by the validation
// query battery (rico:Record, rico:RecordSet, rico:Instantiation,
// premis:Fixity, prov:Location, bodi:Algorithm, bodi:hasHashCode,
// bodi:hierarchyDepth, rico:hasCreator, rico:hasOrHadIdentifier,
// rico:hasOrHadInstantiation, rico:includesOrIncluded,
// rico:isOrWasIncludedIn, prov:atLocation).
const (
	classRecord        = rdf.NSRico + "Record"
	classRecordSet     = rdf.NSRico + "RecordSet"
	classInstantiation = rdf.NSRico + "Instantiation"
	classIdentifier    = rdf.NSRico + "Identifier"
	classFixity        = rdf.NSPremis + "Fixity"
	classLocation      = rdf.NSProv + "Location"
	classAlgorithm     = rdf.NSBodi + "Algorithm"
	classActivity      = rdf.NSRico + "Activity"
	classStorageMedium = rdf.NSBodi + "StorageMedium"
	classStorageLoc    = rdf.NSBodi + "StorageLocation"

	predType               = rdf.NSRDF + "type"
	predLabel              = rdf.NSRDFS + "label"
	predValue              = rdf.NSRDF + "value"
	predHasIdentifier      = rdf.NSRico + "hasOrHadIdentifier"
	predHasInstantiation   = rdf.NSRico + "hasOrHadInstantiation"
	predIncludes           = rdf.NSRico + "includesOrIncluded"
	predIncludedIn         = rdf.NSRico + "isOrWasIncludedIn"
	predAtLocation         = rdf.NSProv + "atLocation"
	predHierarchyDepth     = rdf.NSBodi + "hierarchyDepth"
	predHasHashCode        = rdf.NSBodi + "hasHashCode"
	predHasCreator         = rdf.NSRico + "hasCreator"
	predOccurredAtDate     = rdf.NSRico + "occurredAtDate"
	predPerformedBy        = rdf.NSRico + "isOrWasPerformedBy"
	predWasGeneratedBy     = rdf.NSProv + "wasGeneratedBy"
	predStoredOn           = rdf.NSBodi + "storedOn"

	classDate               = rdf.NSRico + "Date"
	predNormalizedDateValue = rdf.NSBodi + "normalizedDateValue"
	predExpressedDate       = rdf.NSBodi + "expressedDate"
)

// RS1ContainerLabel is the human label given to the shared RS1 container
// entity linking the three storage media.
const RS1ContainerLabel = "Archivio Evangelisti"

// institutionLabel is the custody institution attached to every
// StorageLocation, derived from the base IRI's host institution.
const institutionLabel = "Dipartimento di Filologia Classica e Italianistica (FICLIT), Università di Bologna"

// Builder accumulates one medium's structure graph in memory and flushes
// it in a single pass.
type Builder struct {
	medium         string
	graphIRI       string
	writer         *rdf.Writer
	today          string
	todayExpressed string
	hashActivity   bool
}

// New creates a Builder targeting the structure graph for rootID
// (the medium's well-known root RecordSet ID).
func New(medium, rootID string, today time.Time) *Builder {
	return &Builder{
		medium:         medium,
		graphIRI:       rdf.StructureGraphIRI(rootID),
		writer:         rdf.NewWriter(),
		today:          today.Format("2006-01-02"),
		todayExpressed: today.Format("02 January 2006"),
	}
}

// Writer exposes the accumulated quads for flushing.
func (b *Builder) Writer() *rdf.Writer { return b.writer }

// GraphIRI returns the deterministic structure graph IRI this builder
// targets.
func (b *Builder) GraphIRI() string { return b.graphIRI }

func (b *Builder) quad(s, p string, o rdf.Term) {
	b.writer.Add(rdf.Quad{
		Subject:   rdf.NewIRI(s),
		Predicate: rdf.NewIRI(p),
		Object:    o,
		Graph:     rdf.NewIRI(b.graphIRI),
	})
}

func (b *Builder) quadIRI(s, p, oIRI string) { b.quad(s, p, rdf.NewIRI(oIRI)) }

// BuildContainer emits the shared RS1 container entity and links it to
// rootID as its included RecordSet. Safe to call once per pipeline run;
// callers running one Builder per medium each emit the same RS1 triples
// into their own graph, which is harmless since the subject IRI is stable.
func (b *Builder) BuildContainer(rootID string) {
	rs1 := rdf.EntityIRI(types.RootContainerID)
	b.quadIRI(rs1, predType, classRecordSet)
	b.quad(rs1, predLabel, rdf.NewString(RS1ContainerLabel))
	b.emitIdentifier(rs1, types.RootContainerID)

	rootEntity := rdf.EntityIRI(rootID)
	b.quadIRI(rs1, predIncludes, rootEntity)
	b.quadIRI(rootEntity, predIncludedIn, rs1)
}

// BuildRoot emits a well-known root RecordSet with its overridden human
// label and its StorageLocation/StorageMedium chain.
func (b *Builder) BuildRoot(rootID, humanLabel string) {
	root := rdf.EntityIRI(rootID)
	b.quadIRI(root, predType, classRecordSet)
	b.quad(root, predLabel, rdf.NewString(humanLabel))
	b.emitIdentifier(root, rootID)

	medium := rdf.EntityIRI(rootID + "_medium")
	b.quadIRI(medium, predType, classStorageMedium)
	b.quad(medium, predLabel, rdf.NewString(humanLabel))
	b.quadIRI(root, predStoredOn, medium)

	location := rdf.EntityIRI(rootID + "_location")
	b.quadIRI(location, predType, classStorageLoc)
	b.quad(location, predLabel, rdf.NewString(institutionLabel))
	b.quadIRI(medium, predAtLocation, location)
}

// BuildNode emits the entity, identifier, instantiation, location, and
// (for files) fixity triples for a single walker event, plus the
// hierarchy links to its parent. root is true only for the medium's
// top-level node, which never gets an Instantiation (it has a
// StorageLocation/StorageMedium chain instead, emitted by BuildRoot).
func (b *Builder) BuildNode(ev types.WalkEvent, relPath string, hash *types.HashResult, root bool) {
	entity := rdf.EntityIRI(ev.ID)
	label := baseName(ev.Path)

	class := classRecord
	if ev.Kind == types.KindRecordSet {
		class = classRecordSet
	}
	b.quadIRI(entity, predType, class)
	b.quad(entity, predLabel, rdf.NewString(label))
	b.emitIdentifier(entity, ev.ID)

	if !root {
		b.emitInstantiation(ev, entity, relPath, hash)
	}

	if ev.ParentID != "" {
		parent := rdf.EntityIRI(ev.ParentID)
		b.quadIRI(parent, predIncludes, entity)
		b.quadIRI(entity, predIncludedIn, parent)
	}
}

func (b *Builder) emitIdentifier(entity, id string) {
	identifier := rdf.IdentifierIRI(id)
	b.quadIRI(identifier, predType, classIdentifier)
	b.quad(identifier, predLabel, rdf.NewString(id))
	b.quadIRI(entity, predHasIdentifier, identifier)
}

func (b *Builder) emitInstantiation(ev types.WalkEvent, entity, relPath string, hash *types.HashResult) {
	inst := rdf.InstantiationIRI(ev.ID)
	b.quadIRI(inst, predType, classInstantiation)
	b.quadIRI(entity, predHasInstantiation, inst)
	b.quad(inst, predHierarchyDepth, rdf.NewTyped(fmt.Sprintf("%d", ev.Depth), rdf.NSXSD+"integer"))

	location := rdf.LocationIRI(ev.ID)
	b.quadIRI(location, predType, classLocation)
	b.quad(location, predLabel, rdf.NewString(relPath))
	b.quadIRI(inst, predAtLocation, location)

	if ev.ParentID != "" {
		parentInst := rdf.InstantiationIRI(ev.ParentID)
		b.quadIRI(parentInst, predIncludes, inst)
		b.quadIRI(inst, predIncludedIn, parentInst)
	}

	if ev.Kind != types.KindRecord || hash == nil {
		return
	}
	b.emitFixity(ev.ID, inst, hash)
}

func (b *Builder) emitFixity(id, inst string, hash *types.HashResult) {
	fixity := rdf.FixityIRI(id)
	b.quadIRI(fixity, predType, classFixity)
	b.quad(fixity, predValue, rdf.NewString(strings.ToLower(hash.SHA256)))
	b.quadIRI(fixity, predHasCreator, rdf.AlgorithmSHA256IRI)
	b.quadIRI(inst, predHasHashCode, fixity)
	b.quadIRI(fixity, predWasGeneratedBy, rdf.EntityIRI("hashactivity_"+b.today))

	b.emitHashActivity()
}

// emitHashActivity emits the run's shared HashActivity, the singleton
// SHA-256 Algorithm, and the canonical Date entity for today, once per
// builder.
func (b *Builder) emitHashActivity() {
	if b.hashActivity {
		return
	}
	b.hashActivity = true

	b.quadIRI(rdf.AlgorithmSHA256IRI, predType, classAlgorithm)
	b.quad(rdf.AlgorithmSHA256IRI, predLabel, rdf.NewString("SHA-256"))

	dateIRI := rdf.DateIRI(b.today)
	b.quadIRI(dateIRI, predType, classDate)
	b.quad(dateIRI, predNormalizedDateValue, rdf.NewDate(b.today))
	b.quad(dateIRI, predExpressedDate, rdf.NewString(b.todayExpressed))

	activity := rdf.EntityIRI("hashactivity_" + b.today)
	b.quadIRI(activity, predType, classActivity)
	b.quadIRI(activity, predOccurredAtDate, dateIRI)
	b.quadIRI(activity, predPerformedBy, rdf.AlgorithmSHA256IRI)
}

func baseName(path string) string {
	idx := strings.LastIndexAny(path, `/\`)
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
