/*
Package structure implements StructureBuilder: given FSWalker's event
stream and HashWorker's inventory, it emits the archival structure graph
described in — Record/RecordSet entities, Identifiers,
Instantiations with Location and hierarchy depth, Fixity for files, and
the inverse includesOrIncluded/isOrWasIncludedIn hierarchy edges between
both entities and their instantiations.

Predicate and class IRIs are grounded on the RiC-O/PREMIS/PROV-O/bodi
terms the validation query battery actually checks for (rico:Record,
rico:RecordSet, rico:Instantiation, premis:Fixity, prov:Location,
bodi:Algorithm, bodi:hasHashCode, bodi:hierarchyDepth, rico:hasCreator,
rico:hasOrHadIdentifier, rico:hasOrHadInstantiation,
rico:includesOrIncluded, rico:isOrWasIncludedIn, prov:atLocation,
rdf:value). The StorageLocation/StorageMedium chain and the RS1 shared
container label have no directly attested predicate in that corpus; this
package mints bodi:storedOn for root→StorageMedium and reuses
prov:atLocation for StorageMedium→StorageLocation, recorded as an open
design decision.

A Builder accumulates one medium's graph in an in-memory rdf.Writer and
is flushed once at the end of the pass "graph is
written in one pass" requirement.
*/
package structure
