/*
Package types defines the archival data model shared by every pipeline
stage: the entities StructureBuilder, MetadataOrchestrator, and
GraphEnricher create, and the walker/hash intermediate results that feed
them.

# Core Types

Hierarchy:
  - Record: a file (leaf)
  - RecordSet: a directory (branch); the three well-known roots additionally
    carry a StorageLocation/StorageMedium pair
  - Identifier: the 1:1 unique-id object attached to either

Physical embodiment:
  - Instantiation: one per non-root Record/RecordSet, carries a Location and,
    for files, a Fixity
  - Location, Fixity, Algorithm, HashActivity: fixity bookkeeping

Technical metadata:
  - TechnicalMetadata / TechnicalMetadataType / TechnicalMetadataTypeSet:
    extracted (field, value) records, their controlled vocabulary, and the
    ten fixed coarse categories they classify into
  - Software, Activity: the tool and the event that produced a metadata
    record or an AI-generated TechnicalDescription

Dates and provenance:
  - Date: normalized temporal point, shared per calendar day
  - TechnicalDescription, Work: enrichment-stage outputs

Intermediate results:
  - WalkEvent: FSWalker's ordered output stream
  - HashResult, HashError: HashWorker's JSON inventory entries

All types are plain data; validation and construction live in the
packages that produce them (pkg/walker, pkg/hashworker, pkg/structure,
pkg/extract, pkg/enrich), not here.
*/
package types
