/*
Package rdf is the shared N-Quads quad model, writer, and IRI schema used
by StructureBuilder, MetadataOrchestrator, GraphEnricher, and the AI
description pass.

Term is either an IRI or a literal (optionally typed or language-tagged);
Quad is subject/predicate/object plus an optional named graph. Format()
renders one N-Quads line; Writer accumulates quads and flushes them to a
file on demand, supporting both a single end-of-pass flush
(StructureBuilder, the enricher) and the orchestrator's every-N-tuples
flush.

The IRI-minting functions (EntityIRI, InstantiationIRI, DateIRI, ...)
implement the bit-exact IRI schema. They are not the only place IRIs are
built: some callers in other packages append an escaped segment to
BaseIRI themselves.
*/
package rdf
