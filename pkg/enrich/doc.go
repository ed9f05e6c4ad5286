/*
Package enrich implements GraphEnricher: post-load SPARQL-driven passes
that read the already-loaded graph and write derived edges/entities back
into a dedicated named graph.

Group A passes need only graph contents (hash-duplicate cliques, creation/
modification dates, title generation). Group B passes need external
static knowledge (the ten TechnicalMetadataTypeSet classes, type-to-set
classification, owl:sameAs equivalence closure, MIME-type classification).
Group C is WorkLinker (bibliographic Work propagation from a spreadsheet
export) and Group D generates TechnicalDescription blurbs via pkg/textgen.

Every pass is idempotent: it checks for the target edge/entity's existence
(via SELECT queries against the graph or by tracking what it just
inserted) before emitting an insert, so passes can re-run in any order
without duplicating edges. Inserts are chunked (default 1000 triples per
SPARQL UPDATE) and every generated quad is also appended to an in-memory
rdf.Writer that Flush writes to Config.ReplayPath, even in dry-run. The
replay file name carries no timestamp: archivectl's enrich and pipeline
commands pass the fixed name enrich_replay.nq in the medium's workspace.
*/
package enrich
