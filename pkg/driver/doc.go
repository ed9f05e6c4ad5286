/*
Package driver implements PipelineDriver: the per-medium sequencer that
runs FSWalker, HashWorker, StructureBuilder, NQuadsLoader, IntegrityChecker,
MetadataOrchestrator, GraphEnricher, and Validator in a fixed order,
recording a per-stage status in a final JSON report.

Run walks a fixed []Stage list, publishing pkg/events progress as it
goes, so the CLI can print one line per stage as each completes.

Stages are classified critical, verification, or tolerant: failure of a
critical or verification stage aborts the remaining stages and marks the
run failed; a tolerant stage's failure is recorded but the run continues
(GraphEnricher and Validator are tolerant).

The driver itself does not know how to walk a filesystem or compute a
hash — each Stage wraps a closure supplied by the caller (cmd/archivectl),
keeping pkg/driver free of a dependency on every other package's concrete
types.
*/
package driver
