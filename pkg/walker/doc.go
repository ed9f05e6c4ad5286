/*
Package walker implements FSWalker: a deterministic, left-to-right,
case-insensitive-alphabetic, single-threaded traversal of one storage
medium's root folder.

Each visited node is assigned an archival ID following the scheme: the first folder under parent P gets P_RS1, the second P_RS2, ...;
the first file under P gets P_R1, the second P_R2, ... Counters are
per-parent and reset at every directory. The walker never follows
symlinks and never crosses a mount point into a different device; both
are skipped with a debug log line rather than an error, since they are
not failures. A read error on a single path (permission denied, I/O
error) is recorded in the returned error list and traversal continues
everywhere else.

The ordered []types.WalkEvent result is the sole input StructureBuilder
needs to mint entities and hierarchy links; per-path visits and errors
are also published to an events.Broker so a CLI subscriber can print
progress without walker depending on the CLI.
*/
package walker
