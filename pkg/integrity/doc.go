/*
Package integrity implements IntegrityChecker's two sub-checks: a count
check reconciling a JSON directory-count inventory against path labels
derived from the graph, and a hash check reconciling a SHA-256 inventory
against (path, hash) pairs read back from the graph.

Both checks reconstruct absolute paths by prefixing a medium's base path
onto the graph's relative Location labels, since the JSON inventories on
both sides store absolute paths. The hash comparison is case-insensitive
and excludes .DS_Store entries on both sides. HashResult.ExitCode maps
the four-set comparison (exact matches, JSON-only, graph-only,
mismatches) to the exit codes the CLI surfaces: 0 full success, 1
partial (missing paths on either side), 2 hash corruption.

DiscoverEndpoint probes a fixed ordered candidate list and picks the
first endpoint answering a COUNT(*) query with HTTP 200, reusing
storeclient.Client.Query as the probe.
*/
package integrity
