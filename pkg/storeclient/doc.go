/*
Package storeclient is the sole HTTP client to the triple store:
namespace introspection and creation, bulk N-Quads load, and SPARQL
query/update. The pipeline never speaks anything but HTTP+SPARQL 1.1 to
the store — the concrete triple store product is an external
collaborator.

Every method wraps a context.WithTimeout'd request around one shared,
caller-configurable *http.Client. NQuadsLoader, IntegrityChecker,
GraphEnricher, and Validator all depend on this package rather than
talking HTTP directly.
*/
package storeclient
