/*
Package validate implements the Validator: a catalogue of SPARQL checks run
against the loaded graph to verify structural and metadata consistency.

The catalogue groups its checks into five categories (general statistics,
structural integrity, metadata validation, hash validation, advanced
consistency) plus a CSV export category. Each check is either a COUNT
query (reported as INFO), an ASK query expected false (FAIL if true), or
a SELECT distribution (reported as INFO with its row count).

The suite is fault-tolerant: a failing check is recorded as FAIL with its
error message and the suite continues with subsequent categories.
Throttling paces individual queries (default 3s) and categories (default
8s) to avoid overloading the triple store.
*/
package validate
