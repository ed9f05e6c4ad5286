/*
Package loader implements NQuadsLoader: uploads N-Quads files to the
triple store via pkg/storeclient, splitting any file over the configured
threshold (default 500 MiB) into line-preserving
chunks so a single POST body never exceeds it.

Chunks upload strictly serially — one at a time, never concurrently —'s scheduling model for NQuadsLoader. A chunk's HTTP ≥ 400
failure is recorded in the returned Report and the loader proceeds to
the next chunk rather than aborting the file; Report.Success reports
whether every chunk succeeded.
*/
package loader
