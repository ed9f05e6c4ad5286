/*
Package hashworker implements HashWorker: streams each file in 8 KiB
blocks into a SHA-256 hasher using a goroutine-per-file worker pool
bounded by min(4, runtime.NumCPU()).

Reruns are resumable: Run reloads the prior inventory at inventoryPath
and reuses a file's previous hash when its size and mtime are unchanged,
hashing only new or modified files. The inventory is rewritten with an
atomic temp-file-plus-rename on every call.

A read error on a single file is recorded in the returned error list;
hashing of every other file continues.
*/
package hashworker
