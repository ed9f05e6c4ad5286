/*
Package events implements a small in-process publish/subscribe broker used
to surface per-stage and per-file progress lines without coupling the
pipeline stages to the CLI that prints them.

	FSWalker ──┐
	HashWorker ─┼─► Broker.Publish(Event) ──► fan-out ──► CLI subscriber (prints progress)
	Loader ─────┤                                     ├─► log subscriber (structured logs)
	Validator ──┘                                     └─► any other subscriber

A Broker has one internal buffered channel and broadcasts to every
subscriber's own buffered channel; a slow or absent subscriber never blocks
publishers — events are dropped for that subscriber instead.
*/
package events
