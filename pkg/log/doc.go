/*
Package log provides structured logging for the ingest pipeline using zerolog.

It wraps zerolog to give every stage (walker, hashworker, structure, loader,
integrity, extract, enrich, validate, driver) a component-scoped child
logger, a single global level/format configuration, and helper constructors
for the fields that show up on nearly every line: component, medium
(floppy/hd/hdexternal), and stage.

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│  Logger (global, zerolog.Logger)                         │
	│    initialized via log.Init(Config)                      │
	│         │                                                 │
	│         ├── WithComponent("walker")                       │
	│         ├── WithMedium("hdexternal")                      │
	│         └── WithStage("integrity.hash")                   │
	│                                                            │
	│  Output: console (human, default) or JSON (--log-json),  │
	│  optionally teed to a dated JSON file (Config.FilePath)   │
	└────────────────────────────────────────────────────────────┘

Component loggers are cheap to create (they clone the global logger's
context) so callers build one per stage invocation rather than caching it.
*/
package log
