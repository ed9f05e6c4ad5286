/*
Package config resolves the pipeline's flat key/value settings map.

Precedence, highest first: CLI flag > environment variable ("INGEST_" prefix)
> JSON config file > built-in default (Defaults()). There is no config
library wired in here — ledgered in DESIGN.md as an intentionally
stdlib-only ambient concern, since the merge is a three-source map overlay
rather than anything a library like viper would meaningfully simplify.

	cfg, err := config.Load("/etc/ingest/config.json", map[string]string{
		"store.endpoint": flagEndpoint,
	})
	workers, _ := cfg.Int("hash.workers")
*/
package config
