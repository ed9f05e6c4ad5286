package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is a flat key/value settings map resolved once at CLI startup.
// Precedence, highest first: CLI flag > environment variable > JSON config
// file > built-in default. There is no config library here: the merge is a
// handful of map overlays, simple enough to audit directly.
type Config struct {
	values map[string]string
}

// Defaults returns the built-in defaults for the ingest pipeline.
func Defaults() map[string]string {
	return map[string]string{
		"store.endpoint":           "http://localhost:9999/blazegraph",
		"store.namespace":          "evangelisti",
		"store.timeout":            "1h",
		"store.chunk-threshold":    "524288000", // 500 MiB
		"hash.workers":             "4",
		"hash.block-size":          "8192",
		"extract.chunk-size":       "100",
		"extract.format-batch-max": "25",
		"extract.extractor-timeout": "5m",
		"extract.service-start-timeout": "30s",
		"enrich.chunk-size":        "1000",
		"enrich.target-graph":      "http://ficlit.unibo.it/ArchivioEvangelisti/updated_relations",
		"validate.query-delay":     "3s",
		"validate.category-delay":  "8s",
		"textgen.endpoint":         "http://localhost:11434",
		"textgen.model":            "llama3",
		"sidecar.checkpoint-every": "100",
	}
}

// Load resolves a Config from defaults, an optional JSON file, environment
// variables (prefixed "INGEST_", dots replaced with underscores, upper-
// cased — e.g. "store.endpoint" -> "INGEST_STORE_ENDPOINT"), and explicit
// CLI overrides, applied in that order so each source wins over the last.
func Load(configPath string, overrides map[string]string) (*Config, error) {
	values := Defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		var fileValues map[string]string
		if err := json.Unmarshal(data, &fileValues); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}

	for key := range values {
		envKey := "INGEST_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if v, ok := os.LookupEnv(envKey); ok {
			values[key] = v
		}
	}

	for k, v := range overrides {
		if v != "" {
			values[k] = v
		}
	}

	return &Config{values: values}, nil
}

// String returns a value as-is, or "" if unset.
func (c *Config) String(key string) string {
	return c.values[key]
}

// Int parses a value as an integer, returning an error naming the key on
// failure so callers don't need to.
func (c *Config) Int(key string) (int, error) {
	v, ok := c.values[key]
	if !ok {
		return 0, fmt.Errorf("config key %q not set", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config key %q: %w", key, err)
	}
	return n, nil
}

// Set overrides a single key, used by CLI flag binding.
func (c *Config) Set(key, value string) {
	c.values[key] = value
}

// All returns a copy of the resolved map, for debugging/export.
func (c *Config) All() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}
