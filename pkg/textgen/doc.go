// Package textgen is the HTTP client for the Ollama-shaped text generation
// service used to produce human-readable TechnicalDescription text from a
// prompt assembled from an Instantiation's technical metadata. Retries and
// throttling are the caller's responsibility (pkg/enrich/aidescribe.go),
// mirroring pkg/storeclient's division of labor between transport and
// policy.
package textgen
