package integrity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// selectResults is the minimal SPARQL 1.1 Query Results JSON Format
// needed to read SELECT bindings.
type selectResults struct {
	Results struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

type binding struct {
	Value string `json:"value"`
}

func parseSelectPathKind(body []byte) ([]pathEntry, error) {
	var res selectResults
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parse sparql results: %w", err)
	}

	entries := make([]pathEntry, 0, len(res.Results.Bindings))
	for _, b := range res.Results.Bindings {
		p, ok := b["path"]
		if !ok {
			continue
		}
		k := b["kind"]
		entries = append(entries, pathEntry{Path: p.Value, Kind: classifyKind(k.Value)})
	}
	return entries, nil
}

func classifyKind(typeIRI string) string {
	if strings.HasSuffix(typeIRI, "Record") {
		return "record"
	}
	return "recordset"
}

func parseSelectPathHash(body []byte) (map[string]string, error) {
	var res selectResults
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parse sparql results: %w", err)
	}

	out := map[string]string{}
	for _, b := range res.Results.Bindings {
		p, ok := b["path"]
		if !ok {
			continue
		}
		h, ok := b["hash"]
		if !ok {
			continue
		}
		out[p.Value] = h.Value
	}
	return out, nil
}
