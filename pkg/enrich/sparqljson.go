package enrich

import (
	"encoding/json"
	"fmt"
)

// selectResults is the minimal SPARQL 1.1 Query Results JSON Format
// needed to read SELECT bindings, mirrored from pkg/integrity since both
// packages parse the same wire shape for different binding sets.
type selectResults struct {
	Results struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

type binding struct {
	Value string `json:"value"`
}

// parseBindings decodes a SPARQL SELECT JSON body into its raw binding
// rows, leaving column extraction to the caller.
func parseBindings(body []byte) ([]map[string]binding, error) {
	var res selectResults
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parse sparql results: %w", err)
	}
	return res.Results.Bindings, nil
}

func col(row map[string]binding, name string) (string, bool) {
	b, ok := row[name]
	if !ok {
		return "", false
	}
	return b.Value, true
}

// unmarshalBool decodes a SPARQL ASK response ({"boolean": true|false}).
func unmarshalBool(body []byte, out interface{}) error {
	return json.Unmarshal(body, out)
}
