package validate

import (
	"encoding/json"
	"fmt"
)

type selectResults struct {
	Results struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

type binding struct {
	Value string `json:"value"`
}

// parseBindings decodes a SPARQL SELECT JSON body into its raw binding
// rows, mirrored from pkg/integrity and pkg/enrich since all three parse
// the same wire shape for different binding sets.
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

type askResult struct {
	Boolean bool `json:"boolean"`
}

func parseAsk(body []byte) (bool, error) {
	var out askResult
	if err := json.Unmarshal(body, &out); err != nil {
		return false, fmt.Errorf("parse sparql ask result: %w", err)
	}
	return out.Boolean, nil
}
