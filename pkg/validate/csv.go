package validate

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// metadataTypesDistributionQuery yields one row per TechnicalMetadataType
// label with its usage count across the whole graph.
const metadataTypesDistributionQuery = `
PREFIX bodi: <http://w3id.org/bodi#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?type_label (COUNT(?meta) AS ?count) WHERE {
  ?type a bodi:TechnicalMetadataType .
  ?type rdfs:label ?type_label .
  ?meta bodi:hasTechnicalMetadataType ?type .
} GROUP BY ?type_label ORDER BY DESC(?count)`

// runCSVExport downloads the metadata-types distribution and the MIME-type
// distribution (reusing the mime_type_distribution catalogue check) and
// writes both to a single combined CSV file at cfg.CSVExportPath.
// Produces one csv_export_combined CheckResult: INFO if the file was
// written or no CSVExportPath is configured (then nothing is written),
// FAIL on a query or write error.
func (v *Validator) runCSVExport(ctx context.Context) (CheckResult, error) {
	start := time.Now()
	result := CheckResult{Name: "csv_export_combined", Description: "Combined metadata-types and MIME-types CSV export"}

	if v.cfg.CSVExportPath == "" {
		result.Status = StatusInfo
		result.Error = "no CSVExportPath configured, export skipped"
		result.ExecutionTimeMS = msSince(start)
		return result, nil
	}

	metaRows, err := v.selectRows(ctx, metadataTypesDistributionQuery)
	if err != nil {
		result.Status = StatusFail
		result.Error = err.Error()
		result.ExecutionTimeMS = msSince(start)
		return result, err
	}

	mimeCheck, ok := findCheck("mime_type_distribution")
	var mimeRows []map[string]binding
	if ok {
		mimeRows, err = v.selectRows(ctx, mimeCheck.SPARQL)
		if err != nil {
			result.Status = StatusFail
			result.Error = err.Error()
			result.ExecutionTimeMS = msSince(start)
			return result, err
		}
	}

	if err := writeCombinedCSV(v.cfg.CSVExportPath, metaRows, mimeRows); err != nil {
		result.Status = StatusFail
		result.Error = err.Error()
		result.ExecutionTimeMS = msSince(start)
		return result, err
	}

	result.Status = StatusInfo
	result.ResultCount = len(metaRows) + len(mimeRows)
	result.Details = []map[string]string{
		{"csv_type": "metadata_types", "csv_file": v.cfg.CSVExportPath},
		{"csv_type": "mime_types", "csv_file": v.cfg.CSVExportPath},
	}
	result.ExecutionTimeMS = msSince(start)
	return result, nil
}

func findCheck(name string) (Check, bool) {
	for _, c := range Catalogue {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

func writeCombinedCSV(path string, metaRows, mimeRows []map[string]binding) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"section", "label", "count"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range metaRows {
		label, _ := col(row, "type_label")
		count, _ := col(row, "count")
		if err := w.Write([]string{"metadata_type", label, count}); err != nil {
			return fmt.Errorf("write metadata type row: %w", err)
		}
	}
	for _, row := range mimeRows {
		value, _ := col(row, "value")
		count, _ := col(row, "count")
		if err := w.Write([]string{"mime_type", value, count}); err != nil {
			return fmt.Errorf("write mime type row: %w", err)
		}
	}
	return w.Error()
}
