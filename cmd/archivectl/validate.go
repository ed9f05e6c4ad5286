package main

import (
	"fmt"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the validation query battery against a loaded medium",
	RunE:  runValidate,
}

func init() {
	addCommonFlags(validateCmd)
	validateCmd.Flags().String("level", "full", "Validation level: basic or full")
	validateCmd.Flags().String("csv-export", "", "Path to write the combined distribution CSV export (enables the csv_export category)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	medium, _ := cmd.Flags().GetString("medium")
	level, _ := cmd.Flags().GetString("level")
	csvExport, _ := cmd.Flags().GetString("csv-export")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newStoreClient(cfg)
	if err != nil {
		return err
	}

	queryDelay, err := time.ParseDuration(cfg.String("validate.query-delay"))
	if err != nil {
		return fmt.Errorf("parse validate.query-delay: %w", err)
	}
	categoryDelay, err := time.ParseDuration(cfg.String("validate.category-delay"))
	if err != nil {
		return fmt.Errorf("parse validate.category-delay: %w", err)
	}

	validator := validate.New(client, validate.Config{
		Level:         level,
		QueryDelay:    queryDelay,
		CategoryDelay: categoryDelay,
		CSVExportPath: csvExport,
	})

	report, err := validator.RunSuite(cmd.Context())
	if err != nil {
		return fmt.Errorf("run validation suite: %w", err)
	}

	outPath, err := workspacePath(cmd, medium, "validation_report.json")
	if err != nil {
		return err
	}
	if err := writeJSONFile(outPath, report); err != nil {
		return err
	}

	fmt.Printf("✓ validation complete for %s: %d/%d categories passed (report: %s)\n",
		medium, len(report.SuccessfulCategories), len(report.Categories), outPath)

	if len(report.FailedCategories) > 0 {
		return fmt.Errorf("validation categories failed: %v", report.FailedCategories)
	}
	return nil
}
