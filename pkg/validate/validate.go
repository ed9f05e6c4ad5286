package validate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/metrics"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/rs/zerolog"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusWarning Status = "WARNING"
	StatusInfo    Status = "INFO"
)

// DefaultQueryDelay and DefaultCategoryDelay pace the suite so a heavily
// loaded triple store can rest between queries and between categories.
const (
	DefaultQueryDelay    = 3 * time.Second
	DefaultCategoryDelay = 8 * time.Second
)

// Config configures a Validator run.
type Config struct {
	Level         string // "basic" or "full"; zero value is "full"
	QueryDelay    time.Duration
	CategoryDelay time.Duration
	CSVExportPath string // when set, the CSV export category writes here
}

// Validator runs the validation catalogue against a triple store.
type Validator struct {
	client *storeclient.Client
	cfg    Config
	logger zerolog.Logger
}

// New creates a Validator.
func New(client *storeclient.Client, cfg Config) *Validator {
	if cfg.Level == "" {
		cfg.Level = "full"
	}
	if cfg.QueryDelay <= 0 {
		cfg.QueryDelay = DefaultQueryDelay
	}
	if cfg.CategoryDelay <= 0 {
		cfg.CategoryDelay = DefaultCategoryDelay
	}
	return &Validator{
		client: client,
		cfg:    cfg,
		logger: log.WithComponent("validate"),
	}
}

// CheckResult is the outcome of one catalogue check.
type CheckResult struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Status          Status              `json:"status"`
	ResultCount     int                 `json:"result_count"`
	Details         []map[string]string `json:"details,omitempty"`
	ExecutionTimeMS float64             `json:"execution_time_ms"`
	Error           string              `json:"error,omitempty"`
}

// CategoryResult groups every check's outcome under its category.
type CategoryResult struct {
	Category string        `json:"category"`
	Checks   []CheckResult `json:"checks"`
	Failed   bool          `json:"failed"`
}

// Report is the full suite outcome JSON report.
type Report struct {
	Level              string           `json:"level"`
	Categories         []CategoryResult `json:"categories"`
	FailedCategories   []string         `json:"failed_categories,omitempty"`
	SuccessfulCategories []string       `json:"successful_categories"`
}

// RunSuite runs the catalogue's categories for the configured Level,
// fault-tolerant: a failing check is recorded as FAIL and the suite
// continues with the remaining checks and categories.
func (v *Validator) RunSuite(ctx context.Context) (*Report, error) {
	categories := AllCategories
	if v.cfg.Level == "basic" {
		categories = BasicCategories
	}

	report := &Report{Level: v.cfg.Level}

	for i, category := range categories {
		result := v.runCategory(ctx, category)
		report.Categories = append(report.Categories, result)
		if result.Failed {
			report.FailedCategories = append(report.FailedCategories, category)
		} else {
			report.SuccessfulCategories = append(report.SuccessfulCategories, category)
		}

		if i < len(categories)-1 {
			v.sleep(ctx, v.cfg.CategoryDelay)
		}
	}

	return report, nil
}

func (v *Validator) runCategory(ctx context.Context, category string) CategoryResult {
	result := CategoryResult{Category: category}

	if category == CategoryCSVExport {
		check, err := v.runCSVExport(ctx)
		result.Checks = append(result.Checks, check)
		if err != nil {
			result.Failed = true
		}
		return result
	}

	checks := checksInCategory(category)
	for i, check := range checks {
		outcome := v.runCheck(ctx, check)
		result.Checks = append(result.Checks, outcome)
		if outcome.Status == StatusFail {
			result.Failed = true
		}
		metrics.ValidationChecksTotal.WithLabelValues(category, string(outcome.Status)).Inc()

		if i < len(checks)-1 {
			v.sleep(ctx, v.cfg.QueryDelay)
		}
	}
	return result
}

func checksInCategory(category string) []Check {
	var out []Check
	for _, c := range Catalogue {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

func (v *Validator) runCheck(ctx context.Context, check Check) CheckResult {
	start := time.Now()
	result := CheckResult{Name: check.Name, Description: check.Description}

	switch check.Kind {
	case KindAskExpectFalse:
		res, err := v.client.Query(ctx, "validate", "ask", check.SPARQL)
		result.ExecutionTimeMS = msSince(start)
		if err != nil {
			result.Status = StatusFail
			result.Error = err.Error()
			v.logger.Warn().Err(err).Str("check", check.Name).Msg("check query failed")
			return result
		}
		boolVal, err := parseAsk(res.Body)
		if err != nil {
			result.Status = StatusFail
			result.Error = err.Error()
			return result
		}
		if boolVal {
			result.Status = StatusFail
		} else {
			result.Status = StatusPass
		}
		return result

	case KindCount:
		rows, err := v.selectRows(ctx, check.SPARQL)
		result.ExecutionTimeMS = msSince(start)
		if err != nil {
			result.Status = StatusFail
			result.Error = err.Error()
			v.logger.Warn().Err(err).Str("check", check.Name).Msg("check query failed")
			return result
		}
		count := 0
		if len(rows) > 0 {
			if raw, ok := col(rows[0], "count"); ok {
				count, _ = strconv.Atoi(raw)
			}
		}
		result.ResultCount = count
		if count == 0 && check.ZeroIsWarning {
			result.Status = StatusWarning
		} else {
			result.Status = StatusInfo
		}
		return result

	case KindDistribution:
		rows, err := v.selectRows(ctx, check.SPARQL)
		result.ExecutionTimeMS = msSince(start)
		if err != nil {
			result.Status = StatusFail
			result.Error = err.Error()
			v.logger.Warn().Err(err).Str("check", check.Name).Msg("check query failed")
			return result
		}
		result.Status = StatusInfo
		result.ResultCount = len(rows)
		result.Details = flattenRows(rows)
		return result

	default:
		result.Status = StatusFail
		result.Error = fmt.Sprintf("unknown check kind %q", check.Kind)
		return result
	}
}

func (v *Validator) selectRows(ctx context.Context, sparql string) ([]map[string]binding, error) {
	res, err := v.client.Query(ctx, "validate", "select", sparql)
	if err != nil {
		return nil, err
	}
	return parseBindings(res.Body)
}

func flattenRows(rows []map[string]binding) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		flat := make(map[string]string, len(row))
		for k, b := range row {
			flat[k] = b.Value
		}
		out = append(out, flat)
	}
	return out
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

func (v *Validator) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
	metrics.ValidatorThrottleWaitSeconds.Add(d.Seconds())
}
