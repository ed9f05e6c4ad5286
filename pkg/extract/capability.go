package extract

import "context"

// Capability is the contract shared by all three metadata tools: given
// a list of absolute file paths and a scratch workspace
// directory, produce a mapping path → {field: value} plus a confidence
// number per path.
type Capability interface {
	// Name identifies the capability in metrics, logs, and TechnicalMetadataType
	// keys ("FS", "AT", "ET" for FormatIdentifier/ContentExtractor(AT=Apache
	// Tika)/MediaExtractor(ET=ExifTool)).
	Name() string
	// Extract runs the capability over paths, using workspace as scratch
	// space (the caller owns its lifecycle: create before, remove after).
	Extract(ctx context.Context, paths []string, workspace string) (Result, error)
}

// Result is one capability invocation's output.
type Result struct {
	// Fields maps an absolute path to its extracted (field, value) pairs.
	Fields map[string]map[string]string
	// Confidence maps an absolute path to the tool's confidence, when the
	// underlying tool reports one (zero value means "not reported").
	Confidence map[string]float64
}

func newResult() Result {
	return Result{Fields: map[string]map[string]string{}, Confidence: map[string]float64{}}
}

func (r *Result) set(path, field, value string) {
	m, ok := r.Fields[path]
	if !ok {
		m = map[string]string{}
		r.Fields[path] = m
	}
	m[field] = value
}
