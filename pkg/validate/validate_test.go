package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTripleStore answers any ASK with false, any SELECT/distribution
// query with an empty binding set, so every check in the catalogue
// resolves without error regardless of category.
func fakeTripleStore(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/sparql-results+json")
		query := r.FormValue("query")
		if strings.Contains(strings.ToUpper(query), "ASK") {
			w.Write([]byte(`{"head":{},"boolean":false}`))
			return
		}
		w.Write([]byte(`{"head":{"vars":[]},"results":{"bindings":[]}}`))
	}))
}

func TestRunSuite_ThrottlesBetweenChecksAndCategories(t *testing.T) {
	srv := fakeTripleStore(t)
	defer srv.Close()

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})

	delay := 20 * time.Millisecond
	v := New(client, Config{Level: "basic", QueryDelay: delay, CategoryDelay: delay})

	checksCount := len(checksInCategory(CategoryGeneralStatistics)) + len(checksInCategory(CategoryStructuralIntegrity))
	require.Greater(t, checksCount, 2, "expected the basic-level categories to carry multiple checks")

	start := time.Now()
	report, err := v.RunSuite(context.Background())
	elapsed := time.Since(start)
	require.NoError(t, err)

	// one inter-category gap plus one inter-check gap per category with >1 check.
	minGaps := 1
	for _, cat := range BasicCategories {
		if n := len(checksInCategory(cat)); n > 1 {
			minGaps += n - 1
		}
	}
	assert.GreaterOrEqual(t, elapsed, time.Duration(minGaps)*delay)
	assert.Len(t, report.Categories, len(BasicCategories))
}

func TestRunSuite_FaultTolerantAcrossCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	v := New(client, Config{Level: "basic", QueryDelay: time.Millisecond, CategoryDelay: time.Millisecond})

	report, err := v.RunSuite(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Categories, len(BasicCategories))
	assert.NotEmpty(t, report.FailedCategories)
	for _, cat := range report.Categories {
		assert.True(t, cat.Failed)
	}
}
