package integrity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sparqlServer(t *testing.T, bindings string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(`{"results":{"bindings":[` + bindings + `]}}`))
	}))
}

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestCountCheck_ReportsMismatch(t *testing.T) {
	bindings := `
		{"path":{"value":"/a.txt"},"kind":{"value":"https://www.ica.org/standards/RiC/ontology#Record"}},
		{"path":{"value":"/b.txt"},"kind":{"value":"https://www.ica.org/standards/RiC/ontology#Record"}}
	`
	srv := sparqlServer(t, bindings)
	defer srv.Close()

	inv := filepath.Join(t.TempDir(), "counts.json")
	writeJSON(t, inv, CountInventory{"/mnt/hd1": {Files: 3, Dirs: 0}})

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	c := New(client)

	result, err := c.CountCheck(context.Background(), "http://g/structure", "/mnt/hd1", inv)
	require.NoError(t, err)
	require.Len(t, result.Mismatched, 1)
	assert.Equal(t, 3, result.Mismatched[0].JSONFiles)
	assert.Equal(t, 2, result.Mismatched[0].GraphFiles)
	assert.False(t, result.Success())
}

func TestCountCheck_ReportsMissingDirectory(t *testing.T) {
	srv := sparqlServer(t, "")
	defer srv.Close()

	inv := filepath.Join(t.TempDir(), "counts.json")
	writeJSON(t, inv, CountInventory{"/mnt/hd1/sub": {Files: 1, Dirs: 0}})

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	c := New(client)

	result, err := c.CountCheck(context.Background(), "http://g/structure", "/mnt/hd1", inv)
	require.NoError(t, err)
	assert.Contains(t, result.Missing, "/mnt/hd1/sub")
}

func TestHashCheck_SuccessWhenHashesMatchCaseInsensitively(t *testing.T) {
	bindings := `{"path":{"value":"/a.txt"},"hash":{"value":"ABCDEF"}}`
	srv := sparqlServer(t, bindings)
	defer srv.Close()

	inv := filepath.Join(t.TempDir(), "hashes.json")
	writeJSON(t, inv, map[string]interface{}{
		"file_hashes": []map[string]string{{"path": "/mnt/hd1/a.txt", "sha256": "abcdef"}},
	})

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	c := New(client)

	result, err := c.HashCheck(context.Background(), "http://g/structure", "/mnt/hd1", inv)
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, ExitSuccess, result.ExitCode())
}

func TestHashCheck_ReportsMismatchAsHashCorruption(t *testing.T) {
	bindings := `{"path":{"value":"/a.txt"},"hash":{"value":"000000"}}`
	srv := sparqlServer(t, bindings)
	defer srv.Close()

	inv := filepath.Join(t.TempDir(), "hashes.json")
	writeJSON(t, inv, map[string]interface{}{
		"file_hashes": []map[string]string{{"path": "/mnt/hd1/a.txt", "sha256": "abcdef"}},
	})

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	c := New(client)

	result, err := c.HashCheck(context.Background(), "http://g/structure", "/mnt/hd1", inv)
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, ExitHashCorrupt, result.ExitCode())
}

func TestHashCheck_ReportsPartialWhenJSONPathMissingFromGraph(t *testing.T) {
	srv := sparqlServer(t, "")
	defer srv.Close()

	inv := filepath.Join(t.TempDir(), "hashes.json")
	writeJSON(t, inv, map[string]interface{}{
		"file_hashes": []map[string]string{{"path": "/mnt/hd1/a.txt", "sha256": "abcdef"}},
	})

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	c := New(client)

	result, err := c.HashCheck(context.Background(), "http://g/structure", "/mnt/hd1", inv)
	require.NoError(t, err)
	assert.Equal(t, ExitPartial, result.ExitCode())
	assert.Contains(t, result.JSONOnly, "/mnt/hd1/a.txt")
}

func TestHashCheck_IgnoresDSStoreEntries(t *testing.T) {
	bindings := `{"path":{"value":"/.DS_Store"},"hash":{"value":"ffffff"}}`
	srv := sparqlServer(t, bindings)
	defer srv.Close()

	inv := filepath.Join(t.TempDir(), "hashes.json")
	writeJSON(t, inv, map[string]interface{}{
		"file_hashes": []map[string]string{{"path": "/mnt/hd1/.DS_Store", "sha256": "ffffff"}},
	})

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	c := New(client)

	result, err := c.HashCheck(context.Background(), "http://g/structure", "/mnt/hd1", inv)
	require.NoError(t, err)
	assert.Empty(t, result.JSONOnly)
	assert.Empty(t, result.GraphOnly)
	assert.True(t, strings.Contains(inv, "hashes.json"))
}
