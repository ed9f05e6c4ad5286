package storeclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceExists_TrueWhenListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/namespace", r.URL.Path)
		w.Write([]byte("<html>kb evangelisti</html>"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	exists, err := c.NamespaceExists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNamespaceExists_FalseWhenAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>kb other</html>"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	exists, err := c.NamespaceExists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadQuads_PostsRawNQuadsBody(t *testing.T) {
	var gotContentType, gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	err := c.LoadQuads(context.Background(), []byte("<a> <b> <c> .\n"))
	require.NoError(t, err)

	assert.Equal(t, "/namespace/evangelisti", gotPath)
	assert.Equal(t, "application/n-quads", gotContentType)
	assert.Equal(t, "<a> <b> <c> .\n", string(gotBody))
}

func TestLoadQuads_ErrorsOnHTTPFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	err := c.LoadQuads(context.Background(), []byte("<a> <b> <c> .\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestQuery_SendsFormEncodedQuery(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(`{"results":{"bindings":[]}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	res, err := c.Query(context.Background(), "integrity", "select", "SELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)

	assert.Contains(t, gotBody, "query=")
	assert.True(t, strings.Contains(gotBody, "SELECT"))
	assert.Equal(t, "application/sparql-results+json", res.ContentType)
}

func TestClearAll_IssuesUpdateForm(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	err := c.ClearAll(context.Background(), "driver")
	require.NoError(t, err)
	assert.Contains(t, gotBody, "update=CLEAR")
}
