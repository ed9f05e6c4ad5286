package enrich

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const typesByLabelResults = `{"head":{"vars":["type","label"]},"results":{"bindings":[
  {"type":{"type":"uri","value":"http://x/tmt_1"},"label":{"type":"literal","value":"FileModifyDate"}},
  {"type":{"type":"uri","value":"http://x/tmt_2"},"label":{"type":"literal","value":"File Modified Date"}},
  {"type":{"type":"uri","value":"http://x/tmt_3"},"label":{"type":"literal","value":"st_mtime"}}
]}}`

func sameAsServer(t *testing.T, existingJSON string) (*httptest.Server, *[]string) {
	var updates []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if q := r.FormValue("query"); q != "" {
			w.Header().Set("Content-Type", "application/sparql-results+json")
			if strings.Contains(q, "sameAs") {
				io.WriteString(w, existingJSON)
			} else {
				io.WriteString(w, typesByLabelResults)
			}
			return
		}
		if u := r.FormValue("update"); u != "" {
			updates = append(updates, u)
			w.WriteHeader(http.StatusOK)
		}
	}))
	return srv, &updates
}

func TestLinkEquivalences_ProducesNChoose2EdgesOnFirstRun(t *testing.T) {
	srv, updates := sameAsServer(t, emptySelectResults)
	defer srv.Close()

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	e := New(client, Config{TargetGraph: "http://x/updated_relations"})

	result, err := e.LinkEquivalences(context.Background())
	require.NoError(t, err)

	// one group of 3 present labels: C(3,2) = 3 edges; the other two
	// groups have no matching labels in the graph.
	assert.Equal(t, 3, result.EdgesAsserted)
	require.Len(t, *updates, 1)
}

func TestLinkEquivalences_NoNewEdgesWhenAlreadyPresent(t *testing.T) {
	existing := `{"head":{"vars":["a","b"]},"results":{"bindings":[
	  {"a":{"type":"uri","value":"http://x/tmt_1"},"b":{"type":"uri","value":"http://x/tmt_2"}},
	  {"a":{"type":"uri","value":"http://x/tmt_1"},"b":{"type":"uri","value":"http://x/tmt_3"}},
	  {"a":{"type":"uri","value":"http://x/tmt_2"},"b":{"type":"uri","value":"http://x/tmt_3"}}
	]}}`

	srv, updates := sameAsServer(t, existing)
	defer srv.Close()

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	e := New(client, Config{TargetGraph: "http://x/updated_relations"})

	result, err := e.LinkEquivalences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.EdgesAsserted)
	assert.Empty(t, *updates)
}
