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

const cliqueSelectResults = `{"head":{"vars":["inst","hash"]},"results":{"bindings":[
  {"inst":{"type":"uri","value":"http://x/a_inst"},"hash":{"type":"literal","value":"deadbeef"}},
  {"inst":{"type":"uri","value":"http://x/b_inst"},"hash":{"type":"literal","value":"deadbeef"}},
  {"inst":{"type":"uri","value":"http://x/c_inst"},"hash":{"type":"literal","value":"deadbeef"}},
  {"inst":{"type":"uri","value":"http://x/d_inst"},"hash":{"type":"literal","value":"cafef00d"}}
]}}`

const emptySelectResults = `{"head":{"vars":[]},"results":{"bindings":[]}}`

// fakeStore answers the hash-clique query with three members sharing a
// hash, the existing-edges query with nothing, and records every UPDATE.
type fakeStore struct {
	updates []string
}

func (f *fakeStore) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if q := r.FormValue("query"); q != "" {
			w.Header().Set("Content-Type", "application/sparql-results+json")
			if strings.Contains(q, "hasSameHashCodeAs") {
				io.WriteString(w, emptySelectResults)
			} else {
				io.WriteString(w, cliqueSelectResults)
			}
			return
		}
		if u := r.FormValue("update"); u != "" {
			f.updates = append(f.updates, u)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}
}

func TestLinkDuplicateHashes_EmitsNTimesNMinusOneEdges(t *testing.T) {
	store := &fakeStore{}
	srv := httptest.NewServer(store.handler(t))
	defer srv.Close()

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	e := New(client, Config{TargetGraph: "http://x/updated_relations"})

	result, err := e.LinkDuplicateHashes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Cliques)
	assert.Equal(t, 6, result.EdgesLinked) // clique of 3: 3*(3-1) = 6
	require.Len(t, store.updates, 1)
	assert.Contains(t, store.updates[0], "hasSameHashCodeAs")
}

func TestLinkDuplicateHashes_IdempotentWhenEdgesAlreadyExist(t *testing.T) {
	existingEdges := `{"head":{"vars":["a","b"]},"results":{"bindings":[
	  {"a":{"type":"uri","value":"http://x/a_inst"},"b":{"type":"uri","value":"http://x/b_inst"}},
	  {"a":{"type":"uri","value":"http://x/a_inst"},"b":{"type":"uri","value":"http://x/c_inst"}},
	  {"a":{"type":"uri","value":"http://x/b_inst"},"b":{"type":"uri","value":"http://x/a_inst"}},
	  {"a":{"type":"uri","value":"http://x/b_inst"},"b":{"type":"uri","value":"http://x/c_inst"}},
	  {"a":{"type":"uri","value":"http://x/c_inst"},"b":{"type":"uri","value":"http://x/a_inst"}},
	  {"a":{"type":"uri","value":"http://x/c_inst"},"b":{"type":"uri","value":"http://x/b_inst"}}
	]}}`

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/sparql-results+json")
		if q := r.FormValue("query"); q != "" {
			calls++
			if strings.Contains(q, "hasSameHashCodeAs") {
				io.WriteString(w, existingEdges)
			} else {
				io.WriteString(w, cliqueSelectResults)
			}
		}
	}))
	defer srv.Close()

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	e := New(client, Config{TargetGraph: "http://x/updated_relations"})

	result, err := e.LinkDuplicateHashes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.EdgesLinked)
}
