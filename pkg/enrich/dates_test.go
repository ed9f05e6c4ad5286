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

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		iso  string
		ok   bool
	}{
		{"iso date", "2025-01-15", "2025-01-15", true},
		{"dd/mm/yyyy", "15/01/2025", "2025-01-15", true},
		{"dd-mm-yyyy", "15-01-2025", "2025-01-15", true},
		{"yyyy/mm/dd", "2025/01/15", "2025-01-15", true},
		{"dd.mm.yyyy", "15.01.2025", "2025-01-15", true},
		{"bare year", "2025", "2025-01-01", true},
		{"unix integer", "1752333691", "2025-07-12", true},
		{"unix fractional", "1752333691.5", "2025-07-12", true},
		{"unix scientific", "1.752333691e9", "2025-07-12", true},
		{"iso datetime utc", "2025-07-12T10:30:00Z", "2025-07-12", true},
		{"iso datetime offset", "2025-07-12T10:30:00+02:00", "2025-07-12", true},
		{"iso datetime fractional", "2025-07-12T10:30:00.123456Z", "2025-07-12", true},
		{"iso datetime naive", "2025-07-12T10:30:00", "2025-07-12", true},
		{"gibberish", "gibberish", "", false},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			iso, _, ok := NormalizeDate(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.iso, iso)
		})
	}
}

func TestNormalizeDate_ExpressedDateUsesEnglishMonthNames(t *testing.T) {
	_, expressed, ok := NormalizeDate("2025-07-12")
	require.True(t, ok)
	assert.Equal(t, "12 July 2025", expressed)
}

const dateMetadataResults = `{"head":{"vars":["inst","value"]},"results":{"bindings":[
  {"inst":{"type":"uri","value":"http://x/a_inst"},"value":{"type":"literal","value":"2025-01-15T08:00:00Z"}},
  {"inst":{"type":"uri","value":"http://x/b_inst"},"value":{"type":"literal","value":"15/01/2025"}},
  {"inst":{"type":"uri","value":"http://x/c_inst"},"value":{"type":"literal","value":"not a date"}}
]}}`

const dateEntityRefResults = `{"head":{"vars":["entity","inst","kind"]},"results":{"bindings":[
  {"entity":{"type":"uri","value":"http://x/a"},"inst":{"type":"uri","value":"http://x/a_inst"},"kind":{"type":"uri","value":"http://ontology/Record"}},
  {"entity":{"type":"uri","value":"http://x/b"},"inst":{"type":"uri","value":"http://x/b_inst"},"kind":{"type":"uri","value":"http://ontology/Record"}},
  {"entity":{"type":"uri","value":"http://x/c"},"inst":{"type":"uri","value":"http://x/c_inst"},"kind":{"type":"uri","value":"http://ontology/Record"}}
]}}`

// dateFakeStore answers the three SELECTs LinkCreationDates issues and
// records every UPDATE body.
type dateFakeStore struct {
	updates []string
}

func (f *dateFakeStore) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if q := r.FormValue("query"); q != "" {
			w.Header().Set("Content-Type", "application/sparql-results+json")
			switch {
			case strings.Contains(q, "hasTechnicalMetadata"):
				io.WriteString(w, dateMetadataResults)
			case strings.Contains(q, "hasOrHadInstantiation"):
				io.WriteString(w, dateEntityRefResults)
			default:
				io.WriteString(w, emptySelectResults)
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

func TestLinkCreationDates_SameCalendarDaySharesDateIRI(t *testing.T) {
	store := &dateFakeStore{}
	srv := httptest.NewServer(store.handler(t))
	defer srv.Close()

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	e := New(client, Config{TargetGraph: "http://x/updated_relations"})

	result, err := e.LinkCreationDates(context.Background())
	require.NoError(t, err)

	// Two normalizable values, one skipped.
	assert.Equal(t, 2, result.DatesLinked)
	assert.Equal(t, 1, result.Skipped)

	require.Len(t, store.updates, 1)
	update := store.updates[0]

	// Both records resolve to 2025-01-15 and must link the same Date IRI.
	assert.Contains(t, update, "date_20250115")
	assert.NotContains(t, update, "date_20250116")
	assert.Contains(t, update, "<http://x/a>")
	assert.Contains(t, update, "<http://x/b>")
	assert.NotContains(t, update, "<http://x/c>")
	assert.Contains(t, update, "hasCreationDate")
	assert.Contains(t, update, "isCreationDateOf")
	assert.Contains(t, update, "Derived from embedded metadata")
}

func TestLinkCreationDates_SkipsSubjectsAlreadyLinked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if q := r.FormValue("query"); q != "" {
			w.Header().Set("Content-Type", "application/sparql-results+json")
			switch {
			case strings.Contains(q, "hasTechnicalMetadata"):
				io.WriteString(w, dateMetadataResults)
			case strings.Contains(q, "hasOrHadInstantiation"):
				io.WriteString(w, dateEntityRefResults)
			default:
				io.WriteString(w, `{"head":{"vars":["subject"]},"results":{"bindings":[
				  {"subject":{"type":"uri","value":"http://x/a"}},
				  {"subject":{"type":"uri","value":"http://x/b"}}
				]}}`)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	e := New(client, Config{TargetGraph: "http://x/updated_relations"})

	result, err := e.LinkCreationDates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.DatesLinked)
}
