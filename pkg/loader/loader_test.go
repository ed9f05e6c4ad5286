package loader

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNQuads(t *testing.T, path string, lines int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	for i := 0; i < lines; i++ {
		_, err := f.WriteString("<http://e/s> <http://e/p> \"v\" <http://e/g> .\n")
		require.NoError(t, err)
	}
}

func TestLoadFile_SingleChunkWhenUnderThreshold(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.nq")
	writeNQuads(t, path, 10)

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	l := New(client, Config{})

	report, err := l.LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, report.Success())
	assert.Equal(t, 1, report.ChunksTotal)
	assert.Equal(t, 10, report.RowsLoaded)
	assert.Len(t, bodies, 1)
}

func TestLoadFile_SplitsOversizedFileOnLineBoundaries(t *testing.T) {
	var mu sync.Mutex
	var chunkCount int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.ReadAll(r.Body)
		mu.Lock()
		chunkCount++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.nq")
	writeNQuads(t, path, 100)

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	l := New(client, Config{ChunkThreshold: 500})

	report, err := l.LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, report.Success())
	assert.Greater(t, report.ChunksTotal, 1)
	assert.Equal(t, 100, report.RowsLoaded)
	assert.Equal(t, report.ChunksTotal, chunkCount)
}

func TestLoadFile_ReportsPartialFailureAndContinues(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.ReadAll(r.Body)
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.nq")
	writeNQuads(t, path, 60)

	client := storeclient.New(storeclient.Config{BaseURL: srv.URL, Namespace: "evangelisti"})
	l := New(client, Config{ChunkThreshold: 500})

	report, err := l.LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.False(t, report.Success())
	assert.Equal(t, 1, report.ChunksFailed)
	assert.Greater(t, report.ChunksTotal, 1)
	assert.Less(t, report.RowsLoaded, 60)
}
