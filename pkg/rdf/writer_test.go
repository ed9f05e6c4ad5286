package rdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_FlushWritesAndClearsPending(t *testing.T) {
	w := NewWriter()
	w.Add(Quad{Subject: NewIRI("http://e/a"), Predicate: NewIRI("http://e/p"), Object: NewString("v")})
	w.Add(Quad{Subject: NewIRI("http://e/b"), Predicate: NewIRI("http://e/p"), Object: NewString("v2")})
	assert.Equal(t, 2, w.Len())

	path := filepath.Join(t.TempDir(), "out.nq")
	n, err := w.Flush(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 2, w.Total())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"v"`)
	assert.Contains(t, string(data), `"v2"`)
}

func TestWriter_FlushAppendsAcrossCalls(t *testing.T) {
	w := NewWriter()
	path := filepath.Join(t.TempDir(), "out.nq")

	w.Add(Quad{Subject: NewIRI("http://e/a"), Predicate: NewIRI("http://e/p"), Object: NewString("first")})
	_, err := w.Flush(path)
	require.NoError(t, err)

	w.Add(Quad{Subject: NewIRI("http://e/b"), Predicate: NewIRI("http://e/p"), Object: NewString("second")})
	_, err = w.Flush(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestWriter_FlushNoopWhenEmpty(t *testing.T) {
	w := NewWriter()
	path := filepath.Join(t.TempDir(), "out.nq")
	n, err := w.Flush(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
