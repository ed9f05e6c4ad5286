package sidecar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	dir := t.TempDir()
	store, err := NewBoltStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCountersRoundTrip(t *testing.T) {
	store := newTestStore(t)

	c, err := store.GetCounters("hd1.extract")
	require.NoError(t, err)
	assert.Equal(t, 0, c.SoftwareCounter)
	assert.NotNil(t, c.SoftwareCache)

	c.SoftwareCounter = 3
	c.SoftwareCache["libtiff 4.5.0"] = "https://w3id.org/bodi#software/s3"
	require.NoError(t, store.SaveCounters("hd1.extract", c))

	reloaded, err := store.GetCounters("hd1.extract")
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.SoftwareCounter)
	assert.Equal(t, "https://w3id.org/bodi#software/s3", reloaded.SoftwareCache["libtiff 4.5.0"])
}

func TestCountersScopedByRun(t *testing.T) {
	store := newTestStore(t)

	c1, _ := store.GetCounters("hd1.extract")
	c1.ActivityCounter = 5
	require.NoError(t, store.SaveCounters("hd1.extract", c1))

	c2, err := store.GetCounters("floppy3.extract")
	require.NoError(t, err)
	assert.Equal(t, 0, c2.ActivityCounter, "a different run key must not see hd1's counters")
}

func TestCheckpointRoundTrip(t *testing.T) {
	store := newTestStore(t)

	cp, err := store.GetCheckpoint("hd1.enrich")
	require.NoError(t, err)
	assert.Empty(t, cp.ProcessedInstantiations)

	cp.ProcessedInstantiations = []string{"RS1_RS2_R1", "RS1_RS2_R2"}
	require.NoError(t, store.SaveCheckpoint("hd1.enrich", cp))

	reloaded, err := store.GetCheckpoint("hd1.enrich")
	require.NoError(t, err)
	assert.Equal(t, []string{"RS1_RS2_R1", "RS1_RS2_R2"}, reloaded.ProcessedInstantiations)
}

func TestExportAndImportCountersJSON(t *testing.T) {
	store := newTestStore(t)

	c, _ := store.GetCounters("hd1.extract")
	c.SoftwareCounter = 7
	require.NoError(t, store.SaveCounters("hd1.extract", c))

	dir := t.TempDir()
	path := filepath.Join(dir, "hd1_uri_counters.json")
	require.NoError(t, store.ExportCountersJSON("hd1.extract", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"software_counter\": 7")

	fresh := newTestStore(t)
	require.NoError(t, fresh.ImportCountersJSON("hd1.extract", path))
	imported, err := fresh.GetCounters("hd1.extract")
	require.NoError(t, err)
	assert.Equal(t, 7, imported.SoftwareCounter)
}

func TestImportCountersJSON_MissingFileIsNotAnError(t *testing.T) {
	store := newTestStore(t)
	err := store.ImportCountersJSON("hd1.extract", filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.NoError(t, err)
}
