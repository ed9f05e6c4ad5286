package hashworker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRun_HashesFilesAndPersistsInventory(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	writeFile(t, a, "hello")
	writeFile(t, b, "world")

	inv := filepath.Join(dir, "inventory.json")
	h := New(Config{Medium: "hd1"})
	hashes, errs := h.Run([]string{a, b}, inv)

	require.Empty(t, errs)
	require.Contains(t, hashes, a)
	require.Contains(t, hashes, b)
	assert.Len(t, hashes[a].SHA256, 64)
	assert.NotEqual(t, hashes[a].SHA256, hashes[b].SHA256)

	_, statErr := os.Stat(inv)
	require.NoError(t, statErr)
}

func TestRun_ReportsErrorForMissingFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.txt")
	inv := filepath.Join(dir, "inventory.json")

	h := New(Config{Medium: "hd1"})
	hashes, errs := h.Run([]string{missing}, inv)

	assert.Empty(t, hashes)
	require.Len(t, errs, 1)
	assert.Equal(t, missing, errs[0].Path)
}

func TestRun_ResumesUnchangedFilesFromPriorInventory(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	writeFile(t, a, "hello")
	inv := filepath.Join(dir, "inventory.json")

	h := New(Config{Medium: "hd1"})
	first, errs := h.Run([]string{a}, inv)
	require.Empty(t, errs)

	second, errs := h.Run([]string{a}, inv)
	require.Empty(t, errs)

	assert.Equal(t, first[a].SHA256, second[a].SHA256)
}

func TestNew_DefaultsWorkerCountToAtMostFour(t *testing.T) {
	h := New(Config{Medium: "hd1"})
	assert.LessOrEqual(t, h.cfg.Workers, 4)
	assert.Greater(t, h.cfg.Workers, 0)
}
