package structure

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dumpQuads flushes the builder's pending quads to a scratch file and
// returns the resulting N-Quads text, for substring assertions.
func dumpQuads(t *testing.T, b *Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.nq")
	_, err := b.Writer().Flush(path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuildRoot_EmitsStorageChain(t *testing.T) {
	b := New("hd1", types.RootHDInternal, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	b.BuildRoot(types.RootHDInternal, types.RootHDInternalLabel)

	lines := dumpQuads(t, b)
	assert.Contains(t, lines, classStorageMedium)
	assert.Contains(t, lines, classStorageLoc)
	assert.Contains(t, lines, types.RootHDInternalLabel)
}

func TestBuildContainer_LinksRootUnderRS1(t *testing.T) {
	b := New("hd1", types.RootHDInternal, time.Now())
	b.BuildContainer(types.RootHDInternal)

	lines := dumpQuads(t, b)
	assert.Contains(t, lines, RS1ContainerLabel)
	assert.Contains(t, lines, predIncludes)
	assert.Contains(t, lines, predIncludedIn)
}

func TestBuildNode_FileWithHashEmitsFixity(t *testing.T) {
	b := New("hd1", types.RootHDInternal, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	ev := types.WalkEvent{
		Path:     "/mnt/hd1/a.txt",
		Kind:     types.KindRecord,
		Depth:    1,
		ParentID: types.RootHDInternal,
		ID:       types.RootHDInternal + "_R1",
		Medium:   "hd1",
	}
	hash := &types.HashResult{Path: ev.Path, SHA256: strings.Repeat("AB", 32), Size: 3}

	b.BuildNode(ev, "/a.txt", hash, false)

	lines := dumpQuads(t, b)
	assert.Contains(t, lines, classFixity)
	assert.Contains(t, lines, strings.ToLower(hash.SHA256))
	assert.Contains(t, lines, predHasCreator)
	assert.Contains(t, lines, "date_20250115")
	assert.Contains(t, lines, "15 January 2025")
	assert.Contains(t, lines, predPerformedBy)
}

func TestBuildNode_FailedHashOmitsFixity(t *testing.T) {
	b := New("hd1", types.RootHDInternal, time.Now())
	ev := types.WalkEvent{
		Path:     "/mnt/hd1/locked.txt",
		Kind:     types.KindRecord,
		Depth:    1,
		ParentID: types.RootHDInternal,
		ID:       types.RootHDInternal + "_R2",
		Medium:   "hd1",
	}

	b.BuildNode(ev, "/locked.txt", nil, false)

	lines := dumpQuads(t, b)
	assert.NotContains(t, lines, classFixity)
	assert.Contains(t, lines, classInstantiation)
}

func TestBuildNode_RootHasNoInstantiation(t *testing.T) {
	b := New("hd1", types.RootHDInternal, time.Now())
	ev := types.WalkEvent{
		Path:   "/mnt/hd1",
		Kind:   types.KindRecordSet,
		Depth:  0,
		ID:     types.RootHDInternal,
		Medium: "hd1",
	}

	b.BuildNode(ev, "/", nil, true)

	lines := dumpQuads(t, b)
	assert.NotContains(t, lines, classInstantiation)
}

func TestGraphIRI_MatchesRootID(t *testing.T) {
	b := New("hd1", types.RootHDInternal, time.Now())
	assert.Contains(t, b.GraphIRI(), "structure/"+types.RootHDInternal)
}
