package walker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/events"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0755))
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWalk_AssignsIDsDepthFirstAlphabetic(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "beta"))
	mustMkdir(t, filepath.Join(root, "alpha"))
	mustWriteFile(t, filepath.Join(root, "zzz.txt"), "z")
	mustWriteFile(t, filepath.Join(root, "alpha", "inner.txt"), "a")

	w := New(Config{Root: root, RootID: types.RootHDInternal, Medium: "hd1"})
	evts, errs := w.Walk()
	require.Empty(t, errs)

	byPath := map[string]types.WalkEvent{}
	for _, e := range evts {
		byPath[e.Path] = e
	}

	assert.Equal(t, types.RootHDInternal, byPath[root].ID)
	assert.Equal(t, types.RootHDInternal+"_RS1", byPath[filepath.Join(root, "alpha")].ID)
	assert.Equal(t, types.RootHDInternal+"_RS2", byPath[filepath.Join(root, "beta")].ID)
	assert.Equal(t, types.RootHDInternal+"_R1", byPath[filepath.Join(root, "zzz.txt")].ID)
	assert.Equal(t, types.RootHDInternal+"_RS1_R1", byPath[filepath.Join(root, "alpha", "inner.txt")].ID)
}

func TestWalk_RecordsErrorWithoutAborting(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "ok"))
	mustWriteFile(t, filepath.Join(root, "ok", "file.txt"), "x")

	unreadable := filepath.Join(root, "locked")
	mustMkdir(t, unreadable)
	require.NoError(t, os.Chmod(unreadable, 0000))
	t.Cleanup(func() { os.Chmod(unreadable, 0755) })

	w := New(Config{Root: root, RootID: types.RootHDInternal, Medium: "hd1"})
	evts, errs := w.Walk()

	if os.Getuid() != 0 {
		require.Len(t, errs, 1)
		assert.Equal(t, unreadable, errs[0].Path)
	}

	var sawOK bool
	for _, e := range evts {
		if e.Path == filepath.Join(root, "ok", "file.txt") {
			sawOK = true
		}
	}
	assert.True(t, sawOK, "traversal should continue past the unreadable directory")
}

func TestWalk_PublishesEventsToBroker(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), "a")

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()
	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	w := New(Config{Root: root, RootID: types.RootHDInternal, Medium: "hd1", Broker: broker})
	_, errs := w.Walk()
	require.Empty(t, errs)

	// the root and a.txt each publish one path-visited event.
	seen := 0
	timeout := time.After(time.Second)
	for seen < 2 {
		select {
		case ev := <-sub:
			assert.Equal(t, events.EventPathVisited, ev.Type)
			seen++
		case <-timeout:
			t.Fatalf("received %d of 2 path-visited events", seen)
		}
	}
}
