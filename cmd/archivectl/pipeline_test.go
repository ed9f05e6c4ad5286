package main

import (
	"testing"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffHashInventories_EqualInventoriesPass(t *testing.T) {
	pre := map[string]types.HashResult{
		"/m/a.txt": {Path: "/m/a.txt", SHA256: "aa11"},
		"/m/b.txt": {Path: "/m/b.txt", SHA256: "bb22"},
	}
	post := map[string]types.HashResult{
		"/m/a.txt": {Path: "/m/a.txt", SHA256: "aa11"},
		"/m/b.txt": {Path: "/m/b.txt", SHA256: "bb22"},
	}

	assert.NoError(t, diffHashInventories(pre, post))
}

func TestDiffHashInventories_ChangedHashFails(t *testing.T) {
	pre := map[string]types.HashResult{
		"/m/a.txt": {Path: "/m/a.txt", SHA256: "aa11"},
	}
	post := map[string]types.HashResult{
		"/m/a.txt": {Path: "/m/a.txt", SHA256: "dead"},
	}

	err := diffHashInventories(pre, post)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "potential file corruption during metadata extraction")
}

func TestDiffHashInventories_MissingFileFails(t *testing.T) {
	pre := map[string]types.HashResult{
		"/m/a.txt": {Path: "/m/a.txt", SHA256: "aa11"},
	}

	err := diffHashInventories(pre, map[string]types.HashResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing after extraction")
}
