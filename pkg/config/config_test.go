package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "evangelisti", cfg.String("store.namespace"))
}

func TestLoad_FileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"store.namespace":"custom"}`), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.String("store.namespace"))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"store.namespace":"from-file"}`), 0644))

	t.Setenv("INGEST_STORE_NAMESPACE", "from-env")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.String("store.namespace"))
}

func TestLoad_OverrideWinsOverEverything(t *testing.T) {
	t.Setenv("INGEST_STORE_NAMESPACE", "from-env")

	cfg, err := Load("", map[string]string{"store.namespace": "from-flag"})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.String("store.namespace"))
}

func TestInt_ParsesValue(t *testing.T) {
	cfg, err := Load("", map[string]string{"hash.workers": "8"})
	require.NoError(t, err)
	n, err := cfg.Int("hash.workers")
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestInt_UnknownKey(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	_, err = cfg.Int("does.not.exist")
	assert.Error(t, err)
}

func TestSet_OverridesValue(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	cfg.Set("store.namespace", "overridden")
	assert.Equal(t, "overridden", cfg.String("store.namespace"))
}
