package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preferencesContract(t *testing.T, prefs PreferencesAdapter) {
	t.Helper()

	_, ok, err := prefs.GetString("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, prefs.PutString("ripple.session", `{"session_id":"abc"}`))
	v, ok, err := prefs.GetString("ripple.session")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"session_id":"abc"}`, v)

	require.NoError(t, prefs.PutString("ripple.session", "replaced"))
	v, _, err = prefs.GetString("ripple.session")
	require.NoError(t, err)
	assert.Equal(t, "replaced", v)

	require.NoError(t, prefs.Remove("ripple.session"))
	require.NoError(t, prefs.Remove("ripple.session"))
	_, ok, err = prefs.GetString("ripple.session")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryPreferencesAdapter(t *testing.T) {
	preferencesContract(t, NewMemoryPreferencesAdapter())
}

func TestFilePreferencesAdapter(t *testing.T) {
	preferencesContract(t, NewFilePreferencesAdapter(filepath.Join(t.TempDir(), "prefs.yaml")))
}

func TestFilePreferencesAdapter_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, NewFilePreferencesAdapter(path).PutString("ripple.unique_id", "device-1"))

	v, ok, err := NewFilePreferencesAdapter(path).GetString("ripple.unique_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "device-1", v)
}

func TestFilePreferencesAdapter_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0600))

	_, _, err := NewFilePreferencesAdapter(path).GetString("key")
	assert.Error(t, err)
}
