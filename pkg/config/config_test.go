package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	require.NoError(t, Init(path))

	assert.Equal(t, "", Config.SongsPath)
	assert.Equal(t, filepath.Join(dir, "cache.db"), Config.CachePath)
	assert.Equal(t, []string{".osu"}, Config.ChartExtensions)
	assert.Empty(t, Config.IgnoreFolders)
	assert.Equal(t, 0, Config.Workers)

	// the defaults land on disk for the user to edit
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestInitReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	require.NoError(t, os.WriteFile(path, []byte(`{
  "songs_path": "/osu/Songs",
  "workers": 4
}`), 0644))

	require.NoError(t, Init(path))

	assert.Equal(t, "/osu/Songs", Config.SongsPath)
	assert.Equal(t, 4, Config.Workers)
	// keys the file omits keep their defaults
	assert.Equal(t, []string{".osu"}, Config.ChartExtensions)
}

func TestInitEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"songs_path": "/osu/Songs"}`), 0644))
	t.Setenv("OSU_SONGS_PATH", "/elsewhere/Songs")

	require.NoError(t, Init(path))
	assert.Equal(t, "/elsewhere/Songs", Config.SongsPath)
}

func TestInitReplacesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	require.NoError(t, os.WriteFile(path, []byte("{this is not json"), 0644))

	require.NoError(t, Init(path))
	assert.Equal(t, []string{".osu"}, Config.ChartExtensions)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "the broken file is rewritten in place")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	require.NoError(t, Init(path))

	Config.SongsPath = "/osu/Songs"
	Config.IgnoreFolders = []string{"failed*"}
	require.NoError(t, Save())

	require.NoError(t, Init(path))
	assert.Equal(t, "/osu/Songs", Config.SongsPath)
	assert.Equal(t, []string{"failed*"}, Config.IgnoreFolders)
}

func TestGetDefaultConfigDirectory(t *testing.T) {
	dir := GetDefaultConfigDirectory("osu-searcher", "config.json")
	assert.NotEmpty(t, dir)
}
