package services

import (
	"os"
	"path/filepath"
	"testing"

	"museletter/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogService_BuiltInCatalog(t *testing.T) {
	service, err := NewCatalogService(config.Config{})

	require.NoError(t, err)
	assert.Equal(t, 8, service.Size())
}

func TestNewCatalogService_BuiltInTracksAreValid(t *testing.T) {
	for _, track := range defaultCatalog() {
		assert.NoError(t, track.Validate(), "track %s", track.ID)
		assert.NotEmpty(t, track.ExternalURLs.Spotify, "track %s", track.ID)
	}
}

func TestCatalogService_RandomTrack_IsMember(t *testing.T) {
	service, err := NewCatalogService(config.Config{})
	require.NoError(t, err)

	members := make(map[string]bool)
	for _, track := range defaultCatalog() {
		members[track.ID] = true
	}

	for range 50 {
		track := service.RandomTrack()
		assert.True(t, members[track.ID], "drew unknown track %s", track.ID)
	}
}

func TestNewCatalogService_LoadsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `[
		{
			"id": "abc123",
			"name": "Test Track",
			"artists": [{"name": "Test Artist"}],
			"album": {"name": "Test Album", "images": []},
			"external_urls": {"spotify": "https://open.spotify.com/track/abc123"}
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	service, err := NewCatalogService(config.Config{SystemCatalogPath: path})

	require.NoError(t, err)
	assert.Equal(t, 1, service.Size())
	assert.Equal(t, "abc123", service.RandomTrack().ID)
}

func TestNewCatalogService_RejectsMissingFile(t *testing.T) {
	_, err := NewCatalogService(config.Config{
		SystemCatalogPath: filepath.Join(t.TempDir(), "missing.json"),
	})

	assert.Error(t, err)
}

func TestNewCatalogService_RejectsInvalidTracks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "", "name": ""}]`), 0o644))

	_, err := NewCatalogService(config.Config{SystemCatalogPath: path})

	assert.Error(t, err)
}

func TestNewCatalogService_RejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	_, err := NewCatalogService(config.Config{SystemCatalogPath: path})

	assert.Error(t, err)
}
