package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"substackscraper/internal/scraper"
	apperrors "substackscraper/pkg/errors"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "checkpoint.json"))
}

func TestStoreRoundTrip(t *testing.T) {
	store := tempStore(t)
	articles := []scraper.Article{
		{URL: "https://e.substack.com/p/one", Date: "01.02.2024", Title: "The first article"},
		{URL: "https://e.substack.com/p/two", Date: scraper.UnknownDate},
		{URL: "https://e.substack.com/p/three", Title: "Third, undated"},
	}

	err := store.Save("https://e.substack.com/archive", articles, map[string]interface{}{"scrape_time": "2024-02-01T10:00:00Z"})
	require.NoError(t, err)

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://e.substack.com/archive", snap.URL)
	assert.Equal(t, 3, snap.TotalArticles)
	assert.Equal(t, articles, snap.Articles, "order survives the round trip")
	assert.Equal(t, "2024-02-01T10:00:00Z", snap.Metadata["scrape_time"])
}

func TestStoreRestoreArticles(t *testing.T) {
	store := tempStore(t)
	articles := []scraper.Article{
		{URL: "https://e.substack.com/p/b"},
		{URL: "https://e.substack.com/p/a"},
	}
	require.NoError(t, store.Save("https://e.substack.com", articles, nil))

	restored, err := store.RestoreArticles()
	require.NoError(t, err)
	assert.Equal(t, articles, restored)
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := tempStore(t)

	snap, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, snap.Articles)
	assert.Zero(t, snap.TotalArticles)
}

func TestStoreLoadCorruptFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o644))

	_, err := NewStore(file).Load()

	assert.Equal(t, apperrors.ErrorTypeCheckpoint, apperrors.TypeOf(err))
}

func TestStoreExistsAndClear(t *testing.T) {
	store := tempStore(t)
	assert.False(t, store.Exists())

	require.NoError(t, store.Save("https://e.substack.com", nil, nil))
	assert.True(t, store.Exists())

	require.NoError(t, store.Clear())
	assert.False(t, store.Exists())

	// Clearing an already-clean store is a no-op
	require.NoError(t, store.Clear())
}

func TestNewStoreDefaultsFile(t *testing.T) {
	store := NewStore("")
	assert.Equal(t, DefaultFile, store.file)
}
