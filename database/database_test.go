package database

import (
	"path/filepath"
	"testing"
	"time"

	"imagetagger/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(path, vibe string, appeal int) types.ImageRecord {
	return types.ImageRecord{
		Path:           path,
		SourcePrefix:   "test",
		Format:         "jpg",
		Width:          800,
		Height:         600,
		ModifiedAt:     time.Now().Format(time.RFC3339),
		Size:           1234,
		AverageHash:    "1010101010",
		Tags:           `["centered","muted","well-lit"]`,
		VibeLabel:      vibe,
		VibeConfidence: 0.8,
		Lighting:       types.LightingGood,
		VisualAppeal:   appeal,
		Consistency:    60,
		MetricsJSON:    `{"width":800,"height":600}`,
	}
}

func TestStoreAndStats(t *testing.T) {
	db, err := InitDatabase(filepath.Join(t.TempDir(), "analyses.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, StoreImageRecord(db, testRecord("/a.jpg", "calm", 40), false))
	require.NoError(t, StoreImageRecord(db, testRecord("/b.jpg", "calm", 70), false))
	require.NoError(t, StoreImageRecord(db, testRecord("/c.jpg", "moody", 20), false))

	stats, err := GetScanStats(db, "test")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalImages)
	assert.Equal(t, 1, stats.UniqueHashes)
	assert.Equal(t, 2, stats.DistinctVibes)
	assert.Equal(t, "calm", stats.TopVibe)
}

func TestStoreIgnoresDuplicateWithoutForce(t *testing.T) {
	db, err := InitDatabase(filepath.Join(t.TempDir(), "analyses.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, StoreImageRecord(db, testRecord("/a.jpg", "calm", 40), false))
	require.NoError(t, StoreImageRecord(db, testRecord("/a.jpg", "moody", 90), false))

	records, err := QueryRecordsByTag(db, "muted", "test", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "calm", records[0].VibeLabel, "second insert should be ignored")

	// Force rewrite replaces the row.
	require.NoError(t, StoreImageRecord(db, testRecord("/a.jpg", "moody", 90), true))

	records, err = QueryRecordsByTag(db, "muted", "test", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "moody", records[0].VibeLabel)
}

func TestCheckImageExists(t *testing.T) {
	db, err := InitDatabase(filepath.Join(t.TempDir(), "analyses.db"))
	require.NoError(t, err)
	defer db.Close()

	exists, _, err := CheckImageExists(db, "/missing.jpg", "test")
	require.NoError(t, err)
	assert.False(t, exists)

	record := testRecord("/a.jpg", "calm", 40)
	require.NoError(t, StoreImageRecord(db, record, false))

	exists, modTime, err := CheckImageExists(db, "/a.jpg", "test")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, record.ModifiedAt, modTime)
}

func TestQueryRecordsByTag(t *testing.T) {
	db, err := InitDatabase(filepath.Join(t.TempDir(), "analyses.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, StoreImageRecord(db, testRecord("/a.jpg", "calm", 40), false))
	require.NoError(t, StoreImageRecord(db, testRecord("/b.jpg", "calm", 70), false))

	// Ordered by visual appeal, best first.
	records, err := QueryRecordsByTag(db, "muted", "test", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "/b.jpg", records[0].Path)

	// A tag that is a substring of a stored tag must not match.
	records, err = QueryRecordsByTag(db, "mute", "test", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
