package scanner

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imagetagger/config"
	"imagetagger/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGrayPNG(t *testing.T, path string, value uint8) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	c := color.RGBA{R: value, G: value, B: value, A: 255}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestIsImageFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want bool
	}{
		{".jpg", true},
		{".JPEG", true},
		{".png", true},
		{".webp", true},
		{".tiff", true},
		{".txt", false},
		{".mp4", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsImageFile(tc.ext); got != tc.want {
			t.Errorf("IsImageFile(%q) = %v, want %v", tc.ext, got, tc.want)
		}
	}
}

func TestScanAndStoreFolder(t *testing.T) {
	folder := t.TempDir()
	writeGrayPNG(t, filepath.Join(folder, "one.png"), 128)
	writeGrayPNG(t, filepath.Join(folder, "two.png"), 40)
	require.NoError(t, os.WriteFile(filepath.Join(folder, "notes.txt"), []byte("skip me"), 0644))

	db, err := database.InitDatabase(filepath.Join(t.TempDir(), "analyses.db"))
	require.NoError(t, err)
	defer db.Close()

	options := ScanOptions{
		FolderPath:   folder,
		SourcePrefix: "test",
		MaxWorkers:   2,
		Thresholds:   config.Default(),
	}

	require.NoError(t, ScanAndStoreFolder(db, options))

	stats, err := database.GetScanStats(db, "test")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalImages)
	// Uniform images all hash to the same all-ones average hash.
	assert.Equal(t, 1, stats.UniqueHashes)

	// Uniform images always carry the blur bucket tag.
	records, err := database.QueryRecordsByTag(db, "blurry", "test", 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestScanSkipsUnchangedFiles(t *testing.T) {
	folder := t.TempDir()
	writeGrayPNG(t, filepath.Join(folder, "one.png"), 128)

	db, err := database.InitDatabase(filepath.Join(t.TempDir(), "analyses.db"))
	require.NoError(t, err)
	defer db.Close()

	options := ScanOptions{
		FolderPath: folder,
		MaxWorkers: 1,
		Thresholds: config.Default(),
	}

	require.NoError(t, ScanAndStoreFolder(db, options))
	// Second pass should skip the unchanged file without erroring.
	require.NoError(t, ScanAndStoreFolder(db, options))

	stats, err := database.GetScanStats(db, "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalImages)
}
