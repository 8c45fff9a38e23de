package scanner

import (
	"sync"

	"imagetagger/logging"

	"github.com/barasher/go-exiftool"
)

// MetadataReader extracts camera metadata via exiftool. The underlying
// stay-open exiftool process is not safe for concurrent use, so every
// extraction is serialized behind a mutex. A reader with no working exiftool
// binary is valid and returns empty metadata.
type MetadataReader struct {
	et *exiftool.Exiftool
	mu sync.Mutex
}

// NewMetadataReader starts an exiftool session. When the exiftool binary is
// missing the reader degrades to a no-op instead of failing the scan.
func NewMetadataReader() *MetadataReader {
	et, err := exiftool.NewExiftool()
	if err != nil {
		logging.LogWarning("exiftool unavailable, camera metadata will be empty: %v", err)
		return &MetadataReader{}
	}
	return &MetadataReader{et: et}
}

// Read returns the camera model and capture date for the file, or empty
// strings when the fields are absent.
func (r *MetadataReader) Read(path string) (model string, takenAt string) {
	if r == nil || r.et == nil {
		return "", ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	metas := r.et.ExtractMetadata(path)
	if len(metas) == 0 {
		return "", ""
	}
	if metas[0].Err != nil {
		logging.DebugLog("exiftool failed for %s: %v", path, metas[0].Err)
		return "", ""
	}

	if v, err := metas[0].GetString("Model"); err == nil {
		model = v
	}
	if v, err := metas[0].GetString("DateTimeOriginal"); err == nil {
		takenAt = v
	} else if v, err := metas[0].GetString("CreateDate"); err == nil {
		takenAt = v
	}
	return model, takenAt
}

// Close shuts down the exiftool session.
func (r *MetadataReader) Close() {
	if r != nil && r.et != nil {
		r.et.Close()
		r.et = nil
	}
}
