package scanner

import (
	"sync"
	"time"

	"imagetagger/config"
	"imagetagger/imageprocessor"
)

// ScanOptions defines the options for a folder scan
type ScanOptions struct {
	FolderPath   string
	SourcePrefix string
	ForceRewrite bool
	DebugMode    bool
	DbPath       string
	MaxWorkers   int // Optional worker limit
	Thresholds   config.Thresholds
	FaceCounter  imageprocessor.FaceCounter
}

// ProcessImageResult holds the result of analyzing one image
type ProcessImageResult struct {
	Path      string
	Success   bool
	Error     error
	VibeLabel string
}

// FileStats tracks information about files to be processed
type FileStats struct {
	totalFiles int
	tifFiles   int
}

// ProgressTracker tracks progress of the scan operation
type ProgressTracker struct {
	processed  int
	errors     int
	vibeCounts map[string]int
	ticker     *time.Ticker
	done       chan bool
	mu         sync.Mutex
	totalFiles int
}
