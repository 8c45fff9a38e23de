package scanner

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"imagetagger/database"
	"imagetagger/imageprocessor"
	"imagetagger/logging"
	"imagetagger/types"
)

// ScanAndStoreFolder walks a folder, analyzes every supported image with the
// configured thresholds and face detector, and stores the results.
func ScanAndStoreFolder(db *sql.DB, options ScanOptions) error {
	var wg sync.WaitGroup
	resultsChan := make(chan ProcessImageResult, 100)

	maxWorkers := options.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 8
	}
	semaphore := make(chan struct{}, maxWorkers)

	fileStats := countFilesToProcess(options)
	printStartupInfo(fileStats, options)

	progressTracker := setupProgressTracker(fileStats, resultsChan)

	metadataReader := NewMetadataReader()
	defer metadataReader.Close()

	startTime := time.Now()
	err := walkAndProcessFiles(db, options, metadataReader, &wg, resultsChan, semaphore)

	wg.Wait()
	close(resultsChan)

	progressTracker.stop()
	printCompletionStats(progressTracker, startTime, options)

	return err
}

// countFilesToProcess counts and classifies files to be processed
func countFilesToProcess(options ScanOptions) FileStats {
	stats := FileStats{}

	if options.DebugMode {
		logging.DebugLog("Starting image scan on folder: %s", options.FolderPath)
		logging.DebugLog("Force rewrite: %v, Source prefix: %s", options.ForceRewrite, options.SourcePrefix)
	}

	filepath.Walk(options.FolderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if IsImageFile(filepath.Ext(path)) {
			stats.totalFiles++
			if IsTiffFormat(path) {
				stats.tifFiles++
			}
		}
		return nil
	})

	return stats
}

// printStartupInfo displays information about the scan before starting
func printStartupInfo(stats FileStats, options ScanOptions) {
	fmt.Printf("Starting image analysis...\nTotal image files to process: %d (including %d TIF files)\n",
		stats.totalFiles, stats.tifFiles)
	fmt.Printf("Force rewrite mode: %v\n", options.ForceRewrite)

	if options.SourcePrefix != "" {
		fmt.Printf("Source prefix: %s\n", options.SourcePrefix)
	}

	if options.DebugMode {
		fmt.Printf("Debug mode: enabled\n")
		logging.DebugLog("Found %d image files to analyze", stats.totalFiles)
	}
}

// walkAndProcessFiles traverses the directory and analyzes each file
func walkAndProcessFiles(db *sql.DB, options ScanOptions, metadataReader *MetadataReader,
	wg *sync.WaitGroup, resultsChan chan ProcessImageResult, semaphore chan struct{}) error {

	return filepath.Walk(options.FolderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			if err != nil && options.DebugMode {
				logging.LogError("Error accessing path %s: %v", path, err)
			}
			return nil
		}

		if IsImageFile(filepath.Ext(path)) {
			wg.Add(1)
			semaphore <- struct{}{}

			go func(p string) {
				defer wg.Done()
				defer func() { <-semaphore }()

				result := analyzeAndStoreImage(db, p, options, metadataReader)
				resultsChan <- result
			}(path)
		}

		return nil
	})
}

// printCompletionStats displays statistics after scan completion
func printCompletionStats(tracker *ProgressTracker, startTime time.Time, options ScanOptions) {
	elapsed := time.Since(startTime)
	processed, errors, vibes := tracker.snapshot()

	if options.DebugMode {
		logging.DebugLog("Scan completed in %v. Analyzed: %d, Errors: %d", elapsed, processed, errors)
	}

	fmt.Println("\nAnalysis complete.")
	fmt.Printf("Analyzed %d images in %v.\n", processed, elapsed.Round(time.Second))

	if len(vibes) > 0 {
		labels := make([]string, 0, len(vibes))
		for label := range vibes {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		fmt.Println("Vibe distribution:")
		for _, label := range labels {
			fmt.Printf("- %s: %d\n", label, vibes[label])
		}
	}

	if errors > 0 {
		fmt.Printf("Encountered %d errors during analysis.\n", errors)
		fmt.Println("Check the log file for details.")
	}
}

// analyzeAndStoreImage analyzes a single image and stores the record
func analyzeAndStoreImage(db *sql.DB, path string, options ScanOptions, metadataReader *MetadataReader) ProcessImageResult {
	result := ProcessImageResult{
		Path:    path,
		Success: false,
	}

	if !options.ForceRewrite {
		if skipResult := checkAndSkipIfUnchanged(db, path, options); skipResult != nil {
			return *skipResult
		}
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		result.Error = fmt.Errorf("cannot stat file %s: %v", path, err)
		return result
	}

	img, err := imageprocessor.LoadImage(path)
	if err != nil {
		result.Error = err
		return result
	}
	defer img.Close()

	analysis, err := imageprocessor.AnalyzeImage(img, options.FaceCounter, options.Thresholds)
	if err != nil {
		result.Error = fmt.Errorf("cannot analyze %s: %v", path, err)
		return result
	}

	avgHash, err := imageprocessor.ComputeAverageHash(img)
	if err != nil {
		result.Error = fmt.Errorf("cannot compute hash for %s: %v", path, err)
		return result
	}

	tagsJSON, err := json.Marshal(analysis.Tags)
	if err != nil {
		result.Error = fmt.Errorf("cannot encode tags for %s: %v", path, err)
		return result
	}
	metricsJSON, err := json.Marshal(analysis.Metrics)
	if err != nil {
		result.Error = fmt.Errorf("cannot encode metrics for %s: %v", path, err)
		return result
	}

	cameraModel, takenAt := metadataReader.Read(path)

	record := types.ImageRecord{
		Path:           path,
		SourcePrefix:   options.SourcePrefix,
		Format:         strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Width:          analysis.Metrics.Width,
		Height:         analysis.Metrics.Height,
		ModifiedAt:     fileInfo.ModTime().Format(time.RFC3339),
		Size:           fileInfo.Size(),
		AverageHash:    avgHash,
		Tags:           string(tagsJSON),
		VibeLabel:      analysis.Vibe.Label,
		VibeConfidence: analysis.Vibe.Confidence,
		Lighting:       analysis.Quality.Lighting,
		VisualAppeal:   analysis.Quality.VisualAppeal,
		Consistency:    analysis.Quality.Consistency,
		MetricsJSON:    string(metricsJSON),
		CameraModel:    cameraModel,
		TakenAt:        takenAt,
	}

	if err := database.StoreImageRecord(db, record, options.ForceRewrite); err != nil {
		result.Error = fmt.Errorf("cannot store data for %s: %v", path, err)
		return result
	}

	if options.DebugMode {
		logging.DebugLog("Analyzed %s: vibe=%s confidence=%.2f tags=%d",
			path, analysis.Vibe.Label, analysis.Vibe.Confidence, len(analysis.Tags))
	}

	result.Success = true
	result.VibeLabel = analysis.Vibe.Label
	return result
}

// checkAndSkipIfUnchanged checks if an image can be skipped because it hasn't changed
func checkAndSkipIfUnchanged(db *sql.DB, path string, options ScanOptions) *ProcessImageResult {
	exists, storedModTime, err := database.CheckImageExists(db, path, options.SourcePrefix)
	if err != nil {
		return &ProcessImageResult{
			Path:    path,
			Success: false,
			Error:   fmt.Errorf("database error for %s: %v", path, err),
		}
	}

	if exists {
		fileInfo, err := os.Stat(path)
		if err != nil {
			return &ProcessImageResult{
				Path:    path,
				Success: false,
				Error:   fmt.Errorf("cannot stat file %s: %v", path, err),
			}
		}

		storedTime, err := time.Parse(time.RFC3339, storedModTime)
		if err != nil {
			return &ProcessImageResult{
				Path:    path,
				Success: false,
				Error:   fmt.Errorf("cannot parse stored time for %s: %v", path, err),
			}
		}

		if !fileInfo.ModTime().After(storedTime) {
			if options.DebugMode {
				logging.DebugLog("Skipping unchanged image: %s", path)
			}
			return &ProcessImageResult{
				Path:    path,
				Success: true,
			}
		}
	}

	return nil
}
