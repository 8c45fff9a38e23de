package scanner

import (
	"fmt"
	"time"

	"imagetagger/logging"
)

// setupProgressTracker initializes the progress tracker
func setupProgressTracker(stats FileStats, resultsChan chan ProcessImageResult) *ProgressTracker {
	tracker := &ProgressTracker{
		ticker:     time.NewTicker(500 * time.Millisecond),
		done:       make(chan bool),
		totalFiles: stats.totalFiles,
		vibeCounts: make(map[string]int),
	}

	go tracker.displayProgress()
	go tracker.processResults(resultsChan)

	return tracker
}

// displayProgress shows the progress periodically
func (p *ProgressTracker) displayProgress() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.mu.Lock()
			if p.errors > 0 {
				fmt.Printf("\rProgress: %d/%d (Errors: %d)", p.processed, p.totalFiles, p.errors)
			} else {
				fmt.Printf("\rProgress: %d/%d", p.processed, p.totalFiles)
			}
			p.mu.Unlock()
		}
	}
}

// processResults updates the tracker state based on analysis results
func (p *ProgressTracker) processResults(resultsChan chan ProcessImageResult) {
	for result := range resultsChan {
		p.mu.Lock()
		p.processed++

		if result.Success {
			if result.VibeLabel != "" {
				p.vibeCounts[result.VibeLabel]++
			}
			logging.LogImageAnalyzed(result.Path, true, "")
		} else {
			p.errors++
			if result.Error != nil {
				logging.LogImageAnalyzed(result.Path, false, result.Error.Error())
			}
		}

		p.mu.Unlock()
	}
}

// stop ends the progress tracking
func (p *ProgressTracker) stop() {
	p.ticker.Stop()
	p.done <- true
}

// snapshot returns the current totals and a copy of the per-vibe counts
func (p *ProgressTracker) snapshot() (processed int, errors int, vibes map[string]int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	vibes = make(map[string]int, len(p.vibeCounts))
	for k, v := range p.vibeCounts {
		vibes[k] = v
	}
	return p.processed, p.errors, vibes
}
