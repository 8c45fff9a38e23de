package imageprocessor

import (
	"imagetagger/config"
	"imagetagger/tagging"
	"imagetagger/types"

	"gocv.io/x/gocv"
)

// AnalyzeImage runs the full pipeline on a decoded BGR image: feature
// extraction followed by tag generation, vibe classification, and quality
// scoring. It is the single entry point the CLI, the scanner, and the HTTP
// server all share.
func AnalyzeImage(img gocv.Mat, faces FaceCounter, t config.Thresholds) (types.AnalysisResult, error) {
	metrics, err := ExtractMetrics(img, faces)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	return types.AnalysisResult{
		Tags:    tagging.GenerateTags(metrics, t),
		Vibe:    tagging.ClassifyVibe(metrics, t),
		Quality: tagging.ScoreQuality(metrics),
		Metrics: metrics,
	}, nil
}
