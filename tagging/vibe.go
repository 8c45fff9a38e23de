package tagging

import (
	"math"

	"imagetagger/config"
	"imagetagger/types"
)

// VibeLabels is the closed set of vibe labels in evaluation order. Argmax
// ties resolve to the first label in this order.
var VibeLabels = []string{
	"casual",
	"aesthetic",
	"luxury",
	"energetic",
	"calm",
	"moody",
	"playful",
}

// ClassifyVibe scores every vibe label with a weighted sum of normalized
// metrics (weights add up to 1.0 per label), clamps the scores into [0,1],
// and picks the argmax as the top label.
func ClassifyVibe(m types.ImageMetrics, t config.Thresholds) types.VibeResult {
	normB := (m.Brightness - t.VibeBrightnessCenter) / t.VibeBrightnessScale
	normColor := m.Colorfulness / t.VibeColorScale
	normSharp := m.Sharpness / t.VibeSharpnessScale
	normEdges := m.EdgeDensity / t.VibeEdgeScale
	normSat := m.SaturationMean / t.VibeSaturationScale
	normContrast := m.Contrast / t.VibeContrastScale
	faces := float64(m.Faces)

	scores := map[string]float64{
		// moderate brightness, faces present, moderate sharpness
		"casual": 0.4*faces + 0.3*(1-math.Abs(normB)) + 0.3*math.Min(normSharp, 1.0),
		// strong color, good sharpness, saturated
		"aesthetic": 0.5*math.Min(normColor, 1.5) + 0.3*math.Min(normSharp, 1.5) + 0.2*normSat,
		// uncluttered, warm brightness, centered composition
		"luxury": 0.4*math.Max(0, normB) + 0.4*(1-math.Min(normEdges, 1.0)) + 0.2*(1-m.CentroidDistanceFromCenter),
		// color, detail, and saturation all high
		"energetic": 0.45*math.Min(normColor, 2.0) + 0.35*math.Min(normEdges, 2.0) + 0.2*math.Min(normSat, 2.0),
		// quiet in every dimension
		"calm": 0.5*(1-math.Min(normColor, 1.0)) + 0.3*(1-math.Min(normEdges, 1.0)) + 0.2*(1-math.Min(normSharp, 1.0)),
		// dark, contrasty, crisp
		"moody": 0.5*math.Max(0, -normB) + 0.3*normContrast + 0.2*math.Min(normSharp, 2.0),
		// faces in bright colorful frames
		"playful": 0.5*faces + 0.3*math.Max(0, normB) + 0.2*math.Min(normColor, 1.5),
	}

	for label, score := range scores {
		scores[label] = clamp01(score)
	}

	top := VibeLabels[0]
	for _, label := range VibeLabels[1:] {
		if scores[label] > scores[top] {
			top = label
		}
	}

	return types.VibeResult{
		Scores:     scores,
		Label:      top,
		Confidence: scores[top],
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
