package tagging

import (
	"math"

	"imagetagger/types"
)

// Lighting bucket boundaries on the 0-255 brightness scale.
const (
	underexposedBelow = 80
	overexposedAbove  = 230
	excellentLow      = 110
	excellentHigh     = 180
)

// Style centroids in (brightness, contrast, colorfulness) space used by the
// consistency score.
var styleCentroids = [][3]float64{
	{160, 40, 200}, // bright
	{60, 70, 15},   // moody
	{140, 35, 70},  // colorful
}

// ScoreQuality derives the three quality indicators from the raw metrics.
// Both numeric scores are integers on a 0-100 scale.
func ScoreQuality(m types.ImageMetrics) types.QualityReport {
	return types.QualityReport{
		Lighting:     lightingBucket(m.Brightness),
		VisualAppeal: visualAppeal(m),
		Consistency:  consistency(m),
	}
}

func lightingBucket(brightness float64) string {
	switch {
	case brightness < underexposedBelow:
		return types.LightingUnderexposed
	case brightness > overexposedAbove:
		return types.LightingOverexposed
	case brightness >= excellentLow && brightness <= excellentHigh:
		return types.LightingExcellent
	default:
		return types.LightingGood
	}
}

// visualAppeal sums four capped sub-scores: proximity to an ideal mid
// brightness (30 points), colorfulness (30), sharpness (25), contrast (15).
func visualAppeal(m types.ImageMetrics) int {
	appeal := math.Max(0, 1-math.Abs((m.Brightness-140)/140.0)) * 30
	appeal += math.Min(m.Colorfulness/80.0, 1.0) * 30
	appeal += math.Min(m.Sharpness/400.0, 1.0) * 25
	appeal += math.Min(m.Contrast/80.0, 1.0) * 15
	return clampScore(appeal)
}

// consistency measures how close the image sits to the nearest of three
// built-in style centroids, mapped through 100 - dist/2.
func consistency(m types.ImageMetrics) int {
	sample := [3]float64{m.Brightness, m.Contrast, m.Colorfulness}

	minDist := math.Inf(1)
	for _, centroid := range styleCentroids {
		var sum float64
		for i := range sample {
			d := sample[i] - centroid[i]
			sum += d * d
		}
		if dist := math.Sqrt(sum); dist < minDist {
			minDist = dist
		}
	}

	return clampScore(100 - minDist/2.0)
}

func clampScore(v float64) int {
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
