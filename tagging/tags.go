// Package tagging turns an ImageMetrics record into tags, a vibe
// classification, and quality indicators. Every function here is pure:
// identical metrics and thresholds always produce identical output.
package tagging

import (
	"sort"

	"imagetagger/config"
	"imagetagger/types"
)

// GenerateTags evaluates every rule in the catalogue independently and
// returns the union as a deduplicated, lexicographically sorted slice.
// Rules only ever add tags; thresholds come from the supplied set.
func GenerateTags(m types.ImageMetrics, t config.Thresholds) []string {
	tags := make(map[string]struct{})
	add := func(names ...string) {
		for _, n := range names {
			tags[n] = struct{}{}
		}
	}

	ar := m.AspectRatio()

	// Scene shape
	if m.Faces > 0 {
		add("portrait", "people")
		if m.Faces == 1 {
			add("selfie")
		} else {
			add("group")
		}
	}
	if ar > t.WideAspect {
		add("landscape", "panorama")
	}
	if ar < t.TallAspect {
		add("vertical", "portrait-orientation")
	}

	// Lighting buckets: exactly one branch matches
	switch {
	case m.Brightness > t.BrightLight:
		add("bright", "sunny")
	case m.Brightness > t.WellLitLight:
		add("well-lit")
	default:
		add("dark", "moody")
	}

	// Contrast
	if m.Contrast < t.LowContrast {
		add("low-contrast")
	} else if m.Contrast > t.HighContrast {
		add("high-contrast")
	}

	// Sharpness buckets: exactly one branch matches
	switch {
	case m.Sharpness < t.BlurrySharpness:
		add("blurry")
	case m.Sharpness > t.VerySharpSharpness:
		add("very-sharp")
	default:
		add("sharp")
	}

	// Color
	if m.Colorfulness > t.ColorfulMin {
		add("colorful", "vibrant")
	} else {
		add("muted")
	}
	if m.SaturationMean > t.HighSaturation {
		add("high-saturation")
	} else if m.SaturationMean < t.LowSaturation {
		add("low-saturation")
	}

	// Detail
	if m.EdgeDensity > t.DetailedEdges {
		add("detailed", "textured")
	} else if m.EdgeDensity < t.SmoothEdges {
		add("smooth")
	}

	// Skin heuristics
	if m.SkinRatio > t.FashionSkin && m.Faces > 0 {
		add("fashion", "beauty")
	}
	if m.SkinRatio > t.HandsSkin && m.Faces == 0 {
		add("hands", "skin-present")
	}

	// Time-of-day guess
	if m.Brightness > t.DaytimeBrightness && m.Colorfulness > t.DaytimeColor {
		add("daytime")
	}
	if m.Brightness < t.NightBrightness && m.Colorfulness < t.NightColor {
		add("night")
	}

	// Composition
	if m.CentroidDistanceFromCenter < t.CenteredDistance {
		add("centered")
	} else {
		add("off-center", "rule-of-thirds")
	}

	// Compound style rules
	if m.Faces > 0 && m.Colorfulness > t.EditorialColor {
		add("editorial", "portrait", "fashion")
	}
	if ar > t.PanoramaAspect && m.EdgeDensity > t.AerialEdges {
		add("aerial", "landscape", "panorama")
	}
	if m.Brightness < t.DramaticBrightness && m.Sharpness > t.DramaticSharpness {
		add("dramatic", "cinematic")
	}
	if m.Colorfulness > t.PopColor && m.SaturationMean > t.PopSaturation {
		add("pop", "color-bomb", "in-your-face")
	}

	out := make([]string, 0, len(tags))
	for tag := range tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
