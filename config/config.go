package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Thresholds collects every tunable constant used by the tag rules, the vibe
// normalization, and the quality scorer. The zero value is not usable; start
// from Default and override selectively via a JSON file.
type Thresholds struct {
	// Aspect ratio buckets.
	WideAspect     float64 `json:"wide_aspect"`
	TallAspect     float64 `json:"tall_aspect"`
	PanoramaAspect float64 `json:"panorama_aspect"`

	// Brightness buckets (0-255 grayscale mean).
	BrightLight  float64 `json:"bright_light"`
	WellLitLight float64 `json:"well_lit_light"`

	// Contrast buckets (grayscale stddev).
	LowContrast  float64 `json:"low_contrast"`
	HighContrast float64 `json:"high_contrast"`

	// Sharpness buckets (variance of Laplacian).
	BlurrySharpness    float64 `json:"blurry_sharpness"`
	VerySharpSharpness float64 `json:"very_sharp_sharpness"`

	// Color buckets.
	ColorfulMin    float64 `json:"colorful_min"`
	HighSaturation float64 `json:"high_saturation"`
	LowSaturation  float64 `json:"low_saturation"`

	// Edge density buckets (fraction of Canny edge pixels).
	DetailedEdges float64 `json:"detailed_edges"`
	SmoothEdges   float64 `json:"smooth_edges"`

	// Skin detection ratios.
	FashionSkin float64 `json:"fashion_skin"`
	HandsSkin   float64 `json:"hands_skin"`

	// Composition.
	CenteredDistance float64 `json:"centered_distance"`

	// Compound rule constants.
	DaytimeBrightness  float64 `json:"daytime_brightness"`
	DaytimeColor       float64 `json:"daytime_color"`
	NightBrightness    float64 `json:"night_brightness"`
	NightColor         float64 `json:"night_color"`
	EditorialColor     float64 `json:"editorial_color"`
	AerialEdges        float64 `json:"aerial_edges"`
	DramaticBrightness float64 `json:"dramatic_brightness"`
	DramaticSharpness  float64 `json:"dramatic_sharpness"`
	PopColor           float64 `json:"pop_color"`
	PopSaturation      float64 `json:"pop_saturation"`

	// Vibe score normalization divisors.
	VibeBrightnessCenter float64 `json:"vibe_brightness_center"`
	VibeBrightnessScale  float64 `json:"vibe_brightness_scale"`
	VibeColorScale       float64 `json:"vibe_color_scale"`
	VibeSharpnessScale   float64 `json:"vibe_sharpness_scale"`
	VibeEdgeScale        float64 `json:"vibe_edge_scale"`
	VibeSaturationScale  float64 `json:"vibe_saturation_scale"`
	VibeContrastScale    float64 `json:"vibe_contrast_scale"`
}

// Default returns the launch thresholds. The values are tuned for social
// media photos and are constants of convenience, not calibrated quantities.
func Default() Thresholds {
	return Thresholds{
		WideAspect:     1.6,
		TallAspect:     0.8,
		PanoramaAspect: 2.0,

		BrightLight:  200,
		WellLitLight: 120,

		LowContrast:  25,
		HighContrast: 60,

		BlurrySharpness:    50,
		VerySharpSharpness: 400,

		ColorfulMin:    40,
		HighSaturation: 80,
		LowSaturation:  30,

		DetailedEdges: 0.06,
		SmoothEdges:   0.015,

		FashionSkin: 0.02,
		HandsSkin:   0.01,

		CenteredDistance: 0.18,

		DaytimeBrightness:  220,
		DaytimeColor:       35,
		NightBrightness:    80,
		NightColor:         25,
		EditorialColor:     30,
		AerialEdges:        0.04,
		DramaticBrightness: 90,
		DramaticSharpness:  200,
		PopColor:           60,
		PopSaturation:      100,

		VibeBrightnessCenter: 100,
		VibeBrightnessScale:  100,
		VibeColorScale:       50,
		VibeSharpnessScale:   200,
		VibeEdgeScale:        0.05,
		VibeSaturationScale:  100,
		VibeContrastScale:    80,
	}
}

// Load reads a JSON thresholds file and applies it on top of the defaults,
// so partial files only override the keys they name.
func Load(path string) (Thresholds, error) {
	t := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("cannot read thresholds file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("cannot parse thresholds file %s: %w", path, err)
	}

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid thresholds in %s: %w", path, err)
	}

	return t, nil
}

// Validate rejects threshold sets that would break bucket ordering or
// divide by zero in the vibe normalization.
func (t Thresholds) Validate() error {
	if t.TallAspect >= t.WideAspect {
		return fmt.Errorf("tall_aspect (%v) must be below wide_aspect (%v)", t.TallAspect, t.WideAspect)
	}
	if t.WellLitLight >= t.BrightLight {
		return fmt.Errorf("well_lit_light (%v) must be below bright_light (%v)", t.WellLitLight, t.BrightLight)
	}
	if t.LowContrast >= t.HighContrast {
		return fmt.Errorf("low_contrast (%v) must be below high_contrast (%v)", t.LowContrast, t.HighContrast)
	}
	if t.BlurrySharpness >= t.VerySharpSharpness {
		return fmt.Errorf("blurry_sharpness (%v) must be below very_sharp_sharpness (%v)", t.BlurrySharpness, t.VerySharpSharpness)
	}
	if t.SmoothEdges >= t.DetailedEdges {
		return fmt.Errorf("smooth_edges (%v) must be below detailed_edges (%v)", t.SmoothEdges, t.DetailedEdges)
	}
	for name, v := range map[string]float64{
		"vibe_brightness_scale": t.VibeBrightnessScale,
		"vibe_color_scale":      t.VibeColorScale,
		"vibe_sharpness_scale":  t.VibeSharpnessScale,
		"vibe_edge_scale":       t.VibeEdgeScale,
		"vibe_saturation_scale": t.VibeSaturationScale,
		"vibe_contrast_scale":   t.VibeContrastScale,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
	}
	return nil
}
