package types

// ImageMetrics holds the low-level features computed for a single image.
// The record is computed once per image and never mutated afterwards.
type ImageMetrics struct {
	Width                      int     `json:"width"`
	Height                     int     `json:"height"`
	Brightness                 float64 `json:"brightness"`
	Contrast                   float64 `json:"contrast"`
	Sharpness                  float64 `json:"sharpness"`
	Colorfulness               float64 `json:"colorfulness"`
	EdgeDensity                float64 `json:"edge_density"`
	DominantRGB                [3]int  `json:"dominant_rgb"`
	SaturationMean             float64 `json:"saturation_mean"`
	SkinRatio                  float64 `json:"skin_ratio"`
	Faces                      int     `json:"faces"`
	CentroidDistanceFromCenter float64 `json:"centroid_distance_from_center"`
}

// AspectRatio returns width/height, guarded against degenerate heights.
func (m ImageMetrics) AspectRatio() float64 {
	return float64(m.Width) / (float64(m.Height) + 1e-9)
}

// VibeResult maps every vibe label to a score in [0,1] and carries the
// winning label with its score as confidence.
type VibeResult struct {
	Scores     map[string]float64 `json:"scores"`
	Label      string             `json:"label"`
	Confidence float64            `json:"confidence"`
}

// Lighting buckets for the quality report.
const (
	LightingUnderexposed = "underexposed"
	LightingGood         = "good"
	LightingExcellent    = "excellent"
	LightingOverexposed  = "overexposed"
)

// QualityReport holds the three quality indicators. VisualAppeal and
// Consistency are both on a 0-100 integer scale.
type QualityReport struct {
	Lighting     string `json:"lighting"`
	VisualAppeal int    `json:"visual_appeal"`
	Consistency  int    `json:"consistency"`
}

// AnalysisResult is the combined engine output returned to callers and
// serialized as-is by the HTTP layer.
type AnalysisResult struct {
	Tags    []string      `json:"tags"`
	Vibe    VibeResult    `json:"vibe"`
	Quality QualityReport `json:"quality"`
	Metrics ImageMetrics  `json:"metrics"`
}

// ImageRecord is a stored analysis row produced by the folder scanner.
type ImageRecord struct {
	ID             int64   `json:"id"`
	Path           string  `json:"path"`
	SourcePrefix   string  `json:"source_prefix"`
	Format         string  `json:"format"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ModifiedAt     string  `json:"modified_at"`
	Size           int64   `json:"size"`
	AverageHash    string  `json:"average_hash"`
	Tags           string  `json:"tags"`
	VibeLabel      string  `json:"vibe_label"`
	VibeConfidence float64 `json:"vibe_confidence"`
	Lighting       string  `json:"lighting"`
	VisualAppeal   int     `json:"visual_appeal"`
	Consistency    int     `json:"consistency"`
	MetricsJSON    string  `json:"metrics"`
	CameraModel    string  `json:"camera_model"`
	TakenAt        string  `json:"taken_at"`
}
